package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/booklytrip/booking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMarkupRepository struct {
	mock.Mock
}

func (m *MockMarkupRepository) List(ctx context.Context, project string) ([]domain.Markup, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Markup), args.Error(1)
}

func (m *MockMarkupRepository) Create(ctx context.Context, rule *domain.Markup) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockMarkupRepository) Update(ctx context.Context, rule *domain.Markup) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockMarkupRepository) Delete(ctx context.Context, project, id string) error {
	args := m.Called(ctx, project, id)
	return args.Error(0)
}

func (m *MockMarkupRepository) Reorder(ctx context.Context, project string, ids []string) error {
	args := m.Called(ctx, project, ids)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetMarkups(ctx context.Context, project string) ([]domain.Markup, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Markup), args.Error(1)
}

func (m *MockCache) SetMarkups(ctx context.Context, project string, rules []domain.Markup) error {
	args := m.Called(ctx, project, rules)
	return args.Error(0)
}

func fixedRule(amount float64) domain.Markup {
	return domain.Markup{
		ID:      "rule1",
		Project: "proj1",
		Default: true,
		General: domain.MarkupGeneral{
			MarkupType: domain.MarkupFixed,
			Value:      domain.MarkupValue{Fixed: amount},
		},
	}
}

func offer(currency string, price float64) domain.Flight {
	return domain.Flight{
		Params: domain.PassengerParams{Adults: 1},
		General: domain.FlightGeneral{
			Supplier: "ryanair",
			Currency: currency,
			Price:    price,
		},
	}
}

func TestPricing_Rules_CacheMiss(t *testing.T) {
	mockMarkups := &MockMarkupRepository{}
	mockCache := &MockCache{}

	service := NewPricingService(mockMarkups, mockCache)

	ctx := context.Background()
	rules := []domain.Markup{fixedRule(10)}

	mockCache.On("GetMarkups", ctx, "proj1").Return(nil, nil).Once()
	mockMarkups.On("List", ctx, "proj1").Return(rules, nil).Once()
	mockCache.On("SetMarkups", ctx, "proj1", rules).Return(nil).Once()

	got, err := service.Rules(ctx, "proj1")

	assert.NoError(t, err)
	assert.Equal(t, rules, got)
	mockMarkups.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestPricing_Rules_CacheHit(t *testing.T) {
	mockMarkups := &MockMarkupRepository{}
	mockCache := &MockCache{}

	service := NewPricingService(mockMarkups, mockCache)

	ctx := context.Background()
	rules := []domain.Markup{fixedRule(10)}

	mockCache.On("GetMarkups", ctx, "proj1").Return(rules, nil).Once()

	got, err := service.Rules(ctx, "proj1")

	assert.NoError(t, err)
	assert.Equal(t, rules, got)
	mockMarkups.AssertNotCalled(t, "List")
}

func TestPricing_Rules_CacheWriteFailureIsNonFatal(t *testing.T) {
	mockMarkups := &MockMarkupRepository{}
	mockCache := &MockCache{}

	service := NewPricingService(mockMarkups, mockCache)

	ctx := context.Background()
	rules := []domain.Markup{fixedRule(10)}

	mockCache.On("GetMarkups", ctx, "proj1").Return(nil, errors.New("redis down")).Once()
	mockMarkups.On("List", ctx, "proj1").Return(rules, nil).Once()
	mockCache.On("SetMarkups", ctx, "proj1", rules).Return(errors.New("redis down")).Once()

	got, err := service.Rules(ctx, "proj1")

	assert.NoError(t, err)
	assert.Equal(t, rules, got)
}

func TestPricing_PriceFlight(t *testing.T) {
	mockMarkups := &MockMarkupRepository{}

	service := NewPricingService(mockMarkups, nil)

	ctx := context.Background()
	mockMarkups.On("List", ctx, "proj1").Return([]domain.Markup{fixedRule(10)}, nil).Once()

	flight := offer("EUR", 100)
	priced, err := service.PriceFlight(ctx, "proj1", flight)

	assert.NoError(t, err)
	assert.Equal(t, 110.0, priced.General.Price)
	assert.Equal(t, 100.0, priced.General.OriginalPrice)
	// The input offer stays untouched.
	assert.Equal(t, 100.0, flight.General.Price)
}

func TestPricing_PriceFlights_SortedByPrice(t *testing.T) {
	mockMarkups := &MockMarkupRepository{}

	service := NewPricingService(mockMarkups, nil)

	ctx := context.Background()
	mockMarkups.On("List", ctx, "proj1").Return([]domain.Markup{fixedRule(10)}, nil).Once()

	flights := []domain.Flight{
		offer("EUR", 300),
		offer("EUR", 100),
		offer("EUR", 200),
	}

	priced, err := service.PriceFlights(ctx, "proj1", flights)

	assert.NoError(t, err)
	assert.Len(t, priced, 3)
	assert.Equal(t, 110.0, priced[0].General.Price)
	assert.Equal(t, 210.0, priced[1].General.Price)
	assert.Equal(t, 310.0, priced[2].General.Price)
}

func TestPricing_PriceFlights_ListError(t *testing.T) {
	mockMarkups := &MockMarkupRepository{}

	service := NewPricingService(mockMarkups, nil)

	ctx := context.Background()
	mockMarkups.On("List", ctx, "proj1").Return(nil, errors.New("db down")).Once()

	_, err := service.PriceFlights(ctx, "proj1", []domain.Flight{offer("EUR", 100)})

	assert.Error(t, err)
}
