package pricing

import (
	"context"
	"log"
	"sort"

	"github.com/booklytrip/booking/internal/domain"
	"github.com/booklytrip/booking/internal/markup"
	"github.com/booklytrip/booking/internal/repository"
)

type PricingUseCase interface {
	PriceFlights(ctx context.Context, project string, flights []domain.Flight) ([]domain.Flight, error)
	PriceFlight(ctx context.Context, project string, flight domain.Flight) (domain.Flight, error)
	Rules(ctx context.Context, project string) ([]domain.Markup, error)
}

type Cache interface {
	GetMarkups(ctx context.Context, project string) ([]domain.Markup, error)
	SetMarkups(ctx context.Context, project string, rules []domain.Markup) error
}

// PricingService applies a project's markup rules to raw flight offers.
type PricingService struct {
	markups repository.MarkupRepository
	cache   Cache
}

func NewPricingService(markups repository.MarkupRepository, cache Cache) *PricingService {
	return &PricingService{markups: markups, cache: cache}
}

// Rules returns the project's markup rules in evaluation order, preferring
// the cache.
func (s *PricingService) Rules(ctx context.Context, project string) ([]domain.Markup, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetMarkups(ctx, project); err == nil && cached != nil {
			return cached, nil
		}
	}

	rules, err := s.markups.List(ctx, project)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetMarkups(ctx, project, rules); err != nil {
			log.Printf("cache markups for project %s: %v", project, err)
		}
	}
	return rules, nil
}

// PriceFlight applies the first matching rule to a single offer.
func (s *PricingService) PriceFlight(ctx context.Context, project string, flight domain.Flight) (domain.Flight, error) {
	rules, err := s.Rules(ctx, project)
	if err != nil {
		return domain.Flight{}, err
	}
	return markup.MatchAndApply(flight, rules)
}

// PriceFlights prices a search result set and orders it by price, cheapest
// first.
func (s *PricingService) PriceFlights(ctx context.Context, project string, flights []domain.Flight) ([]domain.Flight, error) {
	rules, err := s.Rules(ctx, project)
	if err != nil {
		return nil, err
	}

	priced := make([]domain.Flight, 0, len(flights))
	for _, flight := range flights {
		result, err := markup.MatchAndApply(flight, rules)
		if err != nil {
			return nil, err
		}
		priced = append(priced, result)
	}

	sort.SliceStable(priced, func(i, j int) bool {
		return priced[i].General.Price < priced[j].General.Price
	})
	return priced, nil
}

var _ PricingUseCase = (*PricingService)(nil)
