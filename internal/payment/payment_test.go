package payment

import (
	"testing"

	"github.com/booklytrip/booking/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestResolveMethod(t *testing.T) {
	settings := domain.PayseraSettings{
		Methods: []domain.PaymentMethod{
			{ID: "hanza", TransactionFee: 2, Enabled: true},
			{ID: "vb", TransactionFee: 1.5, Enabled: true},
		},
	}

	method, err := ResolveMethod(settings, "vb")
	assert.NoError(t, err)
	assert.Equal(t, "vb", method.ID)

	_, err = ResolveMethod(settings, "nordea")
	assert.ErrorIs(t, err, ErrMethodNotFound)
}

func TestTransactionFee(t *testing.T) {
	testCases := []struct {
		name     string
		method   domain.PaymentMethod
		price    float64
		expected float64
	}{
		{
			name:     "plain percentage",
			method:   domain.PaymentMethod{TransactionFee: 2},
			price:    100,
			expected: 2,
		},
		{
			name:     "clamped to min",
			method:   domain.PaymentMethod{TransactionFee: 2, MinTransactionFee: 5},
			price:    100,
			expected: 5,
		},
		{
			name:     "clamped to max",
			method:   domain.PaymentMethod{TransactionFee: 2, MaxTransactionFee: 1},
			price:    100,
			expected: 1,
		},
		{
			name:     "rounded to 2 decimals",
			method:   domain.PaymentMethod{TransactionFee: 2},
			price:    38.98,
			expected: 0.78,
		},
		{
			name:     "zero method",
			method:   domain.PaymentMethod{},
			price:    100,
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, TransactionFee(tc.method, tc.price))
		})
	}
}
