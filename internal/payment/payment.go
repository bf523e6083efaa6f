// Package payment holds the transaction-fee policy for gateway payment
// methods.
package payment

import (
	"errors"
	"math"

	"github.com/booklytrip/booking/internal/domain"
)

// ErrMethodNotFound is returned when a callback references a payment method
// that is not configured for the project.
var ErrMethodNotFound = errors.New("payment method not found")

// ResolveMethod finds the configured payment method used by a callback.
func ResolveMethod(settings domain.PayseraSettings, methodID string) (domain.PaymentMethod, error) {
	method, ok := settings.Method(methodID)
	if !ok {
		return domain.PaymentMethod{}, ErrMethodNotFound
	}
	return method, nil
}

// TransactionFee computes the fee for paying the given price with the given
// method: a percentage of the price clamped to the method's min/max fee when
// configured, rounded to 2 decimals.
func TransactionFee(method domain.PaymentMethod, price float64) float64 {
	fee := price * method.TransactionFee / 100
	if method.MinTransactionFee > 0 && fee < method.MinTransactionFee {
		fee = method.MinTransactionFee
	} else if method.MaxTransactionFee > 0 && fee > method.MaxTransactionFee {
		fee = method.MaxTransactionFee
	}
	return math.Round(fee*100) / 100
}
