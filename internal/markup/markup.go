// Package markup prices flight offers using configurable markup rules.
//
// A rule carries a price formula and optional match conditions. Rules are
// evaluated in list order and the first matching rule is applied, producing a
// new flight value with the adjusted price.
package markup

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/booklytrip/booking/internal/domain"
)

// ErrInvalidMarkupType is returned by Calc when a rule carries an unknown
// markup type. It is fatal for that pricing call only.
var ErrInvalidMarkupType = fmt.Errorf("invalid markup type")

func passengerCondition(flight domain.Flight, cond domain.PassengerCondition) bool {
	switch cond.Type {
	case domain.ConditionAdult:
		return flight.Params.Adults >= cond.Count
	case domain.ConditionChild:
		return flight.Params.Children >= cond.Count
	case domain.ConditionInfant:
		return flight.Params.Infants >= cond.Count
	case domain.ConditionAll:
		return flight.Params.Total() >= cond.Count
	default:
		return false
	}
}

func supplierCondition(flight domain.Flight, supplier string) bool {
	return strings.EqualFold(flight.General.Supplier, supplier)
}

func departureCondition(flight domain.Flight, cond domain.DepartureCondition, now time.Time) bool {
	if len(flight.ForwardSegments) == 0 {
		return false
	}
	departure := flight.ForwardSegments[0].DepartureTime

	switch cond.Type {
	case domain.DepartureDateRange:
		return !departure.Before(cond.StartDate) && !departure.After(cond.EndDate)
	case domain.DepartureDay:
		days := departure.Sub(now).Hours() / 24
		return math.Abs(math.Trunc(days)) <= float64(cond.Days)
	default:
		return false
	}
}

func priceRangeCondition(flight domain.Flight, cond domain.PriceRangeCondition) bool {
	price := flight.General.Price
	return price >= cond.StartPrice && price <= cond.EndPrice
}

// Match reports whether the rule applies to the flight. All condition groups
// that are present must pass; within the passenger group every condition must
// hold, within the other groups any condition is enough.
func Match(flight domain.Flight, rule domain.Markup) bool {
	// The default rule always matches. It is expected to be evaluated
	// last by MatchAndApply callers.
	if rule.Default {
		return true
	}

	if flight.General.Currency != "" && flight.General.Currency != rule.General.Currency {
		return false
	}

	if len(rule.Passengers) > 0 {
		for _, cond := range rule.Passengers {
			if !passengerCondition(flight, cond) {
				return false
			}
		}
	}

	if len(rule.Suppliers) > 0 {
		matched := false
		for _, supplier := range rule.Suppliers {
			if supplierCondition(flight, supplier) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(rule.Departures) > 0 {
		now := time.Now()
		matched := false
		for _, cond := range rule.Departures {
			if departureCondition(flight, cond, now) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(rule.PriceRanges) > 0 {
		matched := false
		for _, cond := range rule.PriceRanges {
			if priceRangeCondition(flight, cond) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Calc computes a new price from the original price and the rule's formula.
func Calc(price float64, rule domain.Markup) (float64, error) {
	value := rule.General.Value

	switch rule.General.MarkupType {
	case domain.MarkupFixed:
		return price + value.Fixed, nil
	case domain.MarkupPercentage:
		return round2(price + price*value.Percentage/100), nil
	case domain.MarkupMinPercentage:
		marked := round2(price + price*value.Percentage/100)
		if marked < value.Min {
			return value.Min, nil
		}
		return marked, nil
	case domain.MarkupPercentageMax:
		marked := round2(price + price*value.Percentage/100)
		if marked > value.Max {
			return value.Max, nil
		}
		return marked, nil
	case domain.MarkupMinPercentageMax:
		marked := round2(price + price*value.Percentage/100)
		if marked < value.Min {
			return value.Min, nil
		}
		if marked > value.Max {
			return value.Max, nil
		}
		return marked, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMarkupType, rule.General.MarkupType)
	}
}

// Apply prices the flight with the given rule without checking match
// conditions, and returns a new flight value. The input is never mutated:
// the resulting flight carries the new price in General.Price and the
// pre-markup value in General.OriginalPrice.
//
// When the offer has a per-passenger pricing breakdown, the markup is applied
// to each passenger type's unit price and multiplied by its count. Otherwise
// the total price is split evenly across passengers and each share is marked
// up separately.
func Apply(flight domain.Flight, rule domain.Markup) (domain.Flight, error) {
	var price float64

	if len(flight.General.Pricing) == 0 {
		count := flight.Params.Total()
		perPassenger := flight.General.Price / float64(count)
		for i := 0; i < count; i++ {
			marked, err := Calc(perPassenger, rule)
			if err != nil {
				return domain.Flight{}, err
			}
			price += marked
		}
	} else {
		counts := map[domain.PassengerType]int{
			domain.PassengerAdult:  flight.Params.Adults,
			domain.PassengerChild:  flight.Params.Children,
			domain.PassengerInfant: flight.Params.Infants,
		}
		for _, ptype := range []domain.PassengerType{domain.PassengerAdult, domain.PassengerChild, domain.PassengerInfant} {
			count := counts[ptype]
			if count == 0 {
				continue
			}
			marked, err := Calc(flight.General.Pricing[ptype].Total, rule)
			if err != nil {
				return domain.Flight{}, err
			}
			price += marked * float64(count)
		}
	}

	priced := flight.Clone()
	priced.General.Price = round2(price)
	priced.General.OriginalPrice = flight.General.Price
	return priced, nil
}

// MatchAndApply evaluates the rules in order and applies the first one that
// matches. If no rule matches, the original flight is returned unchanged.
func MatchAndApply(flight domain.Flight, rules []domain.Markup) (domain.Flight, error) {
	for _, rule := range rules {
		if Match(flight, rule) {
			return Apply(flight, rule)
		}
	}
	return flight, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
