package domain

import "time"

type MarkupType string

const (
	MarkupFixed            MarkupType = "FIXED"
	MarkupPercentage       MarkupType = "PERCENTAGE"
	MarkupMinPercentage    MarkupType = "MIN_PERCENTAGE"
	MarkupPercentageMax    MarkupType = "PERCENTAGE_MAX"
	MarkupMinPercentageMax MarkupType = "MIN_PERCENTAGE_MAX"
)

type SubmissionPlace string

const (
	SubmissionSearchResults SubmissionPlace = "SEARCH_RESULTS"
	SubmissionSelfService   SubmissionPlace = "SELF_SERVICE"
)

// MarkupValue carries the numeric parameters of a markup formula. Which
// fields are meaningful depends on the markup type.
type MarkupValue struct {
	Fixed      float64 `json:"fixed,omitempty"`
	Min        float64 `json:"min,omitempty"`
	Max        float64 `json:"max,omitempty"`
	Percentage float64 `json:"percentage,omitempty"`
}

type MarkupGeneral struct {
	SubmissionPlace SubmissionPlace `json:"submissionPlace"`
	MarkupType      MarkupType      `json:"markupType"`
	Currency        string          `json:"currency"`
	Value           MarkupValue     `json:"value"`
}

// PassengerConditionType extends passenger types with ALL, which compares
// against the sum of all passenger counts.
type PassengerConditionType string

const (
	ConditionAdult  PassengerConditionType = "ADULT"
	ConditionChild  PassengerConditionType = "CHILD"
	ConditionInfant PassengerConditionType = "INFANT"
	ConditionAll    PassengerConditionType = "ALL"
)

type PassengerCondition struct {
	Type  PassengerConditionType `json:"type"`
	Count int                    `json:"count"`
}

type DepartureConditionType string

const (
	DepartureDateRange DepartureConditionType = "DATE_RANGE"
	DepartureDay       DepartureConditionType = "DAY"
)

type DepartureCondition struct {
	Type      DepartureConditionType `json:"type"`
	StartDate time.Time              `json:"startDate,omitempty"`
	EndDate   time.Time              `json:"endDate,omitempty"`
	Days      int                    `json:"days,omitempty"`
}

type PriceRangeCondition struct {
	StartPrice float64 `json:"startPrice"`
	EndPrice   float64 `json:"endPrice"`
}

// Markup is a pricing rule. Rules are evaluated in ascending Priority order
// and the first matching rule wins. Only the default rule may omit all match
// conditions.
type Markup struct {
	ID          string                `json:"id"`
	Project     string                `json:"project"`
	Name        string                `json:"name"`
	Default     bool                  `json:"default"`
	Priority    int                   `json:"priority"`
	General     MarkupGeneral         `json:"general"`
	Passengers  []PassengerCondition  `json:"passengers,omitempty"`
	Suppliers   []string              `json:"suppliers,omitempty"`
	Departures  []DepartureCondition  `json:"departures,omitempty"`
	PriceRanges []PriceRangeCondition `json:"priceRanges,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// DefaultMarkup applies 10 fixed units to all flights when no other rule
// matches.
func DefaultMarkup() Markup {
	return Markup{
		Name:    "Default",
		Default: true,
		General: MarkupGeneral{
			SubmissionPlace: SubmissionSearchResults,
			MarkupType:      MarkupFixed,
			Currency:        "EUR",
			Value:           MarkupValue{Fixed: 10},
		},
	}
}
