package domain

import "time"

type PassengerType string

const (
	PassengerAdult  PassengerType = "ADULT"
	PassengerChild  PassengerType = "CHILD"
	PassengerInfant PassengerType = "INFANT"
)

// PassengerParams holds the passenger counts the flight offer was priced for.
type PassengerParams struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

func (p PassengerParams) Total() int {
	return p.Adults + p.Children + p.Infants
}

// Segment is a single leg of a flight direction.
type Segment struct {
	DepartureAirport string    `json:"departureAirport"`
	DepartureTime    time.Time `json:"departureTime"`
	ArrivalAirport   string    `json:"arrivalAirport"`
	ArrivalTime      time.Time `json:"arrivalTime"`
	Duration         string    `json:"duration,omitempty"`
	FlightNumber     string    `json:"flightNumber,omitempty"`
	Carrier          string    `json:"carrier,omitempty"`
	Supplier         string    `json:"supplier,omitempty"`
	Currency         string    `json:"currency,omitempty"`
	Price            float64   `json:"price,omitempty"`
}

// PassengerPrice is the per-passenger price breakdown for one passenger type,
// present only when the supplier reports unit prices.
type PassengerPrice struct {
	Total float64 `json:"total"`
}

type FlightGeneral struct {
	PriceKey       string                           `json:"priceKey,omitempty"`
	CachedID       string                           `json:"cachedID,omitempty"`
	Supplier       string                           `json:"supplier"`
	Currency       string                           `json:"currency"`
	TransactionFee float64                          `json:"transactionFee,omitempty"`
	Price          float64                          `json:"price"`
	OriginalPrice  float64                          `json:"originalPrice,omitempty"`
	Pricing        map[PassengerType]PassengerPrice `json:"pricing,omitempty"`
}

// Flight is a priced offer produced by the inventory integration. It is
// treated as immutable: pricing produces a new value via Clone.
type Flight struct {
	Params           PassengerParams `json:"params"`
	General          FlightGeneral   `json:"general"`
	ForwardSegments  []Segment       `json:"forwardSegments"`
	ComebackSegments []Segment       `json:"comebackSegments,omitempty"`
}

// Clone returns a deep copy of the flight.
func (f Flight) Clone() Flight {
	c := f
	if f.General.Pricing != nil {
		c.General.Pricing = make(map[PassengerType]PassengerPrice, len(f.General.Pricing))
		for k, v := range f.General.Pricing {
			c.General.Pricing[k] = v
		}
	}
	if f.ForwardSegments != nil {
		c.ForwardSegments = append([]Segment(nil), f.ForwardSegments...)
	}
	if f.ComebackSegments != nil {
		c.ComebackSegments = append([]Segment(nil), f.ComebackSegments...)
	}
	return c
}
