package domain

import (
	"math"
	"time"
)

type BookingState string

const (
	StatePayment      BookingState = "PAYMENT"
	StateReservation  BookingState = "RESERVATION"
	StateConfirmation BookingState = "CONFIRMATION"
	StateCheckIn      BookingState = "CHECK_IN"
	StateDocuments    BookingState = "DOCUMENTS"
)

type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "success"
	PaymentPending PaymentStatus = "pending"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment records the outcome reported by the payment gateway.
type Payment struct {
	Service        string        `json:"service"`
	Status         PaymentStatus `json:"status"`
	Method         string        `json:"method"`
	Amount         float64       `json:"amount"`
	TransactionFee float64       `json:"transactionFee"`
	Currency       string        `json:"currency"`
	Error          string        `json:"error,omitempty"`
	ReceivedAt     time.Time     `json:"receivedAt"`
}

type CheckinStatus string

const (
	CheckinNotRequired CheckinStatus = "NOT_REQUIRED"
	CheckinPending     CheckinStatus = "PENDING"
	CheckinConfirmed   CheckinStatus = "CONFIRMED"
)

// Order is one supplier reservation covering a group of segments.
type Order struct {
	ID       string         `json:"id"`
	PNR      string         `json:"pnr,omitempty"`
	Provider string         `json:"provider,omitempty"`
	Supplier string         `json:"supplier"`
	Segments []string       `json:"segments,omitempty"`
	Checkin  CheckinStatus  `json:"checkin"`
	Response map[string]any `json:"response,omitempty"`
}

// RefreshPNR extracts the supplier-assigned PNR from the raw response payload
// when the order does not have one yet. The response layout differs per
// supplier.
func (o *Order) RefreshPNR() {
	if o.PNR != "" || o.Response == nil {
		return
	}
	switch o.Supplier {
	case "travelport":
		o.PNR = digString(o.Response, "locatorCode")
	case "ryanair":
		o.PNR = digString(o.Response, "info", "pnr")
	default:
		// Works for ryanair and wizzair, so most suppliers are expected
		// to follow the same layout.
		o.PNR = digString(o.Response, "order", "pnr")
	}
}

// RequiresCheckin reports whether the supplier expects us to check
// passengers in ourselves.
func (o Order) RequiresCheckin() bool {
	return o.Supplier == "ryanair" || o.Supplier == "wizzair"
}

func digString(m map[string]any, path ...string) string {
	var cur any = m
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = obj[key]
	}
	s, _ := cur.(string)
	return s
}

type Phone struct {
	CountryCode string `json:"countryCode,omitempty"`
	Number      string `json:"number,omitempty"`
}

type Contact struct {
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
	Phone    Phone  `json:"phone,omitempty"`
}

// BaggageItem is a single piece of purchasable baggage.
type BaggageItem struct {
	Weight int     `json:"weight,omitempty"`
	Price  float64 `json:"price"`
}

// Baggage groups cabin and checked baggage bought for one direction.
type Baggage struct {
	Cabin   *BaggageItem `json:"cabin,omitempty"`
	Checked *BaggageItem `json:"checked,omitempty"`
}

type Passenger struct {
	Type            PassengerType `json:"type"`
	Title           string        `json:"title,omitempty"`
	FirstName       string        `json:"firstName"`
	LastName        string        `json:"lastName"`
	Nationality     string        `json:"nationality,omitempty"`
	BirthDate       *time.Time    `json:"birthDate,omitempty"`
	ForwardBaggage  *Baggage      `json:"forwardBaggage,omitempty"`
	ComebackBaggage *Baggage      `json:"comebackBaggage,omitempty"`
}

// Booking aggregates a frozen flight offer with passengers, reached states,
// payment details and supplier orders. States is a set of reached milestones,
// not a linear progression: some suppliers skip RESERVATION and report
// CONFIRMATION directly.
type Booking struct {
	ID         string         `json:"id"`
	Project    string         `json:"project"`
	PNR        string         `json:"pnr"`
	States     []BookingState `json:"states"`
	Flight     Flight         `json:"flight"`
	Contact    Contact        `json:"contact"`
	Passengers []Passenger    `json:"passengers"`
	Payment    *Payment       `json:"payment,omitempty"`
	Orders     []Order        `json:"orders,omitempty"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// HasState reports whether the booking has reached the given state.
func (b *Booking) HasState(state BookingState) bool {
	for _, s := range b.States {
		if s == state {
			return true
		}
	}
	return false
}

// AddState adds a state to the reached set. Adding a state that is already
// present is a no-op.
func (b *Booking) AddState(state BookingState) {
	if b.HasState(state) {
		return
	}
	b.States = append(b.States, state)
}

// FindOrder returns the order with the given id, or nil.
func (b *Booking) FindOrder(id string) *Order {
	for i := range b.Orders {
		if b.Orders[i].ID == id {
			return &b.Orders[i]
		}
	}
	return nil
}

// TotalPrice is the amount the passenger is expected to pay: flight price
// plus transaction fees plus baggage add-ons, rounded to 2 decimals.
func (b *Booking) TotalPrice() float64 {
	total := b.Flight.General.Price
	total += b.Flight.General.TransactionFee
	if b.Payment != nil {
		total += b.Payment.TransactionFee
	}
	for _, p := range b.Passengers {
		for _, bag := range []*Baggage{p.ForwardBaggage, p.ComebackBaggage} {
			if bag == nil {
				continue
			}
			if bag.Cabin != nil {
				total += bag.Cabin.Price
			}
			if bag.Checked != nil {
				total += bag.Checked.Price
			}
		}
	}
	return math.Round(total*100) / 100
}
