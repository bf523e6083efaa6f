// Package reconciler applies asynchronous payment-gateway callbacks to
// bookings and drives the downstream reservation confirmation.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/booklytrip/booking/internal/domain"
	"github.com/booklytrip/booking/internal/flightsapi"
	"github.com/booklytrip/booking/internal/kafka"
	"github.com/booklytrip/booking/internal/payment"
	"github.com/booklytrip/booking/internal/paysera"
	"github.com/booklytrip/booking/internal/repository"
)

// Gateway payment status codes.
const (
	statusSuccess = 1
	statusPending = 2
)

// How many times the per-PNR lease is attempted before giving up and
// re-evaluating the idempotency guard.
const leaseAttempts = 3

// Callback is the raw inbound gateway query. It lives only for the duration
// of one request.
type Callback struct {
	Data    string
	SS1     string
	Project string
}

type ReconcilerUseCase interface {
	Process(ctx context.Context, callback Callback) error
}

// Cache provides the per-PNR mutual-exclusion lease that serializes
// concurrent callbacks for the same booking.
type Cache interface {
	AcquirePNRLease(ctx context.Context, pnr string, ttl time.Duration) (bool, error)
	ReleasePNRLease(ctx context.Context, pnr string) error
}

// FlightOrderAPI finalizes the reservation with the inventory supplier.
type FlightOrderAPI interface {
	Book(ctx context.Context, booking *domain.Booking, project *domain.Project) (*flightsapi.BookResponse, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type ReconcilerService struct {
	projects   repository.ProjectRepository
	bookings   repository.BookingRepository
	cache      Cache
	flights    FlightOrderAPI
	producer   Producer
	topic      string
	pnrWindow  time.Duration
	leaseTTL   time.Duration
	production bool
}

type ReconcilerOption func(*ReconcilerService)

func WithEventsTopic(topic string) ReconcilerOption {
	return func(s *ReconcilerService) {
		s.topic = topic
	}
}

func WithProductionMode(production bool) ReconcilerOption {
	return func(s *ReconcilerService) {
		s.production = production
	}
}

func NewReconcilerService(
	projects repository.ProjectRepository,
	bookings repository.BookingRepository,
	cache Cache,
	flights FlightOrderAPI,
	producer Producer,
	pnrWindow, leaseTTL time.Duration,
	opts ...ReconcilerOption,
) *ReconcilerService {
	service := &ReconcilerService{
		projects:  projects,
		bookings:  bookings,
		cache:     cache,
		flights:   flights,
		producer:  producer,
		pnrWindow: pnrWindow,
		leaseTTL:  leaseTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Process applies one gateway callback. A nil return means the callback must
// be acknowledged with "OK"; an error means the gateway should keep retrying
// (signature failures, configuration faults, persistence failures before the
// acknowledgment point).
func (s *ReconcilerService) Process(ctx context.Context, callback Callback) error {
	// A missing project is a server-side configuration fault, not a
	// gateway fault.
	project, err := s.projects.GetByID(ctx, callback.Project)
	if err != nil {
		return fmt.Errorf("resolve project %s: %w", callback.Project, err)
	}
	settings := project.Payment.Paysera

	fields, err := paysera.ValidateAndParseResponse(paysera.Response{
		Data:    callback.Data,
		SS1:     callback.SS1,
		Project: callback.Project,
	}, settings)
	if err != nil {
		return err
	}

	orderID := fields.Get("orderid")

	// Callback processing for one booking is serialized on a redis lease.
	// Losing the race means another delivery is being applied right now:
	// re-read the booking, re-evaluate the idempotency guard and no-op.
	acquired, err := s.acquireLease(ctx, orderID)
	if err != nil {
		return err
	}
	if !acquired {
		s.reportLostRace(ctx, orderID)
		return nil
	}
	defer func() {
		if err := s.cache.ReleasePNRLease(ctx, orderID); err != nil {
			log.Printf("release lease for PNR %s: %v", orderID, err)
		}
	}()

	booking, err := s.bookings.FindByPNRWithin(ctx, orderID, s.pnrWindow)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Stale or foreign PNR. Retried callbacks for it must not
			// error the gateway.
			log.Printf("booking with PNR %s is not found", orderID)
			return nil
		}
		return err
	}

	// Test-payment leakage guard.
	if s.production && fields.Get("test") == "1" {
		log.Printf("test payments are not allowed in production (PNR %s)", orderID)
		return nil
	}

	// At-most-once: a payment that is already applied is never reprocessed,
	// regardless of gateway retry behavior.
	if booking.HasState(domain.StatePayment) {
		log.Printf("payment for PNR %s is already received", orderID)
		return nil
	}

	amountMinor, _ := strconv.ParseInt(fields.Get("amount"), 10, 64)
	method, err := payment.ResolveMethod(settings, fields.Get("payment"))
	if err != nil {
		// Fee bookkeeping degrades to zero when the method is unknown.
		log.Printf("payment method %q is not configured for project %s", fields.Get("payment"), project.ID)
	}

	// The method fee is charged on the frozen flight price. The callback
	// amount already includes it, so it cannot be the fee base.
	booking.Payment = &domain.Payment{
		Service:        "paysera",
		Method:         fields.Get("payment"),
		Amount:         float64(amountMinor) / 100,
		TransactionFee: payment.TransactionFee(method, booking.Flight.General.Price),
		Currency:       fields.Get("currency"),
		ReceivedAt:     time.Now(),
	}

	status, _ := strconv.Atoi(fields.Get("status"))
	switch status {
	case statusSuccess:
		if msg := validatePayment(booking, amountMinor, fields.Get("currency")); msg != "" {
			log.Printf("received invalid payment request for booking %s: %s", booking.ID, msg)
			booking.Payment.Status = domain.PaymentFailed
			booking.Payment.Error = msg
		} else {
			log.Printf("payment for booking %s successfully received", booking.ID)
			booking.AddState(domain.StatePayment)
			booking.Payment.Status = domain.PaymentSuccess
		}
	case statusPending:
		booking.Payment.Status = domain.PaymentPending
	default:
		booking.Payment.Status = domain.PaymentFailed
	}

	if err := s.bookings.Save(ctx, booking); err != nil {
		return fmt.Errorf("save booking %s: %w", booking.ID, err)
	}

	if booking.HasState(domain.StateConfirmation) {
		log.Printf("booking %s is already completed", booking.ID)
		return nil
	}

	if booking.Payment.Status != domain.PaymentSuccess {
		return nil
	}

	if err := s.confirmOrders(ctx, booking, project); err != nil {
		return err
	}

	s.notify(ctx, booking)
	return nil
}

// confirmOrders finalizes the reservation with the supplier and merges the
// returned order details into the booking. Downstream failures are recorded
// on the booking and acknowledged, never raised.
func (s *ReconcilerService) confirmOrders(ctx context.Context, booking *domain.Booking, project *domain.Project) error {
	resp, err := s.flights.Book(ctx, booking, project)
	if err != nil {
		log.Printf("unable to complete flight for booking %s: %v", booking.ID, err)
		booking.Error = err.Error()
		return s.saveResult(ctx, booking)
	}
	if resp.Error != "" {
		log.Printf("unable to complete flight for booking %s because of error: %s", booking.ID, resp.Error)
		booking.Error = resp.Error
		return s.saveResult(ctx, booking)
	}

	log.Printf("flight orders for booking %s successfully received", booking.ID)
	booking.AddState(domain.StateConfirmation)
	booking.Error = ""

	for _, result := range resp.Data {
		order := booking.FindOrder(result.Reference)
		if order == nil {
			log.Printf("unable to find order %s in booking %s", result.Reference, booking.ID)
			continue
		}
		if result.Provider != "" {
			order.Provider = result.Provider
		}
		if result.Response != nil {
			order.Response = result.Response
		}
		if result.PNR != "" {
			order.PNR = result.PNR
		} else {
			order.RefreshPNR()
		}
		if order.RequiresCheckin() && order.Checkin == domain.CheckinNotRequired {
			order.Checkin = domain.CheckinPending
		}
	}

	return s.saveResult(ctx, booking)
}

func (s *ReconcilerService) saveResult(ctx context.Context, booking *domain.Booking) error {
	if err := s.bookings.Save(ctx, booking); err != nil {
		return fmt.Errorf("save booking %s: %w", booking.ID, err)
	}
	return nil
}

func (s *ReconcilerService) acquireLease(ctx context.Context, pnr string) (bool, error) {
	if s.cache == nil {
		return true, nil
	}
	for attempt := 1; ; attempt++ {
		ok, err := s.cache.AcquirePNRLease(ctx, pnr, s.leaseTTL)
		if err != nil {
			return false, fmt.Errorf("acquire lease for PNR %s: %w", pnr, err)
		}
		if ok {
			return true, nil
		}
		if attempt >= leaseAttempts {
			return false, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// reportLostRace logs the state observed after a lost lease race. The caller
// acknowledges the callback either way: the concurrent holder owns the state
// transition.
func (s *ReconcilerService) reportLostRace(ctx context.Context, pnr string) {
	booking, err := s.bookings.FindByPNRWithin(ctx, pnr, s.pnrWindow)
	if err != nil {
		log.Printf("lost lease race for PNR %s, booking re-read failed: %v", pnr, err)
		return
	}
	if booking.HasState(domain.StatePayment) {
		log.Printf("lost lease race for PNR %s, payment already applied", pnr)
		return
	}
	log.Printf("lost lease race for PNR %s, concurrent callback in flight", pnr)
}

// notify publishes a payment-received event. Failures are logged only; the
// notification is fire-and-forget relative to the callback response.
func (s *ReconcilerService) notify(ctx context.Context, booking *domain.Booking) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.PaymentEvent{
		Type:      "paymentReceived",
		BookingID: booking.ID,
		Project:   booking.Project,
		PNR:       booking.PNR,
		Email:     booking.Contact.Email,
		Status:    string(booking.Payment.Status),
		Amount:    booking.Payment.Amount,
		Currency:  booking.Payment.Currency,
		CreatedAt: time.Now(),
	}
	if err := s.producer.Publish(ctx, s.topic, booking.PNR, event); err != nil {
		log.Printf("publish payment event for booking %s: %v", booking.ID, err)
	}
}

// validatePayment checks the reported amount and currency against the frozen
// flight offer. The amount comparison runs on integer minor units.
func validatePayment(booking *domain.Booking, amountMinor int64, currency string) string {
	if int64(math.Floor(booking.TotalPrice()*100)) != amountMinor {
		return "Payment price doesn't match flight price"
	}
	if !strings.EqualFold(booking.Flight.General.Currency, currency) {
		return "Payment currency doesn't match flight currency."
	}
	return ""
}

var _ ReconcilerUseCase = (*ReconcilerService)(nil)
