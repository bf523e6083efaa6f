package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/booklytrip/booking/internal/domain"
	"github.com/booklytrip/booking/internal/pnr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// PNR uniqueness is enforced within this window when creating bookings.
const pnrUniqueDays = 300

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	FindByPNRWithin(ctx context.Context, pnr string, window time.Duration) (*domain.Booking, error)
	Save(ctx context.Context, booking *domain.Booking) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	code, err := r.uniquePNR(ctx)
	if err != nil {
		return err
	}
	booking.PNR = code

	doc, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("marshal booking: %w", err)
	}

	_, err = r.db.Exec(ctx, `INSERT INTO bookings (id, project, pnr, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		booking.ID, booking.Project, booking.PNR, doc, booking.CreatedAt, booking.UpdatedAt)
	return err
}

// uniquePNR generates a PNR that has not been used within the uniqueness
// window.
func (r *PGBookingRepository) uniquePNR(ctx context.Context) (string, error) {
	since := time.Now().AddDate(0, 0, -pnrUniqueDays)
	for {
		code := pnr.Generate()
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE pnr=$1 AND created_at >= $2)`, code, since).Scan(&exists); err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT doc FROM bookings WHERE id=$1`, id)
	return scanBooking(row)
}

func (r *PGBookingRepository) FindByPNRWithin(ctx context.Context, code string, window time.Duration) (*domain.Booking, error) {
	since := time.Now().Add(-window)
	row := r.db.QueryRow(ctx, `SELECT doc FROM bookings WHERE pnr=$1 AND created_at >= $2 ORDER BY created_at DESC LIMIT 1`, code, since)
	return scanBooking(row)
}

func (r *PGBookingRepository) Save(ctx context.Context, booking *domain.Booking) error {
	booking.UpdatedAt = time.Now()
	doc, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("marshal booking: %w", err)
	}

	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET doc=$2, updated_at=$3 WHERE id=$1`, booking.ID, doc, booking.UpdatedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var doc []byte
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var b domain.Booking
	if err := json.Unmarshal(doc, &b); err != nil {
		return nil, fmt.Errorf("unmarshal booking: %w", err)
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
