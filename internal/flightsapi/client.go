// Package flightsapi is the client for the flight-inventory supplier service
// that finalizes reservations.
package flightsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/booklytrip/booking/internal/domain"
)

// OrderResult is the supplier's result for a single order, matched back to
// the booking's orders by Reference.
type OrderResult struct {
	Reference string         `json:"reference"`
	PNR       string         `json:"pnr,omitempty"`
	Provider  string         `json:"provider,omitempty"`
	Response  map[string]any `json:"response,omitempty"`
}

// BookResponse is the supplier's answer to a booking request. Error is set
// when the reservation could not be completed.
type BookResponse struct {
	Data  []OrderResult `json:"data"`
	Error string        `json:"error,omitempty"`
}

type bookRequest struct {
	Booking *domain.Booking `json:"booking"`
	Project string          `json:"project"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

func NewClient(baseURL string, timeout time.Duration, maxRetries int) *Client {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

// Book asks the supplier service to finalize the reservation for all orders
// of the booking. The call is not idempotent on the supplier side, so only
// transport failures where no response was received are retried.
func (c *Client) Book(ctx context.Context, booking *domain.Booking, project *domain.Project) (*BookResponse, error) {
	payload, err := json.Marshal(bookRequest{Booking: booking, Project: project.ID})
	if err != nil {
		return nil, fmt.Errorf("marshal booking request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/booking", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			log.Printf("flights booking request attempt %d failed: %v", attempt, err)
			if attempt < c.maxRetries {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
				}
			}
			continue
		}

		var result BookResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("flights booking request: unexpected status %d", resp.StatusCode)
		}
		if decodeErr != nil {
			return nil, fmt.Errorf("decode booking response: %w", decodeErr)
		}
		return &result, nil
	}

	return nil, fmt.Errorf("flights booking request failed after %d attempts: %w", c.maxRetries, lastErr)
}
