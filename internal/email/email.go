package email

import (
	"context"
	"fmt"

	"github.com/booklytrip/booking/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.PaymentEvent) error {
	fmt.Printf("send %s email to %s for booking %s (%s %.2f %s)\n",
		event.Type, event.Email, event.PNR, event.Status, event.Amount, event.Currency)
	return nil
}
