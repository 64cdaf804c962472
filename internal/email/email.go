package email

import (
	"context"
	"fmt"

	"github.com/skyfare/backend/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.TicketEvent) error {
	fmt.Printf("send e-ticket to %s for booking %s: %s %s (%s to %s), %d passenger(s), total %d\n",
		event.Email, event.BookingID, event.Airline, event.FlightNumber, event.From, event.To, event.Passengers, event.TotalAmount)
	return nil
}
