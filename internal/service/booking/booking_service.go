package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skyfare/backend/internal/domain"
	"github.com/skyfare/backend/internal/kafka"
	"github.com/skyfare/backend/internal/monitoring"
	"github.com/skyfare/backend/internal/repository"
)

type BookingUseCase interface {
	BookFlight(ctx context.Context, userID string, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, userID, id string) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]domain.Booking, error)
}

// FareTracker supplies the authoritative current price for a flight.
type FareTracker interface {
	Get(id string) (*domain.Flight, bool)
}

// Ledger is the only path through which the workflow touches wallet state.
type Ledger interface {
	GetWallet(ctx context.Context, userID string) (*domain.WalletAccount, []domain.Transaction, error)
	Apply(ctx context.Context, userID string, amount int64, kind domain.TransactionKind, description string) (*domain.WalletAccount, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	tracker            FareTracker
	ledger             Ledger
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	validate           *validator.Validate
	log                *logrus.Logger
	metrics            *monitoring.Metrics
}

type CreateBookingInput struct {
	FlightID      string               `json:"flight_id" validate:"required"`
	Passengers    int                  `json:"passengers" validate:"required,min=1"`
	PassengerInfo domain.PassengerInfo `json:"passenger_info" validate:"required"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithMetrics(m *monitoring.Metrics) BookingServiceOption {
	return func(s *BookingService) {
		s.metrics = m
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	tracker FareTracker,
	ledger Ledger,
	producer Producer,
	bookingTopic string,
	log *logrus.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		tracker:      tracker,
		ledger:       ledger,
		producer:     producer,
		bookingTopic: bookingTopic,
		validate:     validator.New(),
		log:          log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// BookFlight runs the checkout sequence: validate, price, funds check, debit,
// persist. The wallet is debited before the booking row is written; if the
// write fails the debit is compensated with a credit of the same amount, so
// a confirmed booking always has its debit.
func (s *BookingService) BookFlight(ctx context.Context, userID string, input CreateBookingInput) (*domain.Booking, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	// Re-read the current price so any escalation already recorded is billed.
	flight, ok := s.tracker.Get(input.FlightID)
	if !ok {
		return nil, domain.ErrUnknownFlight
	}
	totalAmount := flight.Price * int64(input.Passengers)

	account, _, err := s.ledger.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if account.Balance < totalAmount {
		if s.metrics != nil {
			s.metrics.InsufficientFunds.Inc()
		}
		return nil, domain.ErrInsufficientFunds
	}

	description := fmt.Sprintf("Flight booking: %s %s (%s to %s)", flight.Airline, flight.FlightNumber, flight.From, flight.To)
	if _, err := s.ledger.Apply(ctx, userID, totalAmount, domain.TransactionKindDebit, description); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:            uuid.NewString(),
		UserID:        userID,
		FlightID:      flight.ID,
		Airline:       flight.Airline,
		FlightNumber:  flight.FlightNumber,
		From:          flight.From,
		To:            flight.To,
		Date:          flight.Date,
		DepartureTime: flight.DepartureTime,
		ArrivalTime:   flight.ArrivalTime,
		Duration:      flight.Duration,
		Passengers:    input.Passengers,
		PassengerInfo: input.PassengerInfo,
		TotalAmount:   totalAmount,
		Status:        domain.BookingStatusConfirmed,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		s.compensateDebit(ctx, userID, totalAmount, booking.ID)
		return nil, domain.NewPersistenceError("booking: create record", err)
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	s.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"user_id":    userID,
		"flight_id":  flight.ID,
		"total":      totalAmount,
	}).Info("booking confirmed")

	if err := s.publish(ctx, "booking_confirmed", booking); err != nil {
		s.log.WithError(err).Warnf("failed to publish booking_confirmed event for booking %s", booking.ID)
	}
	return booking, nil
}

func (s *BookingService) compensateDebit(ctx context.Context, userID string, amount int64, bookingID string) {
	description := fmt.Sprintf("Refund: booking %s was not persisted", bookingID)
	if _, err := s.ledger.Apply(ctx, userID, amount, domain.TransactionKindCredit, description); err != nil {
		// The debit stands without its booking; this needs operator attention.
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id":    userID,
			"booking_id": bookingID,
			"amount":     amount,
		}).Error("compensating credit failed after booking persist failure")
	}
}

func (s *BookingService) GetBooking(ctx context.Context, userID, id string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			return nil, err
		}
		return nil, domain.NewPersistenceError("booking: get record", err)
	}
	if booking.UserID != userID {
		return nil, domain.ErrBookingNotFound
	}
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewPersistenceError("booking: list records", err)
	}
	return bookings, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.TicketEvent{
		Type:         eventType,
		BookingID:    booking.ID,
		UserID:       booking.UserID,
		FlightID:     booking.FlightID,
		Airline:      booking.Airline,
		FlightNumber: booking.FlightNumber,
		From:         booking.From,
		To:           booking.To,
		Email:        booking.PassengerInfo.Email,
		Passengers:   booking.Passengers,
		TotalAmount:  booking.TotalAmount,
		Status:       string(booking.Status),
		BookingDate:  booking.BookingDate,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
