package booking

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skyfare/backend/internal/domain"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockFareTracker struct {
	mock.Mock
}

func (m *MockFareTracker) Get(id string) (*domain.Flight, bool) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.Flight), args.Bool(1)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) GetWallet(ctx context.Context, userID string) (*domain.WalletAccount, []domain.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.WalletAccount), args.Get(1).([]domain.Transaction), args.Error(2)
}

func (m *MockLedger) Apply(ctx context.Context, userID string, amount int64, kind domain.TransactionKind, description string) (*domain.WalletAccount, error) {
	args := m.Called(ctx, userID, amount, kind, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletAccount), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func escalatedFlight() *domain.Flight {
	return &domain.Flight{
		ID:            "f-1",
		Airline:       "SkyWings",
		FlightNumber:  "SK101",
		From:          "DEL",
		To:            "BOM",
		Date:          "2025-03-15",
		DepartureTime: "09:30",
		ArrivalTime:   "11:45",
		Duration:      "2h 15m",
		Price:         2750,
		OriginalPrice: 2500,
	}
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		FlightID:   "f-1",
		Passengers: 2,
		PassengerInfo: domain.PassengerInfo{
			FirstName: "Asha",
			LastName:  "Verma",
			Email:     "asha@example.com",
			Phone:     "9876543210",
		},
	}
}

func newTestBookingService(repo *MockBookingRepository, tracker *MockFareTracker, ledger *MockLedger, producer *MockProducer) *BookingService {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewBookingService(repo, tracker, ledger, producer, "bookings", logger, WithNotificationsTopic("notifications"))
}

func TestBookingService_BookFlight_Success(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockTracker := &MockFareTracker{}
	mockLedger := &MockLedger{}
	mockProducer := &MockProducer{}
	service := newTestBookingService(mockRepo, mockTracker, mockLedger, mockProducer)
	ctx := context.Background()

	mockTracker.On("Get", "f-1").Return(escalatedFlight(), true)
	mockLedger.On("GetWallet", ctx, "user-1").
		Return(&domain.WalletAccount{UserID: "user-1", Balance: 50000}, []domain.Transaction{}, nil)
	mockLedger.On("Apply", ctx, "user-1", int64(5500), domain.TransactionKindDebit,
		"Flight booking: SkyWings SK101 (DEL to BOM)").
		Return(&domain.WalletAccount{UserID: "user-1", Balance: 44500}, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	mockProducer.On("Publish", ctx, "bookings", mock.AnythingOfType("string"), mock.Anything).Return(nil)
	mockProducer.On("Publish", ctx, "notifications", mock.AnythingOfType("string"), mock.Anything).Return(nil)

	booking, err := service.BookFlight(ctx, "user-1", validInput())

	assert.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, int64(5500), booking.TotalAmount)
	assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, "f-1", booking.FlightID)
	assert.Equal(t, 2, booking.Passengers)

	mockRepo.AssertExpectations(t)
	mockLedger.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_BookFlight_InsufficientFunds(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockTracker := &MockFareTracker{}
	mockLedger := &MockLedger{}
	mockProducer := &MockProducer{}
	service := newTestBookingService(mockRepo, mockTracker, mockLedger, mockProducer)
	ctx := context.Background()

	mockTracker.On("Get", "f-1").Return(escalatedFlight(), true)
	mockLedger.On("GetWallet", ctx, "user-1").
		Return(&domain.WalletAccount{UserID: "user-1", Balance: 1000}, []domain.Transaction{}, nil)

	booking, err := service.BookFlight(ctx, "user-1", validInput())

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	// Funds check fails before the ledger or the store is touched.
	mockLedger.AssertNotCalled(t, "Apply")
	mockRepo.AssertNotCalled(t, "Create")
}

func TestBookingService_BookFlight_UnknownFlight(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockTracker := &MockFareTracker{}
	mockLedger := &MockLedger{}
	mockProducer := &MockProducer{}
	service := newTestBookingService(mockRepo, mockTracker, mockLedger, mockProducer)

	mockTracker.On("Get", "f-1").Return(nil, false)

	booking, err := service.BookFlight(context.Background(), "user-1", validInput())

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrUnknownFlight)
	mockLedger.AssertNotCalled(t, "GetWallet")
}

func TestBookingService_BookFlight_ValidationErrors(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockTracker := &MockFareTracker{}
	mockLedger := &MockLedger{}
	mockProducer := &MockProducer{}
	service := newTestBookingService(mockRepo, mockTracker, mockLedger, mockProducer)

	cases := []struct {
		name   string
		mutate func(*CreateBookingInput)
	}{
		{"missing first name", func(in *CreateBookingInput) { in.PassengerInfo.FirstName = "" }},
		{"malformed email", func(in *CreateBookingInput) { in.PassengerInfo.Email = "not-an-email" }},
		{"short phone", func(in *CreateBookingInput) { in.PassengerInfo.Phone = "12345" }},
		{"non numeric phone", func(in *CreateBookingInput) { in.PassengerInfo.Phone = "98765abcde" }},
		{"zero passengers", func(in *CreateBookingInput) { in.Passengers = 0 }},
		{"missing flight id", func(in *CreateBookingInput) { in.FlightID = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			booking, err := service.BookFlight(context.Background(), "user-1", input)

			assert.Nil(t, booking)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	// Validation failures never reach the tracker or the ledger.
	mockTracker.AssertNotCalled(t, "Get")
	mockLedger.AssertNotCalled(t, "GetWallet")
}

func TestBookingService_BookFlight_PersistFailureCompensatesDebit(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockTracker := &MockFareTracker{}
	mockLedger := &MockLedger{}
	mockProducer := &MockProducer{}
	service := newTestBookingService(mockRepo, mockTracker, mockLedger, mockProducer)
	ctx := context.Background()

	mockTracker.On("Get", "f-1").Return(escalatedFlight(), true)
	mockLedger.On("GetWallet", ctx, "user-1").
		Return(&domain.WalletAccount{UserID: "user-1", Balance: 50000}, []domain.Transaction{}, nil)
	mockLedger.On("Apply", ctx, "user-1", int64(5500), domain.TransactionKindDebit, mock.AnythingOfType("string")).
		Return(&domain.WalletAccount{UserID: "user-1", Balance: 44500}, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(errors.New("write timeout"))
	mockLedger.On("Apply", ctx, "user-1", int64(5500), domain.TransactionKindCredit, mock.AnythingOfType("string")).
		Return(&domain.WalletAccount{UserID: "user-1", Balance: 50000}, nil)

	booking, err := service.BookFlight(ctx, "user-1", validInput())

	assert.Nil(t, booking)
	var perr *domain.PersistenceError
	assert.ErrorAs(t, err, &perr)
	mockLedger.AssertExpectations(t)
	mockProducer.AssertNotCalled(t, "Publish")
}

func TestBookingService_BookFlight_PublishFailureDoesNotFailBooking(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockTracker := &MockFareTracker{}
	mockLedger := &MockLedger{}
	mockProducer := &MockProducer{}
	service := newTestBookingService(mockRepo, mockTracker, mockLedger, mockProducer)
	ctx := context.Background()

	mockTracker.On("Get", "f-1").Return(escalatedFlight(), true)
	mockLedger.On("GetWallet", ctx, "user-1").
		Return(&domain.WalletAccount{UserID: "user-1", Balance: 50000}, []domain.Transaction{}, nil)
	mockLedger.On("Apply", ctx, "user-1", int64(5500), domain.TransactionKindDebit, mock.AnythingOfType("string")).
		Return(&domain.WalletAccount{UserID: "user-1", Balance: 44500}, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	mockProducer.On("Publish", ctx, "bookings", mock.AnythingOfType("string"), mock.Anything).
		Return(errors.New("broker unreachable"))

	booking, err := service.BookFlight(ctx, "user-1", validInput())

	assert.NoError(t, err)
	assert.NotNil(t, booking)
}

func TestBookingService_GetBooking_OwnerCheck(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockTracker := &MockFareTracker{}
	mockLedger := &MockLedger{}
	mockProducer := &MockProducer{}
	service := newTestBookingService(mockRepo, mockTracker, mockLedger, mockProducer)
	ctx := context.Background()

	stored := &domain.Booking{ID: "b-1", UserID: "user-1"}
	mockRepo.On("GetByID", ctx, "b-1").Return(stored, nil)

	booking, err := service.GetBooking(ctx, "user-1", "b-1")
	assert.NoError(t, err)
	assert.Equal(t, "b-1", booking.ID)

	booking, err = service.GetBooking(ctx, "user-2", "b-1")
	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestBookingService_ListBookings(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	mockTracker := &MockFareTracker{}
	mockLedger := &MockLedger{}
	mockProducer := &MockProducer{}
	service := newTestBookingService(mockRepo, mockTracker, mockLedger, mockProducer)
	ctx := context.Background()

	bookings := []domain.Booking{{ID: "b-2", UserID: "user-1"}, {ID: "b-1", UserID: "user-1"}}
	mockRepo.On("ListByUser", ctx, "user-1").Return(bookings, nil)

	got, err := service.ListBookings(ctx, "user-1")

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "b-2", got[0].ID)
}
