package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type PassengerInfo struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,len=10,numeric"`
}

// Booking snapshots the flight itinerary and quoted price at booking time.
// Rows are immutable after creation.
type Booking struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	FlightID      string        `json:"flight_id"`
	Airline       string        `json:"airline"`
	FlightNumber  string        `json:"flight_number"`
	From          string        `json:"from"`
	To            string        `json:"to"`
	Date          string        `json:"date"`
	DepartureTime string        `json:"departure_time"`
	ArrivalTime   string        `json:"arrival_time"`
	Duration      string        `json:"duration"`
	Passengers    int           `json:"passengers"`
	PassengerInfo PassengerInfo `json:"passenger_info"`
	TotalAmount   int64         `json:"total_amount"`
	Status        BookingStatus `json:"status"`
	BookingDate   time.Time     `json:"booking_date"`
}
