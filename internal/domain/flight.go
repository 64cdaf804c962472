package domain

import "time"

type Flight struct {
	ID              string     `json:"id"`
	Airline         string     `json:"airline"`
	FlightNumber    string     `json:"flight_number"`
	From            string     `json:"from"`
	To              string     `json:"to"`
	Date            string     `json:"date"`
	DepartureTime   string     `json:"departure_time"`
	ArrivalTime     string     `json:"arrival_time"`
	Duration        string     `json:"duration"`
	Price           int64      `json:"price"`
	OriginalPrice   int64      `json:"original_price"`
	SeatsAvailable  int        `json:"seats_available"`
	BookingAttempts int        `json:"booking_attempts"`
	LastAttemptTime *time.Time `json:"last_attempt_time,omitempty"`
}
