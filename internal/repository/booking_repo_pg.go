package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skyfare/backend/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.QueryRow(ctx, `INSERT INTO bookings (id, user_id, flight_id, airline, flight_number, from_airport, to_airport, flight_date, departure_time, arrival_time, duration, passengers, first_name, last_name, email, phone, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING booking_date`,
		b.ID, b.UserID, b.FlightID, b.Airline, b.FlightNumber, b.From, b.To, b.Date, b.DepartureTime, b.ArrivalTime, b.Duration,
		b.Passengers, b.PassengerInfo.FirstName, b.PassengerInfo.LastName, b.PassengerInfo.Email, b.PassengerInfo.Phone,
		b.TotalAmount, b.Status).
		Scan(&b.BookingDate)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, flight_id, airline, flight_number, from_airport, to_airport, flight_date, departure_time, arrival_time, duration, passengers, first_name, last_name, email, phone, total_amount, status, booking_date FROM bookings WHERE id=$1`, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, flight_id, airline, flight_number, from_airport, to_airport, flight_date, departure_time, arrival_time, duration, passengers, first_name, last_name, email, phone, total_amount, status, booking_date FROM bookings WHERE user_id=$1 ORDER BY booking_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.Airline, &b.FlightNumber, &b.From, &b.To, &b.Date,
		&b.DepartureTime, &b.ArrivalTime, &b.Duration, &b.Passengers,
		&b.PassengerInfo.FirstName, &b.PassengerInfo.LastName, &b.PassengerInfo.Email, &b.PassengerInfo.Phone,
		&b.TotalAmount, &b.Status, &b.BookingDate)
}

var _ BookingRepository = (*PGBookingRepository)(nil)
