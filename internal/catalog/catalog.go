package catalog

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/skyfare/backend/internal/domain"
)

type Airport struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
	Code string `json:"code"`
}

var airports = []Airport{
	{ID: "DEL", Name: "Indira Gandhi International Airport", City: "New Delhi", Code: "DEL"},
	{ID: "BOM", Name: "Chhatrapati Shivaji Maharaj International Airport", City: "Mumbai", Code: "BOM"},
	{ID: "MAA", Name: "Chennai International Airport", City: "Chennai", Code: "MAA"},
	{ID: "CCU", Name: "Netaji Subhash Chandra Bose International Airport", City: "Kolkata", Code: "CCU"},
	{ID: "BLR", Name: "Kempegowda International Airport", City: "Bengaluru", Code: "BLR"},
	{ID: "HYD", Name: "Rajiv Gandhi International Airport", City: "Hyderabad", Code: "HYD"},
	{ID: "COK", Name: "Cochin International Airport", City: "Kochi", Code: "COK"},
	{ID: "AMD", Name: "Sardar Vallabhbhai Patel International Airport", City: "Ahmedabad", Code: "AMD"},
	{ID: "GOI", Name: "Goa International Airport", City: "Goa", Code: "GOI"},
	{ID: "JAI", Name: "Jaipur International Airport", City: "Jaipur", Code: "JAI"},
}

var airlines = []string{"SkyWings", "BlueStar Air", "Falcon Airways", "SunLight Express", "Ocean Air"}

// SearchAirports filters the airport table by a case-insensitive substring of
// city, name or code. Queries shorter than two characters return nothing.
func SearchAirports(query string) []Airport {
	if len(query) < 2 {
		return []Airport{}
	}
	q := strings.ToLower(query)

	matched := make([]Airport, 0)
	for _, a := range airports {
		if strings.Contains(strings.ToLower(a.City), q) ||
			strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(strings.ToLower(a.Code), q) {
			matched = append(matched, a)
		}
	}
	return matched
}

type SearchQuery struct {
	From       string
	To         string
	Date       string
	Passengers int
}

// Generator produces the flight inventory for a search query. Prices and
// schedules are synthetic; the fare tracker owns the mutable pricing state
// layered on top.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

const flightsPerSearch = 10

func (g *Generator) Search(q SearchQuery) []domain.Flight {
	g.mu.Lock()
	defer g.mu.Unlock()

	flights := make([]domain.Flight, 0, flightsPerSearch)
	for i := 0; i < flightsPerSearch; i++ {
		airline := airlines[g.rnd.Intn(len(airlines))]
		flightNumber := fmt.Sprintf("%s%d", strings.ToUpper(airline[:2]), 100+g.rnd.Intn(900))
		basePrice := int64(2000 + g.rnd.Intn(1000))

		depHour := 6 + g.rnd.Intn(16)
		depMinute := g.rnd.Intn(60)

		durationHours := 1 + g.rnd.Intn(3)
		durationMinutes := g.rnd.Intn(60)

		arrHour := depHour + durationHours
		arrMinute := depMinute + durationMinutes
		if arrMinute >= 60 {
			arrHour++
			arrMinute -= 60
		}
		arrHour = arrHour % 24

		flights = append(flights, domain.Flight{
			ID:             uuid.NewString(),
			Airline:        airline,
			FlightNumber:   flightNumber,
			From:           q.From,
			To:             q.To,
			Date:           q.Date,
			DepartureTime:  fmt.Sprintf("%02d:%02d", depHour, depMinute),
			ArrivalTime:    fmt.Sprintf("%02d:%02d", arrHour, arrMinute),
			Duration:       fmt.Sprintf("%dh %dm", durationHours, durationMinutes),
			Price:          basePrice,
			OriginalPrice:  basePrice,
			SeatsAvailable: 10 + g.rnd.Intn(90),
		})
	}
	return flights
}
