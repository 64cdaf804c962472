package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_Search(t *testing.T) {
	gen := NewGenerator(1)

	q := SearchQuery{From: "DEL", To: "BOM", Date: "2025-03-15", Passengers: 2}
	flights := gen.Search(q)

	assert.Len(t, flights, 10)

	seen := make(map[string]bool)
	for _, f := range flights {
		assert.NotEmpty(t, f.ID)
		assert.False(t, seen[f.ID], "flight ids must be unique")
		seen[f.ID] = true

		assert.Equal(t, "DEL", f.From)
		assert.Equal(t, "BOM", f.To)
		assert.Equal(t, "2025-03-15", f.Date)
		assert.Contains(t, airlines, f.Airline)

		assert.GreaterOrEqual(t, f.Price, int64(2000))
		assert.Less(t, f.Price, int64(3000))
		assert.Equal(t, f.OriginalPrice, f.Price)

		assert.GreaterOrEqual(t, f.SeatsAvailable, 10)
		assert.Less(t, f.SeatsAvailable, 100)

		assert.Zero(t, f.BookingAttempts)
		assert.Nil(t, f.LastAttemptTime)
	}
}

func TestSearchAirports(t *testing.T) {
	byCity := SearchAirports("mumbai")
	assert.Len(t, byCity, 1)
	assert.Equal(t, "BOM", byCity[0].Code)

	byCode := SearchAirports("blr")
	assert.Len(t, byCode, 1)
	assert.Equal(t, "Bengaluru", byCode[0].City)

	byName := SearchAirports("gandhi")
	assert.Len(t, byName, 2) // Indira Gandhi (DEL) and Rajiv Gandhi (HYD)
}

func TestSearchAirports_ShortQuery(t *testing.T) {
	assert.Empty(t, SearchAirports(""))
	assert.Empty(t, SearchAirports("d"))
}

func TestSearchAirports_NoMatch(t *testing.T) {
	assert.Empty(t, SearchAirports("zurich"))
}
