package flights

import (
	"context"

	"github.com/skyfare/backend/internal/catalog"
	"github.com/skyfare/backend/internal/domain"
	"github.com/skyfare/backend/internal/fare"
)

type FlightUseCase interface {
	Search(ctx context.Context, q catalog.SearchQuery) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	RecordAttempt(ctx context.Context, id string) (*domain.Flight, error)
	SearchAirports(query string) []catalog.Airport
}

type SearchCache interface {
	GetSearch(ctx context.Context, q catalog.SearchQuery) ([]domain.Flight, error)
	SetSearch(ctx context.Context, q catalog.SearchQuery, flights []domain.Flight) error
}

// FlightService joins the catalog provider with the fare tracker: the catalog
// supplies the itinerary, the tracker owns the mutable pricing state.
type FlightService struct {
	catalog *catalog.Generator
	cache   SearchCache
	tracker *fare.Tracker
}

func NewFlightService(gen *catalog.Generator, cache SearchCache, tracker *fare.Tracker) *FlightService {
	return &FlightService{catalog: gen, cache: cache, tracker: tracker}
}

func (s *FlightService) Search(ctx context.Context, q catalog.SearchQuery) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSearch(ctx, q); err == nil && cached != nil {
			// Tracker state survives re-registration, so an escalated price is
			// not masked by the cached itinerary.
			return s.tracker.Register(cached), nil
		}
	}

	flights := s.catalog.Search(q)
	if s.cache != nil {
		_ = s.cache.SetSearch(ctx, q, flights)
	}
	return s.tracker.Register(flights), nil
}

func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	flight, ok := s.tracker.Get(id)
	if !ok {
		return nil, domain.ErrUnknownFlight
	}
	return flight, nil
}

func (s *FlightService) RecordAttempt(ctx context.Context, id string) (*domain.Flight, error) {
	return s.tracker.RecordAttempt(id)
}

func (s *FlightService) SearchAirports(query string) []catalog.Airport {
	return catalog.SearchAirports(query)
}

var _ FlightUseCase = (*FlightService)(nil)
