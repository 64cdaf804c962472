package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skyfare/backend/internal/catalog"
	"github.com/skyfare/backend/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.search)
	router.GET("/:id", h.get)
	router.POST("/:id/attempts", h.recordAttempt)
}

func (h *FlightHandler) RegisterAirports(router *gin.RouterGroup) {
	router.GET("/", h.airports)
}

func (h *FlightHandler) search(c *gin.Context) {
	passengers, err := strconv.Atoi(c.DefaultQuery("passengers", "1"))
	if err != nil || passengers < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid passengers"})
		return
	}

	q := catalog.SearchQuery{
		From:       c.Query("from"),
		To:         c.Query("to"),
		Date:       c.Query("date"),
		Passengers: passengers,
	}
	if q.From == "" || q.To == "" || q.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from, to and date are required"})
		return
	}

	flights, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flights)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) recordAttempt(c *gin.Context) {
	flight, err := h.service.RecordAttempt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) airports(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.SearchAirports(c.Query("q")))
}
