package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/skyfare/backend/api"
	"github.com/skyfare/backend/config"
	"github.com/skyfare/backend/internal/monitoring"
	"github.com/skyfare/backend/internal/service/booking"
	"github.com/skyfare/backend/internal/service/flights"
	"github.com/skyfare/backend/internal/service/wallet"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	log *logrus.Logger,
	metrics *monitoring.Metrics,
	flightSvc flights.FlightUseCase,
	walletSvc wallet.WalletUseCase,
	bookingSvc booking.BookingUseCase,
) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(metrics, flightSvc, walletSvc, bookingSvc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	log.WithField("address", cfg.HTTP.Address).Info("http server started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(
	metrics *monitoring.Metrics,
	flightSvc flights.FlightUseCase,
	walletSvc wallet.WalletUseCase,
	bookingSvc booking.BookingUseCase,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if metrics != nil {
		router.Use(metrics.Middleware())
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	flightHandler := api.NewFlightHandler(flightSvc)
	flightHandler.Register(router.Group("/flights"))
	flightHandler.RegisterAirports(router.Group("/airports"))

	authed := router.Group("/", api.RequireUser())
	api.NewWalletHandler(walletSvc).Register(authed.Group("/wallet"))
	api.NewBookingHandler(bookingSvc).Register(authed.Group("/bookings"))

	return router
}
