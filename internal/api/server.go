// Package api exposes the geolocation service over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/service"
	"github.com/gin-gonic/gin"
)

// HeaderUserID carries the caller identity used for rate limiting.
const HeaderUserID = "X-User-ID"

// Geolocator is the part of the geolocation service served over HTTP.
type Geolocator interface {
	ValidateAddress(ctx context.Context, req models.AddressRequest, identity string) (models.AddressValidationResult, error)
	GetCoordinates(ctx context.Context, address, identity string) (models.CoordinatesResult, error)
	FindNearbyPlaces(
		ctx context.Context, lat, lng float64, radius int, placeType, identity string,
	) (models.NearbyPlacesResult, error)
	FindNearbyPlacesByAddress(
		ctx context.Context, address string, radius int, placeType, identity string,
	) (models.NearbyPlacesResult, error)
}

// Server routes HTTP requests to a Geolocator.
type Server struct {
	log    *slog.Logger
	geo    Geolocator
	engine *gin.Engine
	now    func() time.Time
}

// NewServer builds the router. gin's mode is left to the caller.
func NewServer(log *slog.Logger, geo Geolocator) *Server {
	srv := &Server{log: log, geo: geo, engine: gin.New(), now: time.Now}

	srv.engine.Use(gin.Recovery(), srv.requestLogger())

	v1 := srv.engine.Group("/api/v1/geolocation")
	v1.POST("/validate-address", srv.validateAddress)
	v1.GET("/coordinates", srv.coordinates)
	v1.GET("/nearby", srv.nearby)
	v1.GET("/nearby/address", srv.nearbyByAddress)

	return srv
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	readTimeout := 5
	writeTimeout := 15
	server := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "Starting API server", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownTimeout := 10
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Duration(shutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.DebugContext(c.Request.Context(), "Request served",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) validateAddress(c *gin.Context) {
	var req models.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.AddressValidationResult{ValidationMessage: msgInvalidBody})
		return
	}

	result, err := s.geo.ValidateAddress(c.Request.Context(), req, s.identity(c, req.UserID))
	s.respond(c, result, err)
}

func (s *Server) coordinates(c *gin.Context) {
	address := c.Query("address")

	result, err := s.geo.GetCoordinates(c.Request.Context(), address, s.identity(c, ""))
	s.respond(c, result, err)
}

func (s *Server) nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, errorPlaces(service.MsgInvalidCoordinates))
		return
	}

	radius, ok := parseRadius(c)
	if !ok {
		c.JSON(http.StatusBadRequest, errorPlaces(msgInvalidRadius))
		return
	}

	result, err := s.geo.FindNearbyPlaces(c.Request.Context(), lat, lng, radius, c.Query("type"), s.identity(c, ""))
	s.respond(c, result, err)
}

func (s *Server) nearbyByAddress(c *gin.Context) {
	radius, ok := parseRadius(c)
	if !ok {
		c.JSON(http.StatusBadRequest, errorPlaces(msgInvalidRadius))
		return
	}

	result, err := s.geo.FindNearbyPlacesByAddress(
		c.Request.Context(), c.Query("address"), radius, c.Query("type"), s.identity(c, ""),
	)
	s.respond(c, result, err)
}

// respond writes result with the status matching err.
func (s *Server) respond(c *gin.Context, result any, err error) {
	var rlErr *service.RateLimitError

	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.As(err, &rlErr):
		seconds := int(math.Ceil(rlErr.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(max(seconds, 1)))
		c.JSON(http.StatusTooManyRequests, rateLimitBody{
			Timestamp: s.now().UTC().Format(time.RFC3339),
			Status:    http.StatusTooManyRequests,
			Error:     "Rate Limit Exceeded",
			Message:   rlErr.Error(),
		})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, result)
	case errors.Is(err, service.ErrProviderUnavailable):
		c.JSON(http.StatusServiceUnavailable, result)
	default:
		s.log.ErrorContext(c.Request.Context(), "Unexpected service error", "error", err)
		c.JSON(http.StatusInternalServerError, result)
	}
}
