package api

import (
	"strconv"

	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/ratelimit"
	"github.com/UnknownOlympus/compass/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	msgInvalidBody   = "Invalid request body."
	msgInvalidRadius = "Invalid radius."
)

type rateLimitBody struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
}

// identity picks the rate limit key: the explicit user id from the body or header,
// else the network origin of the request.
func (s *Server) identity(c *gin.Context, userID string) string {
	if userID == "" {
		userID = c.GetHeader(HeaderUserID)
	}

	return ratelimit.ResolveIdentity(userID, c.GetHeader("X-Forwarded-For"), c.Request.RemoteAddr)
}

// parseRadius reads the radius query parameter. A missing radius selects the default.
func parseRadius(c *gin.Context) (int, bool) {
	raw, ok := c.GetQuery("radius")
	if !ok || raw == "" {
		return service.DefaultRadius, true
	}

	radius, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	return radius, true
}

func errorPlaces(message string) models.NearbyPlacesResult {
	return models.NearbyPlacesResult{Status: service.StatusError, Message: message, Places: []models.Place{}}
}
