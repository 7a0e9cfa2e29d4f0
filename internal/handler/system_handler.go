package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/intercultura/sponte-dashboard/internal/response"
)

// SystemHandler reports process health.
type SystemHandler struct {
	rdb       *redis.Client
	startTime time.Time
	log       zerolog.Logger
}

func NewSystemHandler(rdb *redis.Client, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		rdb:       rdb,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

// Health godoc
// GET /health
// Reports uptime and cache reachability. The service stays up when Redis
// is down because every cached read degrades to a direct upstream call.
func (h *SystemHandler) Health(c *gin.Context) {
	cacheStatus := "ok"
	if err := h.rdb.Ping(c.Request.Context()).Err(); err != nil {
		cacheStatus = "unavailable"
		h.log.Warn().Err(err).Msg("redis ping failed")
	}

	response.Success(c, http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
		"cache":  cacheStatus,
	})
}
