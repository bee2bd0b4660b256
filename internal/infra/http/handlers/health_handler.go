package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-solar/internal/cache"
	"github.com/xavierca1/ligue-solar/internal/health"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// CacheReporter expõe as estatísticas do cache de propostas.
type CacheReporter interface {
	CacheStats() cache.Stats
}

type HealthHandler struct {
	DB        Pinger
	Redis     Pinger
	RabbitMQ  *amqp091.Connection
	Monitor   *health.ConnectivityMonitor
	Cache     CacheReporter
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
	Connectivity *health.Status    `json:"connectivity,omitempty"`
	Cache        *cache.Stats      `json:"cache,omitempty"`
}

func NewHealthHandler(db, redis Pinger, rabbitMQ *amqp091.Connection, monitor *health.ConnectivityMonitor) *HealthHandler {
	return &HealthHandler{
		DB:        db,
		Redis:     redis,
		RabbitMQ:  rabbitMQ,
		Monitor:   monitor,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]string)
	deps["database"] = pingStatus(ctx, h.DB)
	deps["redis"] = pingStatus(ctx, h.Redis)

	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}
	if h.Monitor != nil {
		st := h.Monitor.Status()
		response.Connectivity = &st
		if !st.Online {
			status = "degraded"
			response.Status = status
		}
	}

	if h.Cache != nil {
		stats := h.Cache.CacheStats()
		response.Cache = &stats
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}

func pingStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "not configured"
	}
	if err := p.PingContext(ctx); err != nil {
		return fmt.Sprintf("unhealthy: %v", err)
	}
	return "healthy"
}
