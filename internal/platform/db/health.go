package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// PoolStats is the part of pgxpool.Stat the health endpoint reports.
// Saturation is acquired over max connections; searches on the name path
// hold a connection for the whole scan, so a value near 1 means requests
// are queueing for the pool.
type PoolStats struct {
	TotalConns    int32   `json:"total_conns"`
	AcquiredConns int32   `json:"acquired_conns"`
	MaxConns      int32   `json:"max_conns"`
	Saturation    float64 `json:"saturation"`
	EmptyAcquires int64   `json:"empty_acquires"`
}

func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return newPoolStats(stat.TotalConns(), stat.AcquiredConns(), stat.MaxConns(), stat.EmptyAcquireCount())
}

func newPoolStats(total, acquired, maxConns int32, empty int64) *PoolStats {
	s := &PoolStats{TotalConns: total, AcquiredConns: acquired, MaxConns: maxConns, EmptyAcquires: empty}
	if maxConns > 0 {
		s.Saturation = float64(acquired) / float64(maxConns)
	}
	return s
}

// Health is the body of GET /health/db.
type Health struct {
	Status  string     `json:"status"`
	Backend string     `json:"store_backend"`
	Latency string     `json:"ping_latency,omitempty"`
	Error   string     `json:"error,omitempty"`
	Pool    *PoolStats `json:"pool"`
}

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler pings the database and reports pool usage together with the
// search store backend in use.
func HealthHandler(pool *pgxpool.Pool, backend string) echo.HandlerFunc {
	return healthHandler(pool, backend, func() *PoolStats { return GetPoolStats(pool) })
}

func healthHandler(p pinger, backend string, stats func() *PoolStats) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		start := time.Now()
		err := p.Ping(ctx)
		h := Health{Status: "healthy", Backend: backend, Pool: stats()}
		if err != nil {
			h.Status = "unhealthy"
			h.Error = err.Error()
			return c.JSON(http.StatusServiceUnavailable, h)
		}
		h.Latency = time.Since(start).String()
		return c.JSON(http.StatusOK, h)
	}
}
