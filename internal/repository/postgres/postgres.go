package postgres

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/repository"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/metrics"
)

type eventRepository struct {
	db *sqlx.DB
	m  *metrics.Metrics
}

type guildSettingsRepository struct {
	db *sqlx.DB
	m  *metrics.Metrics
}

func NewEventRepository(db *sqlx.DB, m *metrics.Metrics) repository.EventRepository {
	return &eventRepository{db: db, m: m}
}

func NewGuildSettingsRepository(db *sqlx.DB, m *metrics.Metrics) repository.GuildSettingsRepository {
	return &guildSettingsRepository{db: db, m: m}
}

// recordOp tracks one database call's outcome and latency. Nil metrics
// disable recording.
func recordOp(m *metrics.Metrics, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.DatabaseOperations.WithLabelValues(operation, status).Inc()
	m.DatabaseLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
