package usecase

import (
	"context"
	"encoding/json"
	"time"

	"ArenaFighter/internal/domain/models"
	domrepo "ArenaFighter/internal/domain/repository"
	pkgkafka "ArenaFighter/pkg/kafka"
)

// MatchEventsHandler consumes match events from Kafka and writes them
// to the archive. It runs when the backend is "kafka" and an archive is
// configured, so analytics still end up in ClickHouse.
type MatchEventsHandler struct {
	topic   string
	archive domrepo.Archive
	metrics domrepo.Metrics
}

func NewMatchEventsHandler(topic string, archive domrepo.Archive, metrics domrepo.Metrics) *MatchEventsHandler {
	return &MatchEventsHandler{topic: topic, archive: archive, metrics: metrics}
}

func (h *MatchEventsHandler) Topic() string { return h.topic }

func (h *MatchEventsHandler) Handle(ctx context.Context, b []byte) error {
	var e models.MatchEvent
	if err := json.Unmarshal(b, &e); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	// E2E latency from settlement time to now (approx)
	h.metrics.RecordLatency("archive_e2e_seconds", time.Since(time.Unix(e.Timestamp, 0)).Seconds())

	start := time.Now()
	err := h.archive.Store(ctx, &e)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*MatchEventsHandler)(nil)
