package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ArenaFighter/internal/domain/models"
	"ArenaFighter/internal/domain/repository"
	pkgkafka "ArenaFighter/pkg/kafka"
)

// KafkaMatchPublisher emits settled-match events to a Kafka topic,
// keyed by opponent so per-opponent ordering survives partitioning.
type KafkaMatchPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaMatchPublisher creates a Kafka-backed match publisher.
func NewKafkaMatchPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaMatchPublisher{producer: producer, topic: topic}
}

func (p *KafkaMatchPublisher) Publish(ctx context.Context, e *models.MatchEvent) error {
	if e == nil {
		return fmt.Errorf("match event is nil")
	}
	return p.producer.Publish(ctx, p.topic, []byte(e.Opponent), e)
}

func (p *KafkaMatchPublisher) PublishBatch(ctx context.Context, events []*models.MatchEvent) error {
	msgs := make([]pkgkafka.Message, 0, len(events))
	for _, e := range events {
		if e == nil {
			continue
		}
		msgs = append(msgs, pkgkafka.Message{Key: []byte(e.Opponent), Value: e})
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaMatchPublisher) Close() error { return p.producer.Close() }

// ClickHouseMatchArchive is the long-term match store.
type ClickHouseMatchArchive struct {
	db    *sql.DB
	table string
}

// NewClickHouseMatchArchive creates ClickHouse-backed match storage.
func NewClickHouseMatchArchive(db *sql.DB, table string) repository.Archive {
	return &ClickHouseMatchArchive{db: db, table: table}
}

func (a *ClickHouseMatchArchive) Store(ctx context.Context, e *models.MatchEvent) error {
	q := fmt.Sprintf("INSERT INTO %s (ts, opponent, game, won, my_score, opp_score, wager_wei, strategy) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", a.table)
	_, err := a.db.ExecContext(ctx, q,
		time.Unix(e.Timestamp, 0),
		e.Opponent,
		string(e.Game),
		boolToUInt8(e.Won),
		e.MyScore,
		e.OppScore,
		e.WagerWei,
		string(e.Strategy),
	)
	return err
}

func (a *ClickHouseMatchArchive) StoreBatch(ctx context.Context, events []*models.MatchEvent) error {
	if len(events) == 0 {
		return nil
	}
	// Multi-row VALUES insert; a bot settles games far slower than
	// ClickHouse ingests, so one chunk size fits all.
	const chunkSize = 500
	for start := 0; start < len(events); start += chunkSize {
		end := start + chunkSize
		if end > len(events) {
			end = len(events)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*8)
		for _, e := range events[start:end] {
			if e == nil || e.Opponent == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				time.Unix(e.Timestamp, 0),
				e.Opponent,
				string(e.Game),
				boolToUInt8(e.Won),
				e.MyScore,
				e.OppScore,
				e.WagerWei,
				string(e.Strategy),
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, opponent, game, won, my_score, opp_score, wager_wei, strategy) VALUES %s",
			a.table, strings.Join(values, ","))
		if _, err := a.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (a *ClickHouseMatchArchive) Health(ctx context.Context) error { return a.db.PingContext(ctx) }

func (a *ClickHouseMatchArchive) Close() error { return nil } // pool owned by pkg client

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
