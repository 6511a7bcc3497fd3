package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Dory74/STEMX373-SafeToManu/internal/config"
	"github.com/Dory74/STEMX373-SafeToManu/internal/domain"
	"github.com/Dory74/STEMX373-SafeToManu/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafkago.Writer used by ResultPublisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// ResultPublisher produces resolved jump results to a Kafka topic.
// It implements jump.Publisher.
type ResultPublisher struct {
	writer  messageWriter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewResultPublisher creates a Kafka producer for the configured result topic.
func NewResultPublisher(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *ResultPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaResultTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return newResultPublisher(w, logger, metrics)
}

func newResultPublisher(w messageWriter, logger *slog.Logger, metrics *observability.Metrics) *ResultPublisher {
	return &ResultPublisher{writer: w, logger: logger, metrics: metrics}
}

// Publish serializes and writes one result. Results are keyed by cycle id so
// every message for a cycle lands on the same partition.
func (p *ResultPublisher) Publish(ctx context.Context, result domain.JumpResult) error {
	msg, err := serializeToMessage(result)
	if err != nil {
		p.metrics.ResultsPublished.WithLabelValues("error").Inc()
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.ResultsPublished.WithLabelValues("error").Inc()
		return fmt.Errorf("write jump result: %w", err)
	}
	p.metrics.ResultsPublished.WithLabelValues("success").Inc()
	p.logger.Debug("jump result published", "cycle_id", result.CycleID)
	return nil
}

func (p *ResultPublisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a JumpResult into a Kafka message.
func serializeToMessage(result domain.JumpResult) (kafkago.Message, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize jump result: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(result.CycleID.String()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "degraded", Value: []byte(strconv.FormatBool(result.Degraded))},
			{Key: "resolved_at", Value: []byte(result.ResolvedAt.Format(time.RFC3339))},
		},
	}, nil
}
