// Package kafka publishes served risk predictions to the sink topic for
// downstream consumers (dashboard, audit trail).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/config"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/domain"
)

// Publisher produces prediction messages to a Kafka topic.
// It implements predictor.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured sink topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishPrediction serializes and publishes one prediction.
func (p *Publisher) PublishPrediction(ctx context.Context, pred domain.RiskPrediction) error {
	msg, err := serializeToMessage(pred)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a RiskPrediction into a Kafka message. The
// key is the grid coordinate plus target date so downstream compaction
// keeps the latest prediction per location and day.
func serializeToMessage(pred domain.RiskPrediction) (kafkago.Message, error) {
	data, err := json.Marshal(pred)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize risk prediction: %w", err)
	}
	key := fmt.Sprintf("%.4f,%.4f|%s",
		pred.Location.Lat, pred.Location.Lon, pred.TargetDate.Format("2006-01-02"))
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_category", Value: []byte(pred.Category)},
			{Key: "model_version", Value: []byte(pred.ModelVersion)},
			{Key: "generated_at", Value: []byte(pred.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
