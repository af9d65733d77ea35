// Package kafka publishes completed threat reports to a sink topic for
// downstream consumers such as alerting and archival.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/wildfire-threat-service/internal/config"
	"github.com/couchcryptid/wildfire-threat-service/internal/domain"
)

// Writer produces threat reports to a Kafka topic.
// It implements assess.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes a threat report and writes it to the sink topic.
func (w *Writer) Publish(ctx context.Context, report domain.ThreatReport) error {
	msg, err := serializeToMessage(report)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ThreatReport into a Kafka message keyed
// by its coordinates, so repeated reports for one site land in order on
// the same partition.
func serializeToMessage(report domain.ThreatReport) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize threat report: %w", err)
	}
	key := fmt.Sprintf("%.4f:%.4f", report.Location.Lat, report.Location.Lon)
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "threat_level", Value: []byte(report.ThreatAssessment.ThreatLevel.String())},
			{Key: "generated_at", Value: []byte(report.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
