package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/couchcryptid/fire-incident-analytics/internal/config"
	"github.com/couchcryptid/fire-incident-analytics/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// batchSize bounds the number of messages handed to one WriteMessages call.
const batchSize = 500

// messageWriter is the subset of *kafkago.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes normalized records to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishDataset serializes every record of ds and writes them in batches.
// Records of one dataset share a key prefix, so the hash balancer keeps each
// row on a stable partition.
func (w *Writer) PublishDataset(ctx context.Context, ds *domain.Dataset) error {
	if ds.Len() == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, 0, min(batchSize, ds.Len()))
	for i := range ds.Records {
		msg, err := serializeToMessage(ds.ID, &ds.Records[i])
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
		if len(msgs) == batchSize {
			if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
				return fmt.Errorf("publish dataset %s: %w", ds.ID, err)
			}
			msgs = msgs[:0]
		}
	}
	if len(msgs) > 0 {
		if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("publish dataset %s: %w", ds.ID, err)
		}
	}
	w.logger.Debug("dataset published", "dataset_id", ds.ID, "records", ds.Len())
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a record into a Kafka message keyed by
// "<dataset-id>:<row>".
func serializeToMessage(datasetID string, r *domain.Record) (kafkago.Message, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record %d: %w", r.Row, err)
	}
	return kafkago.Message{
		Key:   []byte(datasetID + ":" + strconv.Itoa(r.Row)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "dataset_id", Value: []byte(datasetID)},
			{Key: "cause_category", Value: []byte(r.Category)},
			{Key: "year", Value: []byte(strconv.Itoa(r.Year))},
		},
	}, nil
}
