//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/fire-incident-analytics/internal/adapter/kafka"
	"github.com/couchcryptid/fire-incident-analytics/internal/adapter/sheet"
	"github.com/couchcryptid/fire-incident-analytics/internal/config"
	"github.com/couchcryptid/fire-incident-analytics/internal/domain"
	"github.com/couchcryptid/fire-incident-analytics/internal/observability"
	"github.com/couchcryptid/fire-incident-analytics/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "test-normalized-incidents"

const incidentsCSV = "Дата;Муниципальный район;Геоточка;Причина пожара;Погибло\n" +
	"2021-02-01;Мирнинский;131.090314 60.465566;короткое замыкание в проводке;1\n" +
	"2021-05-12;Ленский;;дети играли со спичками;0\n" +
	"2022-07-30;Мирнинский;abc;;0\n"

// publishedRecord holds a deserialized message read back from the topic.
type publishedRecord struct {
	Record  domain.Record
	Key     string
	Headers map[string]string
}

func readPublished(ctx context.Context, t *testing.T, consumer *kafkago.Reader, n int) []publishedRecord {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	out := make([]publishedRecord, 0, n)
	for len(out) < n {
		msg, err := consumer.ReadMessage(readCtx)
		require.NoError(t, err, "read from topic")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		var rec domain.Record
		require.NoError(t, json.Unmarshal(msg.Value, &rec), "unmarshal message")
		out = append(out, publishedRecord{Record: rec, Key: string(msg.Key), Headers: headers})
	}
	return out
}

// TestPipelinePublishesToKafka ingests a CSV through the full pipeline and
// verifies every normalized record lands on the topic in row order.
func TestPipelinePublishesToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(sheet.NewReader(sheet.Options{}), pipeline.NewStore(), discardLogger(), metrics,
		pipeline.WithPublisher(writer))

	ds, err := p.Ingest(ctx, strings.NewReader(incidentsCSV), "incidents.csv")
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	got := readPublished(ctx, t, consumer, ds.Len())

	for i, pr := range got {
		want := ds.Records[i]
		assert.Equal(t, fmt.Sprintf("%s:%d", ds.ID, want.Row), pr.Key)
		assert.Equal(t, ds.ID, pr.Headers["dataset_id"])
		assert.Equal(t, string(want.Category), pr.Headers["cause_category"])
		assert.Equal(t, fmt.Sprint(want.Year), pr.Headers["year"])
		assert.Equal(t, want.District, pr.Record.District)
		assert.Equal(t, want.TotalDeaths, pr.Record.TotalDeaths)
	}

	assert.Equal(t, domain.CauseElectrical, got[0].Record.Category)
	require.NotNil(t, got[0].Record.Geo)
	assert.Nil(t, got[2].Record.Geo)
}

// TestWriterPublishesLargeDataset exercises batching across several
// WriteMessages calls.
func TestWriterPublishesLargeDataset(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	writer := kafka.NewWriter(&config.Config{KafkaBrokers: []string{broker}, KafkaTopic: testTopic}, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	records := make([]domain.Record, 1203)
	for i := range records {
		records[i] = domain.Record{Row: i, District: "Ленский", Year: 2023, Category: domain.CauseOther}
	}
	ds := &domain.Dataset{ID: "large", Records: records}
	require.NoError(t, writer.PublishDataset(ctx, ds))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTopic,
		GroupID:     fmt.Sprintf("test-large-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	got := readPublished(ctx, t, consumer, len(records))
	assert.Equal(t, "large:0", got[0].Key)
	assert.Equal(t, "large:1202", got[len(got)-1].Key)
}
