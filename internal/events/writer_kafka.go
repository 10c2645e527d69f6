package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/forecast-ops/job-tracker/internal/config"
	"go.uber.org/zap"
)

// KafkaWriter sends events in structured cloudevents JSON, keyed by event id.
type KafkaWriter struct {
	producer sarama.SyncProducer
}

func NewKafkaWriter(cfg config.Kafka) (*KafkaWriter, error) {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	if cfg.Version != "" {
		version, err := sarama.ParseKafkaVersion(cfg.Version)
		if err != nil {
			return nil, fmt.Errorf("invalid kafka version %q: %w", cfg.Version, err)
		}
		sc.Version = version
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return newKafkaWriter(producer), nil
}

func newKafkaWriter(producer sarama.SyncProducer) *KafkaWriter {
	return &KafkaWriter{producer: producer}
}

func (k *KafkaWriter) Write(ctx context.Context, topic string, e cloudevents.Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}

	partition, offset, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(e.ID()),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("content-type"), Value: []byte(cloudevents.ApplicationCloudEventsJSON)},
		},
	})
	if err != nil {
		return err
	}

	zap.S().Named("kafka_writer").Debugw("event written", "id", e.ID(), "type", e.Type(), "partition", partition, "offset", offset)
	return nil
}

func (k *KafkaWriter) Close(_ context.Context) error {
	return k.producer.Close()
}
