package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.uber.org/zap"

	"github.com/kennedykori/credrails-reconciler/internal/reconciler"
)

type WriterOption func(*Writer)

func WithWriterLogger(l *zap.Logger) WriterOption {
	return func(w *Writer) {
		w.logger = l
	}
}

// Writer publishes each diff as a JSON message keyed by its record
// identifier, so diffs for the same record land on the same partition.
type Writer struct {
	config   kafka.ConfigMap
	producer *kafka.Producer
	topic    string
	logger   *zap.Logger
}

func NewWriter(brokers string, topic string, opts ...WriterOption) (*Writer, error) {
	if brokers == "" {
		return nil, fmt.Errorf("brokers must be specified")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic must be specified")
	}

	config := kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"client.id":         "credrails-reconciler",

		"acks":             "1",
		"retries":          "3",
		"linger.ms":        "5",
		"compression.type": "snappy",
	}

	w := &Writer{
		config: config,
		topic:  topic,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *Writer) Connect(ctx context.Context) error {
	producer, err := kafka.NewProducer(&w.config)
	if err != nil {
		return err
	}
	w.producer = producer

	go func() {
		defer w.logger.Info("producer event loop closed")

		for e := range producer.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					w.logger.Error("delivery failed", zap.Error(ev.TopicPartition.Error))
				} else {
					w.logger.Debug("message delivered",
						zap.String("topic", *ev.TopicPartition.Topic),
						zap.Int32("partition", ev.TopicPartition.Partition),
						zap.Int64("offset", int64(ev.TopicPartition.Offset)))
				}
			case kafka.Error:
				w.logger.Error("producer error", zap.Error(ev))
			}
		}
	}()

	w.logger.Info("kafka writer connected", zap.String("topic", w.topic))
	return nil
}

func (w *Writer) Write(ctx context.Context, diffs reconciler.Iterator) error {
	if w.producer == nil {
		if err := w.Connect(ctx); err != nil {
			return err
		}
	}

	var n int
	for {
		diff, err := diffs.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if !diff.Kind.Valid() {
			return &reconciler.UnsupportedDiffError{Kind: diff.Kind}
		}

		value, err := json.Marshal(diff)
		if err != nil {
			return err
		}

		message := &kafka.Message{
			TopicPartition: kafka.TopicPartition{
				Topic:     &w.topic,
				Partition: kafka.PartitionAny,
			},
			Key:   []byte(diff.RecordID),
			Value: value,
		}
		if err := w.producer.Produce(message, nil); err != nil {
			return err
		}
		n++
	}

	w.producer.Flush(5000)

	w.logger.Info("kafka write complete",
		zap.String("topic", w.topic),
		zap.Int("num_diffs", n))
	return nil
}

func (w *Writer) Close() error {
	if w.producer != nil {
		w.producer.Flush(5000)
		w.producer.Close()
	}
	return nil
}

var _ reconciler.Writer = (*Writer)(nil)
