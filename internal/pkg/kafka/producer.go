package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/cardforge/internal/entity"
)

type Producer interface {
	Publish(ctx context.Context, task entity.RenderTask) error
	Close() error
}

type Config struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// TaskHandler runs a render task in-process when no broker is available.
type TaskHandler func(ctx context.Context, task entity.RenderTask)

type kafkaProducer struct {
	writer *kafka.Writer
}

// NewProducer connects to Kafka and makes sure the topic exists. When Kafka is disabled
// or unreachable, tasks are handed to fallback on a local worker instead.
func NewProducer(cfg Config, fallback TaskHandler) Producer {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		logrus.Info("kafka disabled, render tasks run in-process")
		return NewInProcessProducer(fallback, 64)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers[0])
	if err != nil {
		logrus.WithError(err).Warn("kafka connection failed, render tasks run in-process")
		return NewInProcessProducer(fallback, 64)
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.Topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		logrus.WithError(err).Debug("could not create topic (might already exist)")
	}

	logrus.WithField("brokers", cfg.Brokers).Info("connected to kafka")
	return &kafkaProducer{writer: &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}}
}

func (p *kafkaProducer) Publish(ctx context.Context, task entity.RenderTask) error {
	value, err := json.Marshal(task)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// keyed by card so tasks for one card stay ordered
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(task.CardID),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		logrus.WithError(err).WithField("card_id", task.CardID).Error("failed to publish render task")
		return err
	}
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}
