package processor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/cardforge/internal/entity"
)

type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// StartRenderConsumer reads render tasks until ctx is cancelled. Tasks are processed
// one at a time: the renderer owns a single surface.
func StartRenderConsumer(ctx context.Context, cfg ConsumerConfig, proc CardProcessor) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})
	defer reader.Close()

	logrus.WithFields(logrus.Fields{
		"brokers": cfg.Brokers,
		"topic":   cfg.Topic,
		"group":   cfg.GroupID,
	}).Info("render consumer started")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				logrus.Info("render consumer stopped")
				return nil
			}
			logrus.WithError(err).Error("error reading render task")
			continue
		}

		var task entity.RenderTask
		if err := json.Unmarshal(msg.Value, &task); err != nil {
			logrus.WithError(err).WithField("offset", msg.Offset).Error("failed to parse render task")
			continue
		}
		HandleTask(ctx, proc, task)
	}
}

// HandleTask runs one task and logs the outcome. Missing cards are dropped quietly:
// the card was deleted after the task was queued. A panicking task is logged and
// dropped so the consumer keeps running.
func HandleTask(ctx context.Context, proc CardProcessor, task entity.RenderTask) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("card_id", task.CardID).Errorf("render task panicked: %v", r)
		}
	}()

	err := proc.Process(ctx, task)
	switch {
	case err == nil:
	case errors.Is(err, entity.ErrCardNotFound):
		logrus.WithField("card_id", task.CardID).Debug("render task for deleted card")
	default:
		logrus.WithError(err).WithField("card_id", task.CardID).Error("render task failed")
	}
}
