package kafka

import (
	"Subfapp/internal/api/config"
	"Subfapp/internal/service"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理 Kafka 消费者
type ConsumerManager struct {
	commentsConsumer sarama.ConsumerGroup
	commentsHandler  sarama.ConsumerGroupHandler
	commentsTopic    string
}

func NewConsumerManager(cfg *config.Config, trigger service.ScoreTrigger) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	commentsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaCommentConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		commentsConsumer: commentsConsumer,
		commentsHandler:  NewCommentsHandler(trigger),
		commentsTopic:    cfg.KafkaCommentConsumer.Topic,
	}, nil
}

// Start 阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.commentsConsumer.Errors() {
			log.Error("Error from comment consumer group", "err", err)
		}
	}()

	go func() {
		log.Info("Comment consumer started", "topic", m.commentsTopic)
		for {
			if err := m.commentsConsumer.Consume(ctx, []string{m.commentsTopic}, m.commentsHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.commentsConsumer.Close(); err != nil {
		log.Error("Failed to close comment consumer", "err", err)
		return err
	}
	return nil
}
