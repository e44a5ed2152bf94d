package kafka

import (
	"context"
	"errors"
	log "log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

const (
	batchSize    = 32
	batchTimeout = 1 * time.Second
	maxRetries   = 5
)

// ErrDrop 业务上无需处理的消息，直接提交
var ErrDrop = errors.New("drop message")

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// pullMessageBatch 拉取一批消息并执行业务逻辑
func pullMessageBatch(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	batch := make([]*sarama.ConsumerMessage, 0, batchSize)
	ticker := time.NewTicker(batchTimeout)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				if len(batch) > 0 {
					processBatch(session, batch, logic)
				}
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
				ticker.Reset(batchTimeout)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				processBatch(session, batch, logic)
				batch = make([]*sarama.ConsumerMessage, 0, batchSize)
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// processBatch 并发处理一批消息，全部结束后提交最后一条的 offset
func processBatch(session sarama.ConsumerGroupSession, messages []*sarama.ConsumerMessage, logic LogicFunc) {
	var wg sync.WaitGroup

	for _, msg := range messages {
		wg.Add(1)
		go func(m *sarama.ConsumerMessage) {
			defer wg.Done()
			handleWithRetry(session.Context(), m, logic)
		}(msg)
	}

	wg.Wait()

	if len(messages) > 0 {
		session.MarkMessage(messages[len(messages)-1], "")
		session.Commit()
	}
}

// handleWithRetry 指数退避重试，超过次数后记录并放弃该消息；得分会由定时任务兜底
func handleWithRetry(ctx context.Context, m *sarama.ConsumerMessage, logic LogicFunc) bool {
	retryInterval := 100 * time.Millisecond

	for attempt := 1; ; attempt++ {
		err := logic(ctx, m)
		if err == nil {
			return true
		}
		if errors.Is(err, ErrDrop) || errors.Is(err, ErrTableMismatch) || errors.Is(err, ErrEmptyData) {
			return false
		}
		if attempt >= maxRetries {
			log.ErrorContext(ctx, "give up message after retries",
				"topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "err", err)
			return false
		}

		log.WarnContext(ctx, "process message error, retrying", "attempt", attempt, "err", err)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(retryInterval):
		}

		retryInterval *= 2
		if retryInterval > 5*time.Second {
			retryInterval = 5 * time.Second
		}
	}
}
