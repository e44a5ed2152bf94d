package kafka

import (
	"Subfapp/internal/model"
	"Subfapp/internal/pkg/logger"
	"Subfapp/internal/service"
	"context"
	"errors"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
)

// CommentsHandler 评论表变更后刷新对应帖子的热度
type CommentsHandler struct {
	trigger service.ScoreTrigger
	table   string
}

func NewCommentsHandler(trigger service.ScoreTrigger) *CommentsHandler {
	return &CommentsHandler{
		trigger: trigger,
		table:   model.PostComment{}.TableName(),
	}
}

func (s *CommentsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("comment score consumer setup")
	return nil
}

func (s *CommentsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("comment score consumer cleanup")
	return nil
}

func (s *CommentsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-comment consume claim", "partition", claim.Partition())
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-comment process batch error", "err", err)
		return err
	}
	return nil
}

func (s *CommentsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, s.table)
	if err != nil {
		return err
	}
	ctx = logger.WithTraceID(ctx, "canal-"+strconv.FormatInt(canalMsg.ID, 10))

	var postIDs []uint64
	switch canalMsg.Type {
	case INSERT, DELETE:
		postIDs = affectedPosts(canalMsg, func(int) bool { return true })
	case UPDATE:
		// 只关心软删除/恢复，内容编辑不影响近期评论数
		postIDs = affectedPosts(canalMsg, func(i int) bool { return deletedAtChanged(canalMsg, i) })
	default:
		return nil
	}

	for _, pid := range postIDs {
		err = s.trigger.OnCommentChanged(ctx, pid)
		if errors.Is(err, service.ErrPostNotFound) {
			log.InfoContext(ctx, "comment on missing post, skip", "pid", pid)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// affectedPosts 去重后的帖子 ID，保持出现顺序
func affectedPosts(msg *CanalMessage, keep func(i int) bool) []uint64 {
	seen := make(map[uint64]struct{}, len(msg.Data))
	var ids []uint64
	for i, row := range msg.Data {
		if !keep(i) {
			continue
		}
		pid := StrToUint64(row["post_id"])
		if pid == 0 {
			continue
		}
		if _, ok := seen[pid]; ok {
			continue
		}
		seen[pid] = struct{}{}
		ids = append(ids, pid)
	}
	return ids
}

func deletedAtChanged(msg *CanalMessage, i int) bool {
	if i >= len(msg.Old) {
		return false
	}
	_, ok := msg.Old[i]["deleted_at"]
	return ok
}
