package service

import (
	"Subfapp/internal/model"
	"Subfapp/internal/pkg/consts"
	"Subfapp/internal/ranking"
	"Subfapp/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

// maxUserAgentLen 与 post_views.user_agent 列宽一致，按字符计
const maxUserAgentLen = 512

// truncateUserAgent 去掉非法 UTF-8 字节后按字符截断，不会切开多字节字符
func truncateUserAgent(ua string) string {
	ua = strings.ToValidUTF8(ua, "")
	if utf8.RuneCountInString(ua) <= maxUserAgentLen {
		return ua
	}
	return string([]rune(ua)[:maxUserAgentLen])
}

type ViewService interface {
	// RecordView 写入一条浏览记录并累加浏览数，随后刷新热门状态
	RecordView(ctx context.Context, postID uint64, viewerIP string, userID *uint64, userAgent string) error
	// TrackView 同一 IP 对同一帖子在节流窗口内只计一次浏览
	TrackView(ctx context.Context, postID uint64, viewerIP string, userID *uint64, userAgent string) (bool, error)
}

type viewServiceImpl struct {
	postRepo repository.PostRepo
	trigger  ScoreTrigger
	cache    Cache
	throttle time.Duration
	clock    ranking.Clock
}

func NewViewService(postRepo repository.PostRepo, trigger ScoreTrigger, cache Cache, throttle time.Duration, clock ranking.Clock) ViewService {
	if clock == nil {
		clock = ranking.SystemClock()
	}
	return &viewServiceImpl{
		postRepo: postRepo,
		trigger:  trigger,
		cache:    cache,
		throttle: throttle,
		clock:    clock,
	}
}

func (s *viewServiceImpl) RecordView(ctx context.Context, postID uint64, viewerIP string, userID *uint64, userAgent string) error {
	if postID == 0 {
		return ErrParamInvalid
	}
	userAgent = truncateUserAgent(userAgent)

	err := s.postRepo.RecordView(ctx, &model.PostView{
		PostID:    postID,
		UserID:    userID,
		IPAddress: viewerIP,
		UserAgent: userAgent,
		CreatedAt: s.clock.Now(),
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return storeErr("record view", err)
	}

	if err = s.trigger.OnViewRecorded(ctx, postID); err != nil {
		log.ErrorContext(ctx, "refresh trending status after view failed", "post_id", postID, "err", err)
	}
	return nil
}

func (s *viewServiceImpl) TrackView(ctx context.Context, postID uint64, viewerIP string, userID *uint64, userAgent string) (bool, error) {
	if postID == 0 {
		return false, ErrParamInvalid
	}

	if s.cache != nil && s.throttle > 0 && viewerIP != "" {
		key := fmt.Sprintf("%s%d:%s", consts.PostViewThrottleKey, postID, viewerIP)
		ok, err := s.cache.SetNX(ctx, key, "1", s.throttle)
		if err != nil {
			// Redis 不可用时不节流
			log.WarnContext(ctx, "view throttle unavailable", "post_id", postID, "err", err)
		} else if !ok {
			return false, nil
		}
	}

	if err := s.RecordView(ctx, postID, viewerIP, userID, userAgent); err != nil {
		return false, err
	}
	return true, nil
}
