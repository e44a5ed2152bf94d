package service

import (
	"Subfapp/internal/model"
	"Subfapp/internal/repository"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

var errBoom = errors.New("boom")

type voteKey struct {
	userID uint64
	postID uint64
}

type fakeComment struct {
	postID    uint64
	createdAt time.Time
	deleted   bool
}

// fakeStore 内存版的 PostRepo / VoteRepo / EngagementRepo
type fakeStore struct {
	mu       sync.Mutex
	posts    map[uint64]*model.Post
	votes    map[voteKey]int8
	votedAt  map[voteKey]time.Time
	comments []fakeComment
	views    []*model.PostView

	// fail 按方法名注入错误
	fail map[string]error
	// failOnce 只失败一次
	failOnce map[string]error

	scoreWrites    int
	trendingWrites int
	snapshots      int
	upserts        int
	feedCalls      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		posts:    map[uint64]*model.Post{},
		votes:    map[voteKey]int8{},
		votedAt:  map[voteKey]time.Time{},
		fail:     map[string]error{},
		failOnce: map[string]error{},
	}
}

func (f *fakeStore) errFor(method string) error {
	if err, ok := f.failOnce[method]; ok {
		delete(f.failOnce, method)
		return err
	}
	return f.fail[method]
}

func (f *fakeStore) addPost(p *model.Post) *model.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts[p.ID] = p
	return p
}

// vote 在 t0 投出的票
func (f *fakeStore) vote(userID, postID uint64, v int8) {
	f.voteAt(userID, postID, v, t0)
}

func (f *fakeStore) voteAt(userID, postID uint64, v int8, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.votes[voteKey{userID, postID}] = v
	f.votedAt[voteKey{userID, postID}] = at
}

func (f *fakeStore) addComment(postID uint64, at time.Time, deleted bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments = append(f.comments, fakeComment{postID: postID, createdAt: at, deleted: deleted})
}

func (f *fakeStore) post(id uint64) model.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.posts[id]
}

// PostRepo

func (f *fakeStore) GetPost(_ context.Context, id uint64) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("GetPost"); err != nil {
		return nil, err
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) UpdateScores(_ context.Context, id uint64, fields repository.ScoreFields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("UpdateScores"); err != nil {
		return err
	}
	p := f.posts[id]
	p.Score = fields.Score
	p.Upvotes = fields.Upvotes
	p.Downvotes = fields.Downvotes
	p.HotScore = fields.HotScore
	p.TrendingStart = fields.TrendingStart
	f.scoreWrites++
	return nil
}

func (f *fakeStore) UpdateTrendingStart(_ context.Context, id uint64, start *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("UpdateTrendingStart"); err != nil {
		return err
	}
	f.posts[id].TrendingStart = start
	f.trendingWrites++
	return nil
}

func (f *fakeStore) SnapshotMetrics(_ context.Context, id uint64, viewsCount, score int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("SnapshotMetrics"); err != nil {
		return err
	}
	p := f.posts[id]
	p.ViewsCount24h = viewsCount
	p.Score24h = score
	p.MetricsUpdatedAt = &at
	f.snapshots++
	return nil
}

func (f *fakeStore) RecordView(_ context.Context, view *model.PostView) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("RecordView"); err != nil {
		return err
	}
	p, ok := f.posts[view.PostID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.ViewsCount++
	f.views = append(f.views, view)
	return nil
}

func (f *fakeStore) ListStalePostIDs(_ context.Context, cutoff time.Time, limit int) ([]uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("ListStalePostIDs"); err != nil {
		return nil, err
	}
	var ids []uint64
	for id, p := range f.posts {
		if p.MetricsUpdatedAt == nil || !p.MetricsUpdatedAt.After(cutoff) {
			ids = append(ids, id)
		}
	}
	return limitIDs(ids, limit), nil
}

func (f *fakeStore) ListRecentPostIDs(_ context.Context, since time.Time, limit int) ([]uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("ListRecentPostIDs"); err != nil {
		return nil, err
	}
	var ids []uint64
	for id, p := range f.posts {
		if !p.CreatedAt.Before(since) {
			ids = append(ids, id)
		}
	}
	return limitIDs(ids, limit), nil
}

// ListFeed 不解释 scope，按 id 顺序返回全部帖子
func (f *fakeStore) ListFeed(_ context.Context, _ ...func(*gorm.DB) *gorm.DB) ([]*model.FeedPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedCalls++
	if err := f.errFor("ListFeed"); err != nil {
		return nil, err
	}
	var ids []uint64
	for id := range f.posts {
		ids = append(ids, id)
	}
	ids = limitIDs(ids, 0)
	out := make([]*model.FeedPost, 0, len(ids))
	for _, id := range ids {
		out = append(out, &model.FeedPost{Post: *f.posts[id]})
	}
	return out, nil
}

func limitIDs(ids []uint64, limit int) []uint64 {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

// VoteRepo

func (f *fakeStore) UpsertVote(_ context.Context, userID, postID uint64, voteType int8, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if err := f.errFor("UpsertVote"); err != nil {
		return err
	}
	f.votes[voteKey{userID, postID}] = voteType
	f.votedAt[voteKey{userID, postID}] = at
	return nil
}

func (f *fakeStore) DeleteVote(_ context.Context, userID, postID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("DeleteVote"); err != nil {
		return err
	}
	delete(f.votes, voteKey{userID, postID})
	delete(f.votedAt, voteKey{userID, postID})
	return nil
}

func (f *fakeStore) GetUserVote(_ context.Context, userID, postID uint64) (int8, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.votes[voteKey{userID, postID}], nil
}

// EngagementRepo

func (f *fakeStore) CountVotesByType(_ context.Context, postID uint64, voteType int8, since *time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("CountVotesByType"); err != nil {
		return 0, err
	}
	var n int64
	for k, v := range f.votes {
		if k.postID != postID || v != voteType {
			continue
		}
		if since != nil && f.votedAt[k].Before(*since) {
			continue
		}
		n++
	}
	return n, nil
}

func (f *fakeStore) CountComments(_ context.Context, postID uint64, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("CountComments"); err != nil {
		return 0, err
	}
	var n int64
	for _, c := range f.comments {
		if c.postID == postID && !c.deleted && !c.createdAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountViews(_ context.Context, postID uint64, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("CountViews"); err != nil {
		return 0, err
	}
	var n int64
	for _, v := range f.views {
		if v.PostID == postID && !v.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// fakeCache 内存版 Cache
type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (c *fakeCache) GetValue(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	return c.values[key], nil
}

func (c *fakeCache) SetWithExpiration(_ context.Context, key string, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.values[key] = value
	return nil
}

func (c *fakeCache) SetNX(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	if _, ok := c.values[key]; ok {
		return false, nil
	}
	c.values[key] = value
	return true, nil
}

func (c *fakeCache) TryLock(ctx context.Context, key string, value string, expiration time.Duration) (bool, error) {
	return c.SetNX(ctx, key, value, expiration)
}

func (c *fakeCache) UnLock(_ context.Context, key string, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values[key] == value {
		delete(c.values, key)
	}
}

// fakeIndexer 记录同步调用
type fakeIndexer struct {
	synced []uint64
	err    error
}

func (i *fakeIndexer) SyncPostScore(_ context.Context, post *model.Post) error {
	i.synced = append(i.synced, post.ID)
	return i.err
}

// fakeTrigger 记录触发次数
type fakeTrigger struct {
	votes, comments, views []uint64
	err                    error
}

func (t *fakeTrigger) OnVoteChanged(_ context.Context, postID uint64) error {
	t.votes = append(t.votes, postID)
	return t.err
}

func (t *fakeTrigger) OnCommentChanged(_ context.Context, postID uint64) error {
	t.comments = append(t.comments, postID)
	return t.err
}

func (t *fakeTrigger) OnViewRecorded(_ context.Context, postID uint64) error {
	t.views = append(t.views, postID)
	return t.err
}
