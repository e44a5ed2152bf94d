package job

import (
	"Subfapp/internal/api/dto"
	"Subfapp/internal/model"
	"Subfapp/internal/repository"
	"Subfapp/internal/service"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

var errBoom = errors.New("boom")

// fakePostRepo 只实现任务用到的查询，其余方法不应被调用
type fakePostRepo struct {
	repository.PostRepo

	mu    sync.Mutex
	posts map[uint64]*model.Post
	// missing 被选出后又被删除的帖子
	missing   map[uint64]bool
	failGet   map[uint64]error
	snapshots []uint64
}

func newFakePostRepo(posts ...*model.Post) *fakePostRepo {
	r := &fakePostRepo{posts: map[uint64]*model.Post{}, missing: map[uint64]bool{}, failGet: map[uint64]error{}}
	for _, p := range posts {
		r.posts[p.ID] = p
	}
	return r
}

func (r *fakePostRepo) GetPost(_ context.Context, id uint64) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failGet[id]; err != nil {
		return nil, err
	}
	p, ok := r.posts[id]
	if !ok || r.missing[id] {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) SnapshotMetrics(_ context.Context, id uint64, viewsCount, score int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.posts[id]
	p.ViewsCount24h = viewsCount
	p.Score24h = score
	p.MetricsUpdatedAt = &at
	r.snapshots = append(r.snapshots, id)
	return nil
}

func (r *fakePostRepo) ListStalePostIDs(_ context.Context, cutoff time.Time, limit int) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint64
	for id, p := range r.posts {
		if p.MetricsUpdatedAt == nil || !p.MetricsUpdatedAt.After(cutoff) {
			ids = append(ids, id)
		}
	}
	return firstN(ids, limit), nil
}

func (r *fakePostRepo) ListRecentPostIDs(_ context.Context, since time.Time, limit int) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint64
	for id, p := range r.posts {
		if !p.CreatedAt.Before(since) {
			ids = append(ids, id)
		}
	}
	return firstN(ids, limit), nil
}

func firstN(ids []uint64, limit int) []uint64 {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

type scoringCall struct {
	method   string
	postID   uint64
	baseline service.Baseline
	// snapshot 调用时帖子上的基线
	snapshot service.Baseline
}

// fakeScoring 记录调用参数
type fakeScoring struct {
	calls []scoringCall
	fail  map[uint64]error
}

func (f *fakeScoring) record(method string, post *model.Post, baseline service.Baseline) error {
	f.calls = append(f.calls, scoringCall{
		method:   method,
		postID:   post.ID,
		baseline: baseline,
		snapshot: service.BaselineOf(post),
	})
	return f.fail[post.ID]
}

func (f *fakeScoring) UpdateHotScore(_ context.Context, postID uint64) (*model.Post, error) {
	f.calls = append(f.calls, scoringCall{method: "UpdateHotScore", postID: postID})
	if err := f.fail[postID]; err != nil {
		return nil, err
	}
	return &model.Post{ID: postID}, nil
}

func (f *fakeScoring) UpdateTrendingStatus(_ context.Context, postID uint64) (*model.Post, error) {
	f.calls = append(f.calls, scoringCall{method: "UpdateTrendingStatus", postID: postID})
	return &model.Post{ID: postID}, nil
}

func (f *fakeScoring) RecomputeWithBaseline(_ context.Context, post *model.Post, baseline service.Baseline) error {
	return f.record("RecomputeWithBaseline", post, baseline)
}

func (f *fakeScoring) EvaluateTrending(_ context.Context, post *model.Post, baseline service.Baseline) error {
	return f.record("EvaluateTrending", post, baseline)
}

// fakeLocker 内存锁
type fakeLocker struct {
	service.Cache
	held map[string]string
	err  error
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]string{}}
}

func (l *fakeLocker) TryLock(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = value
	return true, nil
}

func (l *fakeLocker) UnLock(_ context.Context, key string, value string) {
	if l.held[key] == value {
		delete(l.held, key)
	}
}

type fakeArchiver struct {
	runs []*dto.RolloverRunDTO
	err  error
}

func (a *fakeArchiver) SaveRun(_ context.Context, run *dto.RolloverRunDTO) error {
	a.runs = append(a.runs, run)
	return a.err
}
