package ranking

import (
	"Subfapp/internal/model"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var sortNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// dryRunDB 只生成 SQL，不连接数据库
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "subfapp:subfapp@tcp(127.0.0.1:3306)/subfapp?parseTime=True",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("open dry run db: %v", err)
	}
	return db
}

func buildSQL(t *testing.T, key SortKey) (string, []interface{}) {
	t.Helper()
	var rows []model.FeedPost
	stmt := dryRunDB(t).Model(&model.Post{}).
		Scopes(Scope(key.Sort(), sortNow)).
		Limit(20).
		Find(&rows).Statement
	return stmt.SQL.String(), stmt.Vars
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in      string
		want    SortKey
		wantErr bool
	}{
		{"", SortHot, false},
		{"hot", SortHot, false},
		{"NEW", SortNew, false},
		{" top ", SortTop, false},
		{"rising", SortRising, false},
		{"trending", SortTrending, false},
		{"controversial", SortHot, true},
	}
	for _, tt := range tests {
		got, err := ParseSortKey(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSortKey(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSortKey(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if !tt.wantErr && got.Sort().Key() != got {
			t.Errorf("%v.Sort().Key() = %v", got, got.Sort().Key())
		}
	}
}

func TestSort_OrderClauses(t *testing.T) {
	tests := []struct {
		key       SortKey
		wantOrder string
	}{
		{SortHot, "ORDER BY posts.hot_score DESC, posts.created_at DESC, posts.id DESC"},
		{SortNew, "ORDER BY posts.created_at DESC, posts.id DESC"},
		{SortTop, "ORDER BY posts.score DESC, posts.created_at DESC, posts.id DESC"},
		{SortRising, "ORDER BY recent_comments_count DESC, posts.score DESC, posts.created_at DESC, posts.id DESC"},
		{SortTrending, "ORDER BY trending_score DESC, posts.created_at DESC, posts.id DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			sql, _ := buildSQL(t, tt.key)
			if !strings.Contains(sql, tt.wantOrder) {
				t.Errorf("sql %q does not contain %q", sql, tt.wantOrder)
			}
			if !strings.Contains(sql, "deleted_at` IS NULL") {
				t.Errorf("sql %q should exclude soft deleted posts", sql)
			}
		})
	}
}

func TestSort_HotAndNewHaveNoTimeFilter(t *testing.T) {
	for _, key := range []SortKey{SortHot, SortNew} {
		sql, vars := buildSQL(t, key)
		if strings.Contains(sql, "posts.created_at >=") {
			t.Errorf("%v: unexpected time filter in %q", key, sql)
		}
		if len(vars) != 1 {
			t.Errorf("%v: vars = %v, want only the limit", key, vars)
		}
	}
}

func TestSort_TopWindowedToSixHours(t *testing.T) {
	sql, vars := buildSQL(t, SortTop)
	if !strings.Contains(sql, "posts.created_at >= ?") {
		t.Fatalf("top sort missing window filter: %q", sql)
	}
	since, ok := vars[0].(time.Time)
	if !ok || !since.Equal(sortNow.Add(-6*time.Hour)) {
		t.Errorf("top window var = %v, want %v", vars[0], sortNow.Add(-6*time.Hour))
	}
}

func TestSort_RisingExcludesPostsWithoutRecentComments(t *testing.T) {
	sql, vars := buildSQL(t, SortRising)
	if !strings.Contains(sql, recentCommentsExpr+" > 0") {
		t.Fatalf("rising sort must exclude posts without recent comments: %q", sql)
	}
	if !strings.Contains(sql, "AS recent_comments_count") {
		t.Errorf("rising sort must select recent_comments_count: %q", sql)
	}
	want := sortNow.Add(-6 * time.Hour)
	// select 子查询、发布时间窗口、评论过滤共用同一窗口
	for i := 0; i < 3; i++ {
		if v, ok := vars[i].(time.Time); !ok || !v.Equal(want) {
			t.Errorf("vars[%d] = %v, want %v", i, vars[i], want)
		}
	}
}

func TestSort_TrendingRecencyBuckets(t *testing.T) {
	sql, vars := buildSQL(t, SortTrending)
	if !strings.Contains(sql, "posts.views_count / 10.0") {
		t.Errorf("trending score should include views_count/10: %q", sql)
	}
	if !strings.Contains(sql, "THEN 50") || !strings.Contains(sql, "THEN 25") || !strings.Contains(sql, "THEN 10 ELSE 0") {
		t.Errorf("trending score missing recency buckets: %q", sql)
	}
	want := []time.Time{
		sortNow.Add(-time.Hour),
		sortNow.Add(-3 * time.Hour),
		sortNow.Add(-6 * time.Hour),
		sortNow.Add(-24 * time.Hour),
	}
	for i, w := range want {
		if v, ok := vars[i].(time.Time); !ok || !v.Equal(w) {
			t.Errorf("vars[%d] = %v, want %v", i, vars[i], w)
		}
	}
}

func TestSort_StableAcrossCalls(t *testing.T) {
	first, _ := buildSQL(t, SortNew)
	for i := 0; i < 5; i++ {
		if got, _ := buildSQL(t, SortNew); got != first {
			t.Fatalf("sql changed between calls: %q vs %q", got, first)
		}
	}
}
