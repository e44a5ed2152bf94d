package syndication

import (
	"Subfapp/internal/api/dto"
	"strings"
	"testing"
	"time"
)

func TestBuildAtom_EmptyPage(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	atom, err := BuildAtom(Meta{Title: "Subfapp", SiteURL: "https://example.com/", Sort: "hot", Now: now}, &dto.FeedDTO{})
	if err != nil {
		t.Fatalf("BuildAtom: %v", err)
	}
	if !strings.Contains(atom, "<feed") || !strings.Contains(atom, "<title>Subfapp</title>") {
		t.Errorf("unexpected feed: %s", atom)
	}
	if strings.Contains(atom, "<entry>") {
		t.Errorf("empty page rendered entries: %s", atom)
	}
}

func TestBuildAtom_Entries(t *testing.T) {
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	page := &dto.FeedDTO{Posts: []*dto.FeedPostDTO{
		{ID: 7, Title: "first", Score: 5, Upvotes: 6, Downvotes: 1, ViewsCount: 40, CommentsCount: 3, Trending: true, CreatedAt: "2025-01-01 10:00:00"},
		{ID: 8, Title: "second", CreatedAt: "not a time"},
	}}

	atom, err := BuildAtom(Meta{Title: "Subfapp", SiteURL: "https://example.com", Sort: "rising", Now: now}, page)
	if err != nil {
		t.Fatalf("BuildAtom: %v", err)
	}

	for _, want := range []string{
		"https://example.com/posts/7",
		"https://example.com/posts/8",
		"5 points (6 up / 1 down), 40 views, 3 comments, trending",
		"2025-01-01T10:00:00Z",
	} {
		if !strings.Contains(atom, want) {
			t.Errorf("feed missing %q:\n%s", want, atom)
		}
	}
	if strings.Index(atom, "posts/7") > strings.Index(atom, "posts/8") {
		t.Errorf("entries out of ranking order")
	}
}
