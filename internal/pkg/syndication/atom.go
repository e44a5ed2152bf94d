package syndication

import (
	"Subfapp/internal/api/dto"
	"Subfapp/internal/pkg/consts"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
)

// Meta 订阅源元信息
type Meta struct {
	Title   string
	SiteURL string
	Sort    string
	Now     time.Time
}

// BuildAtom 将一页排序结果渲染为 Atom 订阅源
func BuildAtom(meta Meta, page *dto.FeedDTO) (string, error) {
	site := strings.TrimRight(meta.SiteURL, "/")
	feed := &feeds.Feed{
		Title:       meta.Title,
		Description: fmt.Sprintf("%s posts", meta.Sort),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/?sort=%s", site, meta.Sort), Rel: "self", Type: "text/html"},
		Id:          fmt.Sprintf("tag:subfapp,%d:feed:%s", meta.Now.Year(), meta.Sort),
		Created:     meta.Now,
		Updated:     meta.Now,
	}

	for _, p := range page.Posts {
		link := fmt.Sprintf("%s/posts/%d", site, p.ID)
		created, err := time.ParseInLocation(consts.TimeLayout, p.CreatedAt, time.UTC)
		if err != nil {
			created = meta.Now
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       p.Title,
			Link:        &feeds.Link{Href: link, Rel: "alternate", Type: "text/html"},
			Id:          link,
			Description: describe(p),
			Created:     created,
		})
	}

	return feed.ToAtom()
}

func describe(p *dto.FeedPostDTO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d points (%d up / %d down), %d views", p.Score, p.Upvotes, p.Downvotes, p.ViewsCount)
	if p.CommentsCount > 0 {
		fmt.Fprintf(&b, ", %d comments", p.CommentsCount)
	}
	if p.Trending {
		b.WriteString(", trending")
	}
	return b.String()
}
