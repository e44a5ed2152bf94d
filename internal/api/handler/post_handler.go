package handler

import (
	"Subfapp/internal/api/config"
	"Subfapp/internal/api/dto"
	"Subfapp/internal/api/middleware"
	"Subfapp/internal/pkg/response"
	"Subfapp/internal/pkg/syndication"
	"Subfapp/internal/ranking"
	"Subfapp/internal/service"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	voteSvc service.VoteService
	viewSvc service.ViewService
	feedSvc service.FeedService
}

func NewPostHandler(voteSvc service.VoteService, viewSvc service.ViewService, feedSvc service.FeedService) *PostHandler {
	return &PostHandler{
		voteSvc: voteSvc,
		viewSvc: viewSvc,
		feedSvc: feedSvc,
	}
}

func postIDParam(c *gin.Context) (uint64, bool) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return 0, false
	}
	return postID, true
}

// Vote 投票 / 改票 / 撤销 (vote_type = 0)
func (h *PostHandler) Vote(c *gin.Context) {
	userID := c.GetUint64(middleware.UserIDKey)
	if userID == 0 {
		response.Fail(c, response.Unauthorized, "请先登录")
		return
	}
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	var req dto.VoteDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		if req.VoteType != nil {
			// 是整数但不在 -1/0/1 内
			response.Error(c, service.ErrInvalidVoteValue)
			return
		}
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := h.voteSvc.RecordVote(c.Request.Context(), userID, postID, *req.VoteType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// View 记录一次浏览，同一 IP 一小时内只计一次
func (h *PostHandler) View(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	var userID *uint64
	if uid := c.GetUint64(middleware.UserIDKey); uid != 0 {
		userID = &uid
	}

	counted, err := h.viewSvc.TrackView(c.Request.Context(), postID, c.ClientIP(), userID, c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.ViewResultDTO{PostID: postID, Counted: counted})
}

// Feed 帖子列表，sort 为 hot/new/top/rising/trending，默认 hot
func (h *PostHandler) Feed(c *gin.Context) {
	var req dto.FeedQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	feed, err := h.feedSvc.ListFeed(c.Request.Context(), c.GetUint64(middleware.UserIDKey), req.Sort, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// FeedAtom 以 Atom 订阅源形式输出同一份排序结果
func (h *PostHandler) FeedAtom(c *gin.Context) {
	var req dto.FeedQueryDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	feed, err := h.feedSvc.ListFeed(c.Request.Context(), c.GetUint64(middleware.UserIDKey), req.Sort, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	sort := feed.Sort
	if sort == "" {
		sort = ranking.SortHot.String()
	}
	cfg := config.Cfg.Feed
	atom, err := syndication.BuildAtom(syndication.Meta{
		Title:   cfg.Title,
		SiteURL: cfg.SiteURL,
		Sort:    sort,
		Now:     time.Now().UTC(),
	}, feed)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "application/atom+xml; charset=utf-8", []byte(atom))
}
