package handler

import (
	"Subfapp/internal/api/dto"
	"Subfapp/internal/pkg/response"
	"Subfapp/internal/service"
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
)

// JobRunLister 批处理执行记录的查询
type JobRunLister interface {
	ListRuns(ctx context.Context, job string, limit int64) ([]*dto.RolloverRunDTO, error)
}

type JobHandler struct {
	runs JobRunLister
}

func NewJobHandler(runs JobRunLister) *JobHandler {
	return &JobHandler{runs: runs}
}

// ListRuns 最近的批处理记录，未配置归档时返回空列表
func (h *JobHandler) ListRuns(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if h.runs == nil {
		response.Success(c, []*dto.RolloverRunDTO{})
		return
	}

	runs, err := h.runs.ListRuns(c.Request.Context(), c.Query("job"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, runs)
}
