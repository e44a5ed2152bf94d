package api

import "Subfapp/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	PostHandler *handler.PostHandler
	JobHandler  *handler.JobHandler
}
