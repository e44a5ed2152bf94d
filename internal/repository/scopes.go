package repository

import (
	"Subfapp/internal/model"

	"gorm.io/gorm"
)

// VisibleTo 默认的可见性规则：游客只能看到公开社区；
// 登录用户还能看到受限社区以及自己创建的社区
func VisibleTo(viewerID uint64) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		sub := tx.Session(&gorm.Session{NewDB: true}).Model(&model.Subfapp{}).Select("id")
		if viewerID == 0 {
			sub = sub.Where("type = ?", model.SubfappPublic)
		} else {
			sub = sub.Where("(type IN ? OR created_by = ?)",
				[]string{model.SubfappPublic, model.SubfappRestricted}, viewerID)
		}
		return tx.Where("posts.subfapp_id IN (?)", sub)
	}
}

// PaginateLookahead page 从 1 开始，多取一条用于判断是否还有下一页
func PaginateLookahead(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		return tx.Offset((page - 1) * pageSize).Limit(pageSize + 1)
	}
}
