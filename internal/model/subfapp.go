package model

import "time"

const (
	SubfappPublic     = "public"
	SubfappRestricted = "restricted"
	SubfappPrivate    = "private"
	SubfappHidden     = "hidden"
)

type Subfapp struct {
	ID        uint64    `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(64);uniqueIndex" json:"name"`
	Type      string    `gorm:"type:varchar(16);not null;default:'public'" json:"type"`
	CreatedBy *uint64   `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (Subfapp) TableName() string {
	return "subfapps"
}
