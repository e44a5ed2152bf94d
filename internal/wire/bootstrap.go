package wire

import (
	"Subfapp/internal/api/config"
	"Subfapp/internal/pkg/database"
	"Subfapp/internal/pkg/logger"
	"Subfapp/internal/pkg/redis"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Infra 进程启动后的基础连接
type Infra struct {
	Cfg *config.Config
	DB  *gorm.DB
	Ext Externals
}

// Bootstrap 依次加载配置、日志、MySQL、Redis 与可选的 Mongo / ES
func Bootstrap() (*Infra, error) {
	if err := config.LoadConfig(); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	cfg := config.Cfg
	logger.InitLogger()

	dbCfg := cfg.DB
	db, err := database.NewGormDB(&dbCfg, cfg.Log.SlowSQL)
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}
	if err = redis.InitRedis(cfg.Redis); err != nil {
		return nil, errors.Wrap(err, "connect redis")
	}
	ext, err := InitExternals(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect external stores")
	}
	return &Infra{Cfg: cfg, DB: db, Ext: ext}, nil
}
