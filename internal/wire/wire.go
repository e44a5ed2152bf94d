package wire

import (
	"Subfapp/internal/api"
	"Subfapp/internal/api/config"
	"Subfapp/internal/api/handler"
	"Subfapp/internal/job"
	"Subfapp/internal/pkg/cron"
	"Subfapp/internal/pkg/es"
	"Subfapp/internal/pkg/kafka"
	mongodb "Subfapp/internal/pkg/mongo"
	"Subfapp/internal/pkg/redis"
	"Subfapp/internal/ranking"
	"Subfapp/internal/repository"
	"Subfapp/internal/service"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Externals 可选的外部依赖，为 nil 时对应功能关闭
type Externals struct {
	Mongo   *mongo.Database
	Elastic *elasticsearch.TypedClient
}

// Core 服务进程与批处理命令共用的组件
type Core struct {
	ScoringSvc    service.ScoringService
	Trigger       service.ScoreTrigger
	RolloverJob   *job.MetricsRolloverJob
	HotRefreshJob *job.HotScoreRefreshJob
	JobRuns       mongodb.JobRunRepo

	postRepo repository.PostRepo
	voteRepo repository.VoteRepo
	engRepo  repository.EngagementRepo
	cache    service.Cache
}

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	*Core
	Router       *gin.Engine
	DB           *gorm.DB
	CronMgr      *cron.Manager
	KafkaManager *kafka.ConsumerManager
}

func TrendingPolicy(cfg config.RankingConfig) ranking.TrendingPolicy {
	policy := ranking.DefaultTrendingPolicy()
	policy.MinRecentScore = cfg.MinRecentScore
	policy.MinRecentComments = cfg.MinRecentComments
	policy.MinViewsDelta = cfg.MinViewsDelta
	policy.MinScoreDelta = cfg.MinScoreDelta
	if cfg.TrendingCooldown > 0 {
		policy.Cooldown = cfg.TrendingCooldown
	}
	return policy
}

// BuildCore 组装仓储、得分计算与批处理任务
func BuildCore(db *gorm.DB, ext Externals, cfg *config.Config) *Core {
	clock := ranking.SystemClock()
	cache := redis.NewStore()

	postRepo := repository.NewPostRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	engRepo := repository.NewEngagementRepository(db)

	var indexer service.ScoreIndexer
	if ext.Elastic != nil {
		indexer = es.NewPostScoreRepo(ext.Elastic, cfg.Elastic.PostIndex)
	}

	var jobRuns mongodb.JobRunRepo
	var archiver job.RunArchiver
	if ext.Mongo != nil {
		jobRuns = mongodb.NewJobRunRepo(ext.Mongo)
		archiver = jobRuns
	}

	scoringSvc := service.NewScoringService(postRepo, engRepo, indexer, TrendingPolicy(cfg.Ranking), cfg.Ranking.EngagementWindow, clock)

	return &Core{
		ScoringSvc: scoringSvc,
		Trigger:    service.NewScoreTrigger(scoringSvc),
		RolloverJob: job.NewMetricsRolloverJob(postRepo, scoringSvc, cache, archiver, clock,
			cfg.Jobs.RolloverLimit, cfg.Jobs.RolloverLockTTL),
		HotRefreshJob: job.NewHotScoreRefreshJob(postRepo, scoringSvc, cache, archiver, clock,
			cfg.Jobs.HotRefreshLimit, cfg.Jobs.RolloverLockTTL),
		JobRuns: jobRuns,

		postRepo: postRepo,
		voteRepo: voteRepo,
		engRepo:  engRepo,
		cache:    cache,
	}
}

func BuildApplication(db *gorm.DB, ext Externals, cfg *config.Config) (*ApplicationContainer, error) {
	core := BuildCore(db, ext, cfg)
	clock := ranking.SystemClock()

	voteService := service.NewVoteService(core.voteRepo, core.postRepo, core.engRepo, core.Trigger, clock)
	viewService := service.NewViewService(core.postRepo, core.Trigger, core.cache, cfg.Feed.ViewThrottle, clock)
	feedService := service.NewFeedService(core.postRepo, core.cache, service.FeedOptions{
		DefaultPageSize: cfg.Feed.DefaultPageSize,
		MaxPageSize:     cfg.Feed.MaxPageSize,
		CacheTTL:        cfg.Feed.CacheTTL,
	}, clock)

	var runLister handler.JobRunLister
	if core.JobRuns != nil {
		runLister = core.JobRuns
	}

	handlers := &api.HandlersGroup{
		PostHandler: handler.NewPostHandler(voteService, viewService, feedService),
		JobHandler:  handler.NewJobHandler(runLister),
	}

	router := api.SetupRouter(handlers)

	var kafkaMgr *kafka.ConsumerManager
	if cfg.Kafka.Enable {
		var err error
		kafkaMgr, err = kafka.NewConsumerManager(cfg, core.Trigger)
		if err != nil {
			return nil, err
		}
	}

	return &ApplicationContainer{
		Core:         core,
		Router:       router,
		DB:           db,
		CronMgr:      cron.NewCronManager(core.RolloverJob, core.HotRefreshJob, cfg.Jobs),
		KafkaManager: kafkaMgr,
	}, nil
}

// InitExternals 按配置连接 Mongo 与 Elasticsearch
func InitExternals(cfg *config.Config) (Externals, error) {
	var ext Externals
	if cfg.Mongo.Enable {
		db, err := mongodb.InitMongo(cfg.Mongo)
		if err != nil {
			return ext, err
		}
		ext.Mongo = db
	}
	if cfg.Elastic.Enable {
		if err := es.InitClient(); err != nil {
			return ext, err
		}
		ext.Elastic = es.Client
	}
	return ext, nil
}
