package cron

import (
	"Subfapp/internal/api/config"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine     *cron.Cron
	jobs       config.JobsConfig
	rollover   cron.Job
	hotRefresh cron.Job
}

func NewCronManager(rollover, hotRefresh cron.Job, jobs config.JobsConfig) *Manager {
	return &Manager{
		engine:     cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		jobs:       jobs,
		rollover:   rollover,
		hotRefresh: hotRefresh,
	}
}

// RegisterJobs 注册定时任务，spec 为空时不注册对应任务
func (s *Manager) RegisterJobs() error {
	entries := []struct {
		name string
		spec string
		job  cron.Job
	}{
		{"metrics-rollover", s.jobs.RolloverSpec, s.rollover},
		{"hot-refresh", s.jobs.HotRefreshSpec, s.hotRefresh},
	}
	for _, e := range entries {
		if e.spec == "" || e.job == nil {
			log.Info("Cron job disabled", "job", e.name)
			continue
		}
		if _, err := s.engine.AddJob(e.spec, e.job); err != nil {
			return err
		}
		log.Info("Cron job registered", "job", e.name, "spec", e.spec)
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}

// Entries 已注册的任务数
func (s *Manager) Entries() int {
	return len(s.engine.Entries())
}
