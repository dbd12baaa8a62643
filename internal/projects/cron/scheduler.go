package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/craftplan-dev/craftplan-backend/internal/projects/service"
)

// Scheduler periodically re-primes the project-list cache so the first
// read after an idle period hits warm data.
type Scheduler struct {
	svc  *service.ProjectService
	spec string
	c    *cron.Cron
}

func NewScheduler(svc *service.ProjectService, spec string) *Scheduler {
	return &Scheduler{svc: svc, spec: spec}
}

// Start initializes cron tasks.
func (s *Scheduler) Start() {
	s.c = cron.New(cron.WithSeconds())

	_, err := s.c.AddFunc(s.spec, s.warmProjectList)
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Printf("Cron scheduler started (cache warm spec %q)", s.spec)
	s.c.Start()
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.c != nil {
		<-s.c.Stop().Done()
	}
}

func (s *Scheduler) warmProjectList() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	projects, err := s.svc.FetchAllProjects(ctx)
	if err != nil {
		log.Printf("Cache warm failed: %v", err)
		return
	}
	log.Printf("Cache warm done (%d projects)", len(projects))
}
