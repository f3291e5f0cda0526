// Package scheduler runs maintenance jobs on cron schedules.
package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aristath/hedgeguard/internal/scheduler/base"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ErrJobNotFound is returned by RunNow for unregistered job names
var ErrJobNotFound = errors.New("job not found")

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// runRecorder is implemented by jobs embedding base.JobBase
type runRecorder interface {
	RecordRun(at time.Time, err error)
	RunStatus() base.RunStatus
}

// JobInfo describes a registered job
type JobInfo struct {
	Name     string         `json:"name"`
	Schedule string         `json:"schedule"`
	NextRun  time.Time      `json:"next_run,omitempty"`
	Status   base.RunStatus `json:"status"`
}

type registeredJob struct {
	job      Job
	schedule string
	entryID  cron.EntryID
	running  sync.Mutex
}

// Scheduler manages background jobs
type Scheduler struct {
	cron   *cron.Cron
	mu     sync.RWMutex
	jobs   map[string]*registeredJob
	events EventManagerInterface
	log    zerolog.Logger
}

// New creates a new scheduler using standard five-field cron expressions
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		jobs: make(map[string]*registeredJob),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// SetEventManager enables JobFailed events
func (s *Scheduler) SetEventManager(events EventManagerInterface) {
	s.events = events
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.jobs)).Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a new job with cron schedule
// Schedule examples:
//   - "*/5 * * * *"   - Every 5 minutes
//   - "@hourly"       - Every hour
//   - "0 3 * * *"     - 3 AM daily
//   - "@every 30s"    - Every 30 seconds
func (s *Scheduler) AddJob(schedule string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name()]; exists {
		return fmt.Errorf("job %s already registered", job.Name())
	}

	rj := &registeredJob{job: job, schedule: schedule}
	entryID, err := s.cron.AddFunc(schedule, func() {
		if err := s.execute(rj); err != nil {
			s.log.Error().Err(err).Str("job", job.Name()).Msg("Job failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, job.Name(), err)
	}
	rj.entryID = entryID
	s.jobs[job.Name()] = rj

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")

	return nil
}

// RunNow executes a registered job immediately (outside schedule)
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	rj, ok := s.jobs[name]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	s.log.Info().Str("job", name).Msg("Running job immediately")
	return s.execute(rj)
}

// Jobs lists registered jobs sorted by name
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for name, rj := range s.jobs {
		info := JobInfo{
			Name:     name,
			Schedule: rj.schedule,
			NextRun:  s.cron.Entry(rj.entryID).Next,
		}
		if rec, ok := rj.job.(runRecorder); ok {
			info.Status = rec.RunStatus()
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// execute runs a job, never concurrently with itself
func (s *Scheduler) execute(rj *registeredJob) error {
	rj.running.Lock()
	defer rj.running.Unlock()

	name := rj.job.Name()
	start := time.Now()
	s.log.Debug().Str("job", name).Msg("Running job")

	err := s.safeRun(rj.job)

	if rec, ok := rj.job.(runRecorder); ok {
		rec.RecordRun(start, err)
	}

	if err != nil {
		if s.events != nil {
			s.events.EmitTyped("scheduler", jobFailedData(name, err))
		}
		return err
	}

	s.log.Debug().
		Str("job", name).
		Dur("duration", time.Since(start)).
		Msg("Job completed")
	return nil
}

func (s *Scheduler) safeRun(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name(), r)
		}
	}()
	return job.Run()
}
