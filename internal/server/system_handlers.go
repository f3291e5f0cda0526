package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/hedgeguard/internal/database"
	"github.com/aristath/hedgeguard/internal/scheduler"
)

// JobScheduler lists and triggers background jobs
type JobScheduler interface {
	Jobs() []scheduler.JobInfo
	RunNow(name string) error
}

// SystemHandlers handles system-wide monitoring and operations endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	scheduler   JobScheduler
	databases   []*database.DB

	// Swappable for tests
	systemStats func() (float64, float64)
}

// DatabaseStatus reports health and size of one database
type DatabaseStatus struct {
	Name    string          `json:"name"`
	Healthy bool            `json:"healthy"`
	Error   string          `json:"error,omitempty"`
	Stats   *database.Stats `json:"stats,omitempty"`
}

// SystemStatusResponse is returned by GET /api/system/status
type SystemStatusResponse struct {
	Status        string              `json:"status"`
	Uptime        string              `json:"uptime"`
	UptimeSeconds int64               `json:"uptime_seconds"`
	CPUPercent    float64             `json:"cpu_percent"`
	MemoryPercent float64             `json:"memory_percent"`
	Databases     []DatabaseStatus    `json:"databases"`
	Jobs          []scheduler.JobInfo `json:"jobs"`
	LastChecked   string              `json:"last_checked"`
}

// JobsStatusResponse is returned by GET /api/system/jobs
type JobsStatusResponse struct {
	TotalJobs int                 `json:"total_jobs"`
	Jobs      []scheduler.JobInfo `json:"jobs"`
}

// NewSystemHandlers creates a new system handlers instance. jobs may be nil.
func NewSystemHandlers(log zerolog.Logger, jobs JobScheduler, databases ...*database.DB) *SystemHandlers {
	h := &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		startupTime: time.Now(),
		scheduler:   jobs,
		databases:   databases,
	}
	h.systemStats = h.getSystemStats
	return h
}

// HandleSystemStatus returns process, host and database health
// GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	uptime := time.Since(h.startupTime)
	cpuPercent, memPercent := h.systemStats()

	response := SystemStatusResponse{
		Status:        "healthy",
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		Databases:     make([]DatabaseStatus, 0, len(h.databases)),
		Jobs:          h.jobs(),
		LastChecked:   time.Now().Format(time.RFC3339),
	}

	for _, db := range h.databases {
		status := DatabaseStatus{Name: db.Name(), Healthy: true}

		if err := db.HealthCheck(ctx); err != nil {
			h.log.Warn().Err(err).Str("database", db.Name()).Msg("Database health check failed")
			status.Healthy = false
			status.Error = err.Error()
			response.Status = "degraded"
		}

		if stats, err := db.GetStats(); err == nil {
			status.Stats = stats
		} else {
			h.log.Warn().Err(err).Str("database", db.Name()).Msg("Failed to get database stats")
		}

		response.Databases = append(response.Databases, status)
	}

	writeJSON(w, http.StatusOK, response, h.log)
}

// HandleJobsStatus lists registered jobs and their last runs
// GET /api/system/jobs
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	jobs := h.jobs()
	writeJSON(w, http.StatusOK, JobsStatusResponse{TotalJobs: len(jobs), Jobs: jobs}, h.log)
}

// HandleTriggerJob runs a registered job immediately
// POST /api/system/jobs/{name}
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if h.scheduler == nil {
		http.Error(w, "Scheduler not available", http.StatusServiceUnavailable)
		return
	}

	h.log.Info().Str("job", name).Msg("Manually triggering job")

	if err := h.scheduler.RunNow(name); err != nil {
		if errors.Is(err, scheduler.ErrJobNotFound) {
			http.Error(w, fmt.Sprintf("Unknown job: %s", name), http.StatusNotFound)
			return
		}

		h.log.Error().Err(err).Str("job", name).Msg("Manually triggered job failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		}, h.log)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("Job %s completed", name),
	}, h.log)
}

func (h *SystemHandlers) jobs() []scheduler.JobInfo {
	if h.scheduler == nil {
		return []scheduler.JobInfo{}
	}
	return h.scheduler.Jobs()
}

// getSystemStats calculates CPU and RAM usage percentages.
// CPU is sampled over 100ms to keep the endpoint responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
