package scheduler

import "github.com/aristath/hedgeguard/internal/scheduler/base"

// JobBase re-exports base.JobBase so jobs in this package can embed it directly
type JobBase = base.JobBase
