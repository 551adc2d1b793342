package jobs

import (
	"fmt"
)

type job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	channelSweepJob *ChannelSweepJob
	// outboxRelayJob is nil when no broker is configured.
	outboxRelayJob *OutboxRelayJob
}

func NewJobManager(channelSweepJob *ChannelSweepJob, outboxRelayJob *OutboxRelayJob) *JobManager {
	return &JobManager{
		channelSweepJob: channelSweepJob,
		outboxRelayJob:  outboxRelayJob,
	}
}

func (jm *JobManager) jobs() []job {
	all := []job{jm.channelSweepJob}
	if jm.outboxRelayJob != nil {
		all = append(all, jm.outboxRelayJob)
	}
	return all
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	started := make([]job, 0, 2)
	for _, j := range jm.jobs() {
		if err := j.Start(); err != nil {
			// Stop already started jobs if this one fails
			for _, s := range started {
				s.Stop()
			}
			return fmt.Errorf("failed to start %T: %w", j, err)
		}
		started = append(started, j)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	for _, j := range jm.jobs() {
		j.Stop()
	}
}
