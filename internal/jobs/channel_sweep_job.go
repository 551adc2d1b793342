package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

const DefaultChannelSweepSchedule = "*/30 * * * * *"

type ChannelSweeper interface {
	Sweep() int
}

// ChannelSweepJob removes store channel members whose connection has closed
// without an explicit disconnect.
type ChannelSweepJob struct {
	sweeper  ChannelSweeper
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewChannelSweepJob(sweeper ChannelSweeper, schedule string, logger *slog.Logger) *ChannelSweepJob {
	if schedule == "" {
		schedule = DefaultChannelSweepSchedule
	}
	return &ChannelSweepJob{
		sweeper:  sweeper,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "channel_sweep_job"),
	}
}

func (j *ChannelSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Channel sweep job started", "schedule", j.schedule)
	return nil
}

func (j *ChannelSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Channel sweep job stopped")
}

func (j *ChannelSweepJob) run() {
	if removed := j.sweeper.Sweep(); removed > 0 {
		j.logger.InfoContext(context.Background(), "Removed closed connections", "count", removed)
	}
}
