package jobs

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const (
	DefaultOutboxRelaySchedule = "*/2 * * * * *"
	DefaultRelayBatchSize      = 100

	relayRunTimeout = 30 * time.Second
	// maxBatchesPerRun bounds how long one tick may keep draining a backlog.
	maxBatchesPerRun = 10
)

type OutboxRelayHandler interface {
	Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (int, error)
}

// OutboxRelayJob moves committed order events from the outbox table to the
// broker. Overlapping runs are skipped.
type OutboxRelayJob struct {
	handler  OutboxRelayHandler
	schedule string
	cmd      commands.RelayOutboxCommand
	metrics  *metrics.Metrics
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewOutboxRelayJob(
	handler OutboxRelayHandler,
	schedule string,
	batchSize int,
	m *metrics.Metrics,
	logger *slog.Logger,
) (*OutboxRelayJob, error) {
	if schedule == "" {
		schedule = DefaultOutboxRelaySchedule
	}
	if batchSize == 0 {
		batchSize = DefaultRelayBatchSize
	}
	cmd, err := commands.NewRelayOutboxCommand(batchSize)
	if err != nil {
		return nil, err
	}

	return &OutboxRelayJob{
		handler:  handler,
		schedule: schedule,
		cmd:      cmd,
		metrics:  m,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "outbox_relay_job"),
	}, nil
}

func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running relay to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}

// run relays full batches until the backlog is drained or the per-run
// limit is reached. It returns the number of relayed messages.
func (j *OutboxRelayJob) run(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, relayRunTimeout)
	defer cancel()

	total := 0
	for range maxBatchesPerRun {
		n, err := j.handler.Handle(ctx, j.cmd)
		total += n
		if n > 0 {
			j.metrics.OutboxRelayed.Add(float64(n))
		}
		if err != nil {
			j.logger.ErrorContext(ctx, "Outbox relay failed", "error", err, "relayed", total)
			return total
		}
		if n < j.cmd.BatchSize() {
			break
		}
	}

	if total > 0 {
		j.logger.DebugContext(ctx, "Outbox messages relayed", "count", total)
	}
	return total
}
