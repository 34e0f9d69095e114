package jobs

import (
	"context"
	"errors"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"shipping/internal/core/application/usecases/commands"
	"shipping/internal/core/domain/model/customs"
	"shipping/internal/core/ports"
)

// CustomsSweepJob re-dispatches due customs submissions once a minute. The
// in-process timers behind scheduled retries are lost on restart; the sweep
// picks every pending submission whose persisted next attempt time has
// passed and runs it.
type CustomsSweepJob struct {
	handler commands.SubmitCustomsCommandHandler
	orders  ports.OrderRepository
	cron    *cron.Cron
	logger  *zap.Logger
}

// NewCustomsSweepJob creates the sweep job. Uses SubmitCustomsCommandHandler
// to process each due submission.
func NewCustomsSweepJob(
	handler commands.SubmitCustomsCommandHandler,
	orders ports.OrderRepository,
	logger *zap.Logger,
) *CustomsSweepJob {
	return &CustomsSweepJob{
		handler: handler,
		orders:  orders,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With(zap.String("component", "customs_sweep_job")),
	}
}

// Start begins the sweep job to run at the top of every minute.
func (j *CustomsSweepJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("customs sweep job started (running every minute)")
	return nil
}

// Stop stops the sweep job.
func (j *CustomsSweepJob) Stop() {
	j.cron.Stop()
	j.logger.Info("customs sweep job stopped")
}

func (j *CustomsSweepJob) run() {
	ctx := context.Background()

	due, err := j.orders.GetAllWithDueCustoms(ctx)
	if err != nil {
		j.logger.Error("customs sweep failed to load due submissions", zap.Error(err))
		return
	}

	for _, o := range due {
		cmd, err := commands.NewSubmitCustomsCommand(o.ID())
		if err != nil {
			j.logger.Error("customs sweep built an invalid command",
				zap.String("order_id", o.ID().String()),
				zap.Error(err))
			continue
		}

		if err = j.handler.Handle(ctx, cmd); err != nil {
			// A timer may have fired for the same order between the query
			// and this attempt; those races surface as expected business
			// errors and carrier failures are already persisted with their
			// retry schedule.
			if errors.Is(err, commands.ErrCustomsNotPending) ||
				errors.Is(err, customs.ErrSubmissionIsVoided) {
				continue
			}
			j.logger.Warn("customs sweep attempt failed",
				zap.String("order_id", o.ID().String()),
				zap.Error(err))
		}
	}
}
