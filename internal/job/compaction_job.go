package job

import (
	"context"

	"go.uber.org/zap"

	"project-sync-api/internal/repository"
	"project-sync-api/internal/service"
)

// CompactionJob re-densifies task positions left gapped by cross-column moves.
// Moves only append or shift in the target column, so the source column keeps
// its holes until this job closes them.
type CompactionJob struct {
	statusRepo repository.StatusRepository
	taskRepo   repository.TaskRepository
	logger     *zap.Logger
}

// NewCompactionJob creates a new CompactionJob instance
func NewCompactionJob(
	statusRepo repository.StatusRepository,
	taskRepo repository.TaskRepository,
	logger *zap.Logger,
) *CompactionJob {
	return &CompactionJob{
		statusRepo: statusRepo,
		taskRepo:   taskRepo,
		logger:     logger,
	}
}

// Run executes the compaction job across every status column.
// Column order is preserved; only positions change, so no board events are
// published for compaction writes.
func (j *CompactionJob) Run() {
	ctx := context.Background()

	j.logger.Info("Starting order compaction job")

	statusIDs, err := j.statusRepo.FindAllIDs(ctx)
	if err != nil {
		j.logger.Error("Failed to list status columns",
			zap.Error(err),
		)
		return
	}

	columnsCompacted := 0
	tasksMoved := 0
	failCount := 0

	for _, statusID := range statusIDs {
		tasks, err := j.taskRepo.FindByStatusID(ctx, statusID)
		if err != nil {
			j.logger.Error("Failed to load column tasks",
				zap.String("status_id", statusID.String()),
				zap.Error(err),
			)
			failCount++
			continue
		}

		updates := service.PlanCompaction(tasks)
		if len(updates) == 0 {
			continue
		}

		applied := 0
		for _, update := range updates {
			if err := j.taskRepo.UpdateOrder(ctx, update.ID, update.Order); err != nil {
				j.logger.Error("Failed to update task position",
					zap.String("status_id", statusID.String()),
					zap.String("task_id", update.ID.String()),
					zap.Int("order", update.Order),
					zap.Error(err),
				)
				failCount++
				continue
			}
			applied++
		}

		if applied > 0 {
			columnsCompacted++
			tasksMoved += applied

			j.logger.Debug("Compacted column",
				zap.String("status_id", statusID.String()),
				zap.Int("tasks_updated", applied),
			)
		}
	}

	j.logger.Info("Order compaction job completed",
		zap.Int("columns_scanned", len(statusIDs)),
		zap.Int("columns_compacted", columnsCompacted),
		zap.Int("tasks_updated", tasksMoved),
		zap.Int("failed", failCount),
	)
}
