package service

import (
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"project-sync-api/internal/domain"
)

// finalOrders applies a within-column plan and returns the resulting
// positions sorted ascending
func finalOrders(tasks []*domain.Task, plan MovePlan) []int {
	final := applyPlan(tasks, plan)
	orders := make([]int, 0, len(final))
	for _, o := range final {
		orders = append(orders, o)
	}
	sort.Ints(orders)
	return orders
}

// A within-column move on a dense column must leave the column dense: the
// positions afterward are exactly 0..n-1 with no duplicates and no gaps
func TestProperty_WithinColumnMovePreservesDensity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("moving any task to any position keeps positions dense", prop.ForAll(
		func(n, from, to int) bool {
			from = from % n
			to = to % n
			tasks := denseColumn(uuid.New(), n)

			plan := PlanWithinColumnMove(tasks, tasks[from].ID, to)

			orders := finalOrders(tasks, plan)
			for i, o := range orders {
				if o != i {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 30),
		gen.IntRange(0, 29),
		gen.IntRange(0, 29),
	))

	properties.TestingRun(t)
}

// A within-column move must not disturb the relative order of the other tasks
func TestProperty_WithinColumnMovePreservesSiblingOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("untouched siblings keep their relative order", prop.ForAll(
		func(n, from, to int) bool {
			from = from % n
			to = to % n
			tasks := denseColumn(uuid.New(), n)
			movedID := tasks[from].ID

			before := make([]uuid.UUID, 0, n-1)
			for _, task := range tasks {
				if task.ID != movedID {
					before = append(before, task.ID)
				}
			}

			plan := PlanWithinColumnMove(tasks, movedID, to)
			final := applyPlan(tasks, plan)

			after := make([]uuid.UUID, 0, n-1)
			for _, task := range sortTasksByFinal(tasks, final) {
				if task.ID != movedID {
					after = append(after, task.ID)
				}
			}

			for i := range before {
				if before[i] != after[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(2, 30),
		gen.IntRange(0, 29),
		gen.IntRange(0, 29),
	))

	properties.TestingRun(t)
}

// An explicit cross-column drop into a dense column must keep the target
// dense with the moved task at the requested position
func TestProperty_CrossColumnDropKeepsTargetDense(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("dropping into a dense column yields a dense column", prop.ForAll(
		func(n, dropAt int) bool {
			dropAt = dropAt % (n + 1)
			targetStatus := uuid.New()
			target := denseColumn(targetStatus, n)
			movedID := uuid.New()

			plan := PlanCrossColumnMove(target, movedID, targetStatus, &dropAt)

			if plan.Order != dropAt {
				return false
			}
			moved := &domain.Task{BaseModel: domain.BaseModel{ID: movedID}, StatusID: targetStatus}
			all := append(append([]*domain.Task{}, target...), moved)
			orders := finalOrders(all, plan)
			for i, o := range orders {
				if o != i {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 30),
		gen.IntRange(0, 30),
	))

	properties.TestingRun(t)
}

// Compaction is idempotent: compacting a compacted column plans nothing
func TestProperty_CompactionIsIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("compacting twice produces no further updates", prop.ForAll(
		func(rawOrders []int) bool {
			statusID := uuid.New()
			tasks := make([]*domain.Task, len(rawOrders))
			for i, o := range rawOrders {
				tasks[i] = &domain.Task{
					BaseModel: domain.BaseModel{ID: uuid.New()},
					StatusID:  statusID,
					Order:     o,
				}
			}

			for _, update := range PlanCompaction(tasks) {
				for _, task := range tasks {
					if task.ID == update.ID {
						task.Order = update.Order
					}
				}
			}

			return len(PlanCompaction(tasks)) == 0
		},
		gen.SliceOf(gen.IntRange(0, 100)),
	))

	properties.TestingRun(t)
}

// sortTasksByFinal orders tasks by their position in the final layout
func sortTasksByFinal(tasks []*domain.Task, final map[uuid.UUID]int) []*domain.Task {
	sorted := make([]*domain.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return final[sorted[i].ID] < final[sorted[j].ID]
	})
	return sorted
}
