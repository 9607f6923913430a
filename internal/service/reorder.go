package service

import (
	"sort"

	"github.com/google/uuid"

	"project-sync-api/internal/domain"
)

// OrderUpdate is a single task or column whose position must change
type OrderUpdate struct {
	ID    uuid.UUID
	Order int
}

// MovePlan is the full set of order mutations produced by one drag gesture:
// the moved task's final column and position plus every sibling shift needed
// to keep positions dense
type MovePlan struct {
	TaskID   uuid.UUID
	StatusID uuid.UUID
	Order    int
	Shifts   []OrderUpdate
}

// sortByOrder returns tasks sorted ascending by column position
func sortByOrder(tasks []*domain.Task) []*domain.Task {
	sorted := make([]*domain.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// PlanWithinColumnMove computes the order mutations for moving a task to a
// new position inside its current column. siblings must be every task of the
// column including the moved one.
//
// Moving toward the front shifts the displaced band up by one; moving toward
// the back shifts it down by one. Positions stay dense as long as they were
// dense before the move.
func PlanWithinColumnMove(siblings []*domain.Task, taskID uuid.UUID, newOrder int) MovePlan {
	var moved *domain.Task
	for _, t := range siblings {
		if t.ID == taskID {
			moved = t
			break
		}
	}
	if moved == nil {
		return MovePlan{TaskID: taskID, Order: newOrder}
	}

	if newOrder < 0 {
		newOrder = 0
	}
	if max := len(siblings) - 1; newOrder > max {
		newOrder = max
	}

	plan := MovePlan{
		TaskID:   taskID,
		StatusID: moved.StatusID,
		Order:    newOrder,
	}

	oldOrder := moved.Order
	if newOrder == oldOrder {
		return plan
	}

	for _, t := range sortByOrder(siblings) {
		if t.ID == taskID {
			continue
		}
		switch {
		case newOrder < oldOrder && t.Order >= newOrder && t.Order < oldOrder:
			plan.Shifts = append(plan.Shifts, OrderUpdate{ID: t.ID, Order: t.Order + 1})
		case newOrder > oldOrder && t.Order > oldOrder && t.Order <= newOrder:
			plan.Shifts = append(plan.Shifts, OrderUpdate{ID: t.ID, Order: t.Order - 1})
		}
	}
	return plan
}

// PlanCrossColumnMove computes the order mutations for moving a task into a
// different column. targetSiblings are the tasks already in the target
// column. When dropOrder is nil the task is appended after the last sibling;
// otherwise it takes the given position and later siblings shift down to make
// room. The source column is left as-is: its remaining tasks keep their gapped
// positions until the compaction job runs.
func PlanCrossColumnMove(targetSiblings []*domain.Task, taskID, targetStatusID uuid.UUID, dropOrder *int) MovePlan {
	plan := MovePlan{
		TaskID:   taskID,
		StatusID: targetStatusID,
	}

	if dropOrder == nil {
		max := -1
		for _, t := range targetSiblings {
			if t.Order > max {
				max = t.Order
			}
		}
		plan.Order = max + 1
		return plan
	}

	order := *dropOrder
	if order < 0 {
		order = 0
	}
	plan.Order = order
	for _, t := range sortByOrder(targetSiblings) {
		if t.Order >= order {
			plan.Shifts = append(plan.Shifts, OrderUpdate{ID: t.ID, Order: t.Order + 1})
		}
	}
	return plan
}

// PlanColumnReorder reassigns column positions from the given left-to-right
// column ID sequence, the way a column drag persists its result: each column
// simply takes its new index
func PlanColumnReorder(columnIDs []uuid.UUID) []OrderUpdate {
	updates := make([]OrderUpdate, 0, len(columnIDs))
	for i, id := range columnIDs {
		updates = append(updates, OrderUpdate{ID: id, Order: i})
	}
	return updates
}

// PlanCompaction re-densifies a column's task positions to 0..n-1, preserving
// relative order, and returns only the tasks whose position actually changes
func PlanCompaction(tasks []*domain.Task) []OrderUpdate {
	var updates []OrderUpdate
	for i, t := range sortByOrder(tasks) {
		if t.Order != i {
			updates = append(updates, OrderUpdate{ID: t.ID, Order: i})
		}
	}
	return updates
}
