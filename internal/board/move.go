package board

import (
	"errors"
	"fmt"
)

var (
	// ErrStaleReference means the client's view of the board no longer matches:
	// the task is not where the drag says it started.
	ErrStaleReference = errors.New("stale task reference")
	ErrUnknownColumn  = errors.New("unknown column")
	ErrInvalidIndex   = errors.New("invalid index")
)

// Location is a position inside a column.
type Location struct {
	ColumnID string `json:"columnId"`
	Index    int    `json:"index"`
}

// DragResult is the terminal event of a drag gesture. A nil Destination means
// the card was dropped outside any column.
type DragResult struct {
	TaskID      string    `json:"taskId"`
	Source      Location  `json:"source"`
	Destination *Location `json:"destination"`
}

// Move is the single persistence instruction produced by a drop.
type Move struct {
	TaskID      string `json:"taskId"`
	NewColumnID string `json:"newColumnId"`
	NewOrder    int    `json:"newOrder"`
}

// Outcome is the terminal state of a drop.
type Outcome string

const (
	OutcomeNoOp      Outcome = "noop"
	OutcomeReordered Outcome = "reordered"
	OutcomeMoved     Outcome = "moved"
)

// Apply reduces a drag-end event. Dropping outside the board leaves
// everything untouched.
func Apply(b Board, ev DragResult) (Board, *Move, Outcome, error) {
	if ev.Destination == nil {
		return b, nil, OutcomeNoOp, nil
	}
	dst := *ev.Destination
	next, mv, err := ApplyMove(b, ev.TaskID, ev.Source.ColumnID, ev.Source.Index, dst.ColumnID, dst.Index)
	if err != nil {
		return b, nil, "", err
	}
	switch {
	case mv == nil:
		return b, nil, OutcomeNoOp, nil
	case dst.ColumnID == ev.Source.ColumnID:
		return next, mv, OutcomeReordered, nil
	default:
		return next, mv, OutcomeMoved, nil
	}
}

// ApplyMove removes taskID from srcIdx of srcCol and inserts it at dstIdx of
// dstCol. The input board is not modified. A destination index past the end
// appends, and the returned Move carries the index actually used.
func ApplyMove(b Board, taskID, srcCol string, srcIdx int, dstCol string, dstIdx int) (Board, *Move, error) {
	if srcCol == dstCol && srcIdx == dstIdx {
		return b, nil, nil
	}
	if srcIdx < 0 || dstIdx < 0 {
		return b, nil, fmt.Errorf("%w: source %d, destination %d", ErrInvalidIndex, srcIdx, dstIdx)
	}

	si := b.columnIndex(srcCol)
	if si < 0 {
		return b, nil, fmt.Errorf("%w: %s", ErrUnknownColumn, srcCol)
	}
	di := b.columnIndex(dstCol)
	if di < 0 {
		return b, nil, fmt.Errorf("%w: %s", ErrUnknownColumn, dstCol)
	}

	src := b.Columns[si].Tasks
	if srcIdx >= len(src) || src[srcIdx].ID != taskID {
		return b, nil, fmt.Errorf("%w: task %s not at %s[%d]", ErrStaleReference, taskID, srcCol, srcIdx)
	}

	next := b.Clone()
	moved := src[srcIdx]
	remaining := remove(next.Columns[si].Tasks, srcIdx)
	next.Columns[si].Tasks = remaining

	target := remaining
	if si != di {
		target = next.Columns[di].Tasks
	}
	if dstIdx > len(target) {
		dstIdx = len(target)
	}
	// clamping can land a task back on its own slot
	if si == di && dstIdx == srcIdx {
		return b, nil, nil
	}
	next.Columns[di].Tasks = insert(target, dstIdx, moved)

	return next, &Move{TaskID: taskID, NewColumnID: dstCol, NewOrder: dstIdx}, nil
}

func remove(tasks []Task, i int) []Task {
	out := make([]Task, 0, len(tasks)-1)
	out = append(out, tasks[:i]...)
	return append(out, tasks[i+1:]...)
}

func insert(tasks []Task, i int, t Task) []Task {
	out := make([]Task, 0, len(tasks)+1)
	out = append(out, tasks[:i]...)
	out = append(out, t)
	return append(out, tasks[i:]...)
}
