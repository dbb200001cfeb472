package board

import (
	"errors"
	"fmt"
	"strings"
)

// Priority represents the priority of a kanban task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var ErrInvalidPriority = errors.New("invalid priority")

// ParsePriority normalizes user input into a Priority. Empty input means low,
// which is what the add-task dialog preselects.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityLow, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task is a card on the board. Its position is its index in the owning column.
type Task struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Priority Priority `json:"priority"`
}

// Column is an ordered container of tasks.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
	Tasks []Task `json:"tasks"`
}

// Board holds columns sorted by display order.
type Board struct {
	Columns []Column `json:"columns"`
}

// Placement is a task's derived display order inside its column.
type Placement struct {
	TaskID string `json:"taskId"`
	Order  int    `json:"order"`
}

// Clone returns a deep copy so callers can keep the previous state around.
func (b Board) Clone() Board {
	if b.Columns == nil {
		return Board{}
	}
	out := Board{Columns: make([]Column, len(b.Columns))}
	for i, c := range b.Columns {
		if c.Tasks != nil {
			c.Tasks = append(make([]Task, 0, len(c.Tasks)), c.Tasks...)
		}
		out.Columns[i] = c
	}
	return out
}

func (b Board) columnIndex(id string) int {
	for i := range b.Columns {
		if b.Columns[i].ID == id {
			return i
		}
	}
	return -1
}

// Column looks up a column by id.
func (b Board) Column(id string) (Column, bool) {
	i := b.columnIndex(id)
	if i < 0 {
		return Column{}, false
	}
	return b.Columns[i], true
}

// Locate returns the column and index currently holding taskID.
func (b Board) Locate(taskID string) (Location, bool) {
	for _, c := range b.Columns {
		for i, t := range c.Tasks {
			if t.ID == taskID {
				return Location{ColumnID: c.ID, Index: i}, true
			}
		}
	}
	return Location{}, false
}

// TaskCount is the number of tasks across all columns.
func (b Board) TaskCount() int {
	n := 0
	for _, c := range b.Columns {
		n += len(c.Tasks)
	}
	return n
}

// Positions derives the contiguous 0..n-1 order of a column's tasks.
func (b Board) Positions(columnID string) []Placement {
	c, ok := b.Column(columnID)
	if !ok {
		return nil
	}
	out := make([]Placement, len(c.Tasks))
	for i, t := range c.Tasks {
		out[i] = Placement{TaskID: t.ID, Order: i}
	}
	return out
}
