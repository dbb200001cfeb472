package models

import (
	"time"

	"admin-dashboard-api/internal/board"
)

// KanbanColumn represents a workflow stage on the board
type KanbanColumn struct {
	ID        string       `json:"id" gorm:"primaryKey"`
	Title     string       `json:"title" gorm:"not null"`
	Order     int          `json:"order" gorm:"column:position;not null;uniqueIndex"`
	Tasks     []KanbanTask `json:"tasks" gorm:"foreignKey:ColumnID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// TableName specifies the table name for KanbanColumn Model
func (KanbanColumn) TableName() string {
	return "kanban_columns"
}

// KanbanTask represents a card stored in a column. Order is not renumbered
// on delete, so stored values may have gaps until the next move.
type KanbanTask struct {
	ID        string         `json:"id" gorm:"primaryKey"`
	Content   string         `json:"content" gorm:"not null"`
	Priority  board.Priority `json:"priority" gorm:"not null;default:'low'"`
	ColumnID  string         `json:"columnId" gorm:"column:column_id;not null;index"`
	Order     int            `json:"order" gorm:"column:position;not null"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// TableName specifies the table name for KanbanTask Model
func (KanbanTask) TableName() string {
	return "kanban_tasks"
}
