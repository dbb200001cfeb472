package kanban

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"admin-dashboard-api/internal/board"
	"admin-dashboard-api/internal/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrColumnNotFound = errors.New("column not found")
	ErrEmptyContent   = errors.New("content is required")
)

// DefaultColumns are created by SeedInitialColumns on an empty board.
var DefaultColumns = []string{"To Do", "In Progress", "Done"}

// Store persists the board through gorm.
type Store struct {
	db    *gorm.DB
	newID func() string
}

// NewStore returns a Store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, newID: uuid.NewString}
}

func orderTasks(db *gorm.DB) *gorm.DB {
	return db.Order("position asc, created_at asc, id asc")
}

// FetchBoard returns all columns by display order, each with its tasks by
// display order.
func (s *Store) FetchBoard(ctx context.Context) (board.Board, error) {
	var cols []models.KanbanColumn
	err := s.db.WithContext(ctx).
		Preload("Tasks", orderTasks).
		Order("position asc").
		Find(&cols).Error
	if err != nil {
		return board.Board{}, fmt.Errorf("fetch board: %w", err)
	}
	return toBoard(cols), nil
}

func toBoard(cols []models.KanbanColumn) board.Board {
	b := board.Board{Columns: make([]board.Column, 0, len(cols))}
	for _, c := range cols {
		col := board.Column{ID: c.ID, Title: c.Title, Order: c.Order, Tasks: make([]board.Task, 0, len(c.Tasks))}
		for _, t := range c.Tasks {
			col.Tasks = append(col.Tasks, toTask(t))
		}
		b.Columns = append(b.Columns, col)
	}
	return b
}

func toTask(t models.KanbanTask) board.Task {
	p := t.Priority
	if !p.Valid() {
		log.WithFields(log.Fields{"task": t.ID, "priority": t.Priority}).Warn("stored task has unknown priority, treating as low")
		p = board.PriorityLow
	}
	return board.Task{ID: t.ID, Content: t.Content, Priority: p}
}

// MoveTask places the task at NewOrder inside NewColumnID and renumbers every
// task of the affected columns to 0..n-1 in the same transaction, so stored
// order values stay contiguous. Concurrent moves are last-write-wins.
func (s *Store) MoveTask(ctx context.Context, mv board.Move) error {
	if mv.NewOrder < 0 {
		return fmt.Errorf("%w: %d", board.ErrInvalidIndex, mv.NewOrder)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.KanbanTask
		if err := tx.First(&task, "id = ?", mv.TaskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrTaskNotFound, mv.TaskID)
			}
			return err
		}
		if err := columnExists(tx, mv.NewColumnID); err != nil {
			return err
		}

		columnIDs := []string{task.ColumnID}
		if mv.NewColumnID != task.ColumnID {
			columnIDs = append(columnIDs, mv.NewColumnID)
		}
		var rows []models.KanbanTask
		if err := orderTasks(tx.Where("column_id IN ?", columnIDs)).Find(&rows).Error; err != nil {
			return err
		}

		stored := board.Board{}
		for _, id := range columnIDs {
			stored.Columns = append(stored.Columns, board.Column{ID: id})
		}
		current := make(map[string]models.KanbanTask, len(rows))
		for _, r := range rows {
			current[r.ID] = r
			for i := range stored.Columns {
				if stored.Columns[i].ID == r.ColumnID {
					stored.Columns[i].Tasks = append(stored.Columns[i].Tasks, board.Task{ID: r.ID})
				}
			}
		}

		from, _ := stored.Locate(task.ID)
		next, _, err := board.ApplyMove(stored, task.ID, from.ColumnID, from.Index, mv.NewColumnID, mv.NewOrder)
		if err != nil {
			return err
		}

		for _, c := range next.Columns {
			for i, t := range c.Tasks {
				row := current[t.ID]
				if row.ColumnID == c.ID && row.Order == i {
					continue
				}
				err := tx.Model(&models.KanbanTask{}).
					Where("id = ?", t.ID).
					Updates(map[string]any{"column_id": c.ID, "position": i}).Error
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func columnExists(tx *gorm.DB, id string) error {
	var n int64
	if err := tx.Model(&models.KanbanColumn{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, id)
	}
	return nil
}

// CreateTask appends a task to the column with order = max(order)+1.
func (s *Store) CreateTask(ctx context.Context, columnID, content string, priority board.Priority) (board.Task, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return board.Task{}, ErrEmptyContent
	}
	if !priority.Valid() {
		return board.Task{}, fmt.Errorf("%w: %q", board.ErrInvalidPriority, priority)
	}

	task := models.KanbanTask{
		ID:       s.newID(),
		Content:  content,
		Priority: priority,
		ColumnID: columnID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := columnExists(tx, columnID); err != nil {
			return err
		}
		var last models.KanbanTask
		err := tx.Where("column_id = ?", columnID).Order("position desc").First(&last).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			task.Order = 0
		case err != nil:
			return err
		default:
			task.Order = last.Order + 1
		}
		return tx.Create(&task).Error
	})
	if err != nil {
		return board.Task{}, err
	}
	return toTask(task), nil
}

// DeleteTask removes a task. Siblings keep their stored order values.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.KanbanTask{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return nil
}

// CreateColumn appends a column after the current last one.
func (s *Store) CreateColumn(ctx context.Context, title string) (board.Column, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return board.Column{}, fmt.Errorf("title: %w", ErrEmptyContent)
	}
	col := models.KanbanColumn{ID: s.newID(), Title: title}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last models.KanbanColumn
		err := tx.Order("position desc").First(&last).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			col.Order = 0
		case err != nil:
			return err
		default:
			col.Order = last.Order + 1
		}
		return tx.Create(&col).Error
	})
	if err != nil {
		return board.Column{}, err
	}
	return board.Column{ID: col.ID, Title: col.Title, Order: col.Order, Tasks: []board.Task{}}, nil
}

// SeedInitialColumns creates the default columns when the board has none.
// It reports whether anything was created.
func (s *Store) SeedInitialColumns(ctx context.Context) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.KanbanColumn{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		cols := make([]models.KanbanColumn, len(DefaultColumns))
		for i, title := range DefaultColumns {
			cols[i] = models.KanbanColumn{ID: s.newID(), Title: title, Order: i}
		}
		created = true
		return tx.Create(&cols).Error
	})
	return created, err
}
