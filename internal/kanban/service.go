package kanban

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"admin-dashboard-api/internal/board"
	"admin-dashboard-api/internal/cache"
	"admin-dashboard-api/internal/metrics"
	"admin-dashboard-api/internal/realtime"

	log "github.com/sirupsen/logrus"
)

const boardCacheKey = "kanban:board"

// Event is broadcast to every board subscriber after a successful write.
type Event struct {
	Type     string `json:"type"`
	Action   string `json:"action"`
	TaskID   string `json:"taskId,omitempty"`
	ColumnID string `json:"columnId,omitempty"`
	Version  int    `json:"version"`
}

// MoveResult is what a server-side drop returns to the caller.
type MoveResult struct {
	Outcome board.Outcome `json:"outcome"`
	Move    *board.Move   `json:"move,omitempty"`
	Board   board.Board   `json:"board"`
}

// Service fronts the Store with a board snapshot cache and realtime fan-out.
type Service struct {
	store *Store
	cache cache.Cache
	ttl   time.Duration
	hub   *realtime.Hub

	// gen counts invalidations; a snapshot read before the latest one is
	// never left in the cache.
	gen atomic.Uint64
}

// NewService wires the store to a cache and hub. Either may be nil.
func NewService(store *Store, c cache.Cache, ttl time.Duration, hub *realtime.Hub) *Service {
	if store == nil {
		panic("kanban.NewService: store is nil")
	}
	return &Service{store: store, cache: c, ttl: ttl, hub: hub}
}

// FetchBoard serves the board from cache when possible.
func (s *Service) FetchBoard(ctx context.Context) (board.Board, error) {
	if b, ok := s.loadCached(ctx); ok {
		return b, nil
	}
	gen := s.gen.Load()
	b, err := s.store.FetchBoard(ctx)
	if err != nil {
		return board.Board{}, err
	}
	s.storeCached(ctx, b, gen)
	return b, nil
}

// Move applies a drag-end event against the current stored board and
// persists it before returning.
func (s *Service) Move(ctx context.Context, ev board.DragResult) (MoveResult, error) {
	current, err := s.FetchBoard(ctx)
	if err != nil {
		return MoveResult{}, err
	}

	next, mv, outcome, err := board.Apply(current, ev)
	if err != nil {
		metrics.RecordMove("stale")
		return MoveResult{}, err
	}
	if mv != nil {
		if err := s.MoveTask(ctx, *mv); err != nil {
			return MoveResult{}, err
		}
	}
	metrics.RecordMove(string(outcome))
	return MoveResult{Outcome: outcome, Move: mv, Board: next}, nil
}

// MoveTask persists a single move instruction.
func (s *Service) MoveTask(ctx context.Context, mv board.Move) error {
	err := s.store.MoveTask(ctx, mv)
	// the stored board is uncertain after a failed transaction too
	s.invalidate(ctx)
	if err != nil {
		metrics.RecordPersistFailure("move")
		return err
	}
	s.publish(Event{Action: "task_moved", TaskID: mv.TaskID, ColumnID: mv.NewColumnID})
	return nil
}

func (s *Service) CreateTask(ctx context.Context, columnID, content string, priority board.Priority) (board.Task, error) {
	t, err := s.store.CreateTask(ctx, columnID, content, priority)
	if err != nil {
		if !isValidation(err) {
			metrics.RecordPersistFailure("create")
		}
		return board.Task{}, err
	}
	s.invalidate(ctx)
	s.publish(Event{Action: "task_created", TaskID: t.ID, ColumnID: columnID})
	return t, nil
}

func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		if !errors.Is(err, ErrTaskNotFound) {
			metrics.RecordPersistFailure("delete")
		}
		return err
	}
	s.invalidate(ctx)
	s.publish(Event{Action: "task_deleted", TaskID: id})
	return nil
}

func (s *Service) CreateColumn(ctx context.Context, title string) (board.Column, error) {
	c, err := s.store.CreateColumn(ctx, title)
	if err != nil {
		return board.Column{}, err
	}
	s.invalidate(ctx)
	s.publish(Event{Action: "column_created", ColumnID: c.ID})
	return c, nil
}

// Seed creates the default columns on an empty board.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	created, err := s.store.SeedInitialColumns(ctx)
	if err != nil {
		return false, err
	}
	if created {
		s.invalidate(ctx)
		s.publish(Event{Action: "board_seeded"})
	}
	return created, nil
}

func isValidation(err error) bool {
	return errors.Is(err, ErrEmptyContent) ||
		errors.Is(err, ErrColumnNotFound) ||
		errors.Is(err, board.ErrInvalidPriority)
}

func (s *Service) publish(evt Event) {
	evt.Type = "board_changed"
	evt.Version = 1
	s.hub.Publish(realtime.BoardTopic, evt)
}

func (s *Service) loadCached(ctx context.Context) (board.Board, bool) {
	if s.cache == nil {
		return board.Board{}, false
	}
	data, ok := s.cache.Get(ctx, boardCacheKey)
	if !ok {
		return board.Board{}, false
	}
	var b board.Board
	if err := json.Unmarshal(data, &b); err != nil {
		log.WithError(err).Warn("dropping undecodable board cache entry")
		s.cache.Delete(ctx, boardCacheKey)
		return board.Board{}, false
	}
	return b, true
}

// storeCached caches b, read while the invalidation count was gen. A write
// that lands between the check and the Set is caught by the second check.
func (s *Service) storeCached(ctx context.Context, b board.Board, gen uint64) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	data, err := json.Marshal(b)
	if err != nil {
		return
	}
	if s.gen.Load() != gen {
		return
	}
	s.cache.Set(ctx, boardCacheKey, data, s.ttl)
	if s.gen.Load() != gen {
		s.cache.Delete(ctx, boardCacheKey)
	}
}

func (s *Service) invalidate(ctx context.Context) {
	s.gen.Add(1)
	if s.cache != nil {
		s.cache.Delete(ctx, boardCacheKey)
	}
}
