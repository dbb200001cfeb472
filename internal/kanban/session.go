package kanban

import (
	"context"
	"sync"
	"time"

	"admin-dashboard-api/internal/board"
	"admin-dashboard-api/internal/metrics"

	log "github.com/sirupsen/logrus"
)

// Backend is what a Session reads from and writes through.
type Backend interface {
	FetchBoard(ctx context.Context) (board.Board, error)
	MoveTask(ctx context.Context, mv board.Move) error
	CreateTask(ctx context.Context, columnID, content string, priority board.Priority) (board.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Notification is a toast-style message for the user.
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// SessionOptions configures a Session. Zero values are usable.
type SessionOptions struct {
	// PersistTimeout bounds each background move write; <= 0 means none.
	PersistTimeout time.Duration
	// OnChange receives a copy of the board every time local state changes.
	OnChange func(board.Board)
	// Notify receives user-facing success/failure messages.
	Notify func(Notification)
}

// Session owns one client's board state. Drops are applied optimistically
// and persisted in the background, one at a time in drop order; a failed
// write is reported and the board is re-fetched from the backend. Nothing is
// retried.
type Session struct {
	backend Backend
	opts    SessionOptions

	mu    sync.Mutex
	board board.Board

	// queue holds moves not yet handed to the backend; a single drain
	// goroutine runs while it is non-empty.
	queueMu  sync.Mutex
	queue    []board.Move
	draining bool

	pending sync.WaitGroup
}

// OpenSession fetches the board once and returns a session over it.
func OpenSession(ctx context.Context, backend Backend, opts SessionOptions) (*Session, error) {
	b, err := backend.FetchBoard(ctx)
	if err != nil {
		return nil, err
	}
	return &Session{backend: backend, opts: opts, board: b}, nil
}

// Board returns a copy of the current local state.
func (s *Session) Board() board.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

// DragEnd applies a drop to local state immediately and schedules the write.
// Stale references are rejected without touching state.
func (s *Session) DragEnd(ev board.DragResult) (board.Outcome, error) {
	s.mu.Lock()
	next, mv, outcome, err := board.Apply(s.board, ev)
	if err != nil {
		s.mu.Unlock()
		metrics.RecordMove("stale")
		return "", err
	}
	s.board = next
	s.mu.Unlock()

	metrics.RecordMove(string(outcome))
	if mv == nil {
		return outcome, nil
	}
	s.changed(next)
	s.persist(*mv)
	return outcome, nil
}

func (s *Session) persist(mv board.Move) {
	s.pending.Add(1)
	s.queueMu.Lock()
	s.queue = append(s.queue, mv)
	if !s.draining {
		s.draining = true
		go s.drain()
	}
	s.queueMu.Unlock()
}

// drain writes queued moves in order. Each move's index was computed against
// the board with all earlier moves applied, so a failure discards the rest of
// the queue and reloads.
func (s *Session) drain() {
	for {
		s.queueMu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.queueMu.Unlock()
			return
		}
		mv := s.queue[0]
		s.queue = s.queue[1:]
		s.queueMu.Unlock()

		if err := s.write(mv); err != nil {
			s.queueMu.Lock()
			dropped := len(s.queue)
			s.queue = nil
			s.queueMu.Unlock()

			log.WithError(err).WithFields(log.Fields{
				"task":    mv.TaskID,
				"column":  mv.NewColumnID,
				"order":   mv.NewOrder,
				"dropped": dropped,
			}).Error("failed to persist move")
			s.notify("error", "Failed to move task")

			rctx, rcancel := s.writeContext()
			if err := s.Refresh(rctx); err != nil {
				log.WithError(err).Error("failed to reload board after move failure")
			}
			rcancel()
			for i := 0; i < dropped; i++ {
				s.pending.Done()
			}
		}
		s.pending.Done()
	}
}

func (s *Session) write(mv board.Move) error {
	ctx, cancel := s.writeContext()
	defer cancel()
	return s.backend.MoveTask(ctx, mv)
}

func (s *Session) writeContext() (context.Context, context.CancelFunc) {
	if s.opts.PersistTimeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), s.opts.PersistTimeout)
}

// AddTask creates a task and reloads the board. Nothing is applied locally
// before the backend confirms.
func (s *Session) AddTask(ctx context.Context, columnID, content, priority string) error {
	p, err := board.ParsePriority(priority)
	if err == nil {
		_, err = s.backend.CreateTask(ctx, columnID, content, p)
	}
	if err != nil {
		log.WithError(err).WithField("column", columnID).Warn("failed to add task")
		s.notify("error", "Failed to add task")
		return err
	}
	s.notify("success", "Task added successfully")
	return s.Refresh(ctx)
}

// DeleteTask removes a task and reloads the board.
func (s *Session) DeleteTask(ctx context.Context, id string) error {
	if err := s.backend.DeleteTask(ctx, id); err != nil {
		log.WithError(err).WithField("task", id).Warn("failed to delete task")
		s.notify("error", "Failed to delete task")
		return err
	}
	s.notify("success", "Task deleted successfully")
	return s.Refresh(ctx)
}

// Refresh replaces local state with the backend's board.
func (s *Session) Refresh(ctx context.Context) error {
	b, err := s.backend.FetchBoard(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.board = b
	s.mu.Unlock()
	s.changed(b)
	return nil
}

// Wait blocks until in-flight move writes have finished.
func (s *Session) Wait() {
	s.pending.Wait()
}

func (s *Session) changed(b board.Board) {
	if s.opts.OnChange != nil {
		s.opts.OnChange(b.Clone())
	}
}

func (s *Session) notify(level, msg string) {
	if s.opts.Notify != nil {
		s.opts.Notify(Notification{Level: level, Message: msg})
	}
}
