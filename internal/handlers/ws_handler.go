package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"admin-dashboard-api/internal/board"
	"admin-dashboard-api/internal/kanban"
	"admin-dashboard-api/internal/metrics"
	"admin-dashboard-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// wsClient implements realtime.Client by wrapping a websocket connection.
// Writes come from the reader loop, background persistence and the hub, so
// they are serialized.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) Send(message []byte) bool {
	if c == nil || c.conn == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteMessage(websocket.TextMessage, message) == nil
}

func (c *wsClient) sendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).Error("failed to marshal websocket message")
		return
	}
	c.Send(data)
}

func (c *wsClient) Close() {
	if c != nil && c.conn != nil {
		_ = c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is already handled at Gin level; allow upgrade from any origin here
		return true
	},
}

// wsInbound is a message from the board UI.
type wsInbound struct {
	Type     string            `json:"type"`
	Drag     *board.DragResult `json:"drag,omitempty"`
	ColumnID string            `json:"columnId,omitempty"`
	Content  string            `json:"content,omitempty"`
	Priority string            `json:"priority,omitempty"`
	TaskID   string            `json:"taskId,omitempty"`
}

type wsBoard struct {
	Type  string      `json:"type"`
	Board board.Board `json:"board"`
}

type wsToast struct {
	Type string `json:"type"`
	kanban.Notification
}

// WebSocket upgrades the connection and runs a board session over it.
// GET /api/ws
// Each inbound event is handled before the next is read; move writes happen
// in the background and report back through toasts and board pushes.
func (h *KanbanHandler) WebSocket(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.WithError(err).Warn("websocket upgrade error")
			return
		}
		client := &wsClient{conn: conn}
		defer client.Close()

		ctx := c.Request.Context()
		session, err := kanban.OpenSession(ctx, h.svc, kanban.SessionOptions{
			PersistTimeout: h.persistTimeout,
			OnChange:       func(b board.Board) { client.sendJSON(wsBoard{Type: "board", Board: b}) },
			Notify:         func(n kanban.Notification) { client.sendJSON(wsToast{Type: "toast", Notification: n}) },
		})
		if err != nil {
			log.WithError(err).WithField("user", userID).Error("failed to open board session")
			client.sendJSON(wsToast{Type: "toast", Notification: kanban.Notification{Level: "error", Message: "Failed to load board"}})
			return
		}
		client.sendJSON(wsBoard{Type: "board", Board: session.Board()})

		hub.Register(realtime.BoardTopic, client)
		metrics.WSConnected()

		// Heartbeat: send periodic pings; close on error
		pingTicker := time.NewTicker(30 * time.Second)
		done := make(chan struct{})
		go func() {
			for {
				select {
				case <-done:
					return
				case <-pingTicker.C:
					if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
						return
					}
				}
			}
		}()
		defer func() {
			close(done)
			pingTicker.Stop()
			hub.Unregister(realtime.BoardTopic, client)
			metrics.WSDisconnected()
			session.Wait()
		}()

		conn.SetReadLimit(8192)
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		for {
			var msg wsInbound
			if err := conn.ReadJSON(&msg); err != nil {
				var syntaxErr *json.SyntaxError
				var typeErr *json.UnmarshalTypeError
				if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
					client.sendJSON(wsToast{Type: "toast", Notification: kanban.Notification{Level: "error", Message: "Malformed message"}})
					continue
				}
				// Normal close or error; exit loop
				return
			}
			h.handleInbound(c, session, client, msg)
		}
	}
}

func (h *KanbanHandler) handleInbound(c *gin.Context, session *kanban.Session, client *wsClient, msg wsInbound) {
	ctx := c.Request.Context()
	switch msg.Type {
	case "drag_end":
		if msg.Drag == nil {
			return
		}
		if _, err := session.DragEnd(*msg.Drag); err != nil {
			log.WithError(err).WithField("task", msg.Drag.TaskID).Warn("rejected drag from stale board")
			client.sendJSON(wsToast{Type: "toast", Notification: kanban.Notification{Level: "error", Message: "Board is out of date, reloading"}})
			if err := session.Refresh(ctx); err != nil {
				log.WithError(err).Error("failed to reload board")
			}
		}
	case "add_task":
		// failures reach the client as a toast from the session
		_ = session.AddTask(ctx, msg.ColumnID, msg.Content, msg.Priority)
	case "delete_task":
		// same as add_task: the session toasts on error
		_ = session.DeleteTask(ctx, msg.TaskID)
	case "refresh":
		if err := session.Refresh(ctx); err != nil {
			client.sendJSON(wsToast{Type: "toast", Notification: kanban.Notification{Level: "error", Message: "Failed to load board"}})
		}
	default:
		client.sendJSON(wsToast{Type: "toast", Notification: kanban.Notification{Level: "error", Message: "Unknown message type"}})
	}
}
