package notification

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/barberqueue/barberqueue-api/internal/middleware"
	"github.com/barberqueue/barberqueue-api/internal/pkg/errorhandler"
	"github.com/barberqueue/barberqueue-api/internal/pkg/response"
)

// WebSocket constants
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Handler handles notification HTTP requests
type Handler struct {
	repo     *Repository
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler creates notification handler
func NewHandler(repo *Repository, hub *Hub, allowedOrigins []string) *Handler {
	return &Handler{
		repo: repo,
		hub:  hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(allowedOrigins) == 0 {
					return true
				}
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				log.Warn().Str("origin", origin).Msg("WebSocket origin rejected")
				return false
			},
		},
	}
}

// List handles GET /notifications?page&limit
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	page, limit := pageParams(r)
	offset := (page - 1) * limit

	notifications, err := h.repo.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "NOTIFICATION_LIST_FAILED", "Failed to list notifications", err)
		return
	}

	total, err := h.repo.CountByUser(r.Context(), userID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "NOTIFICATION_COUNT_FAILED", "Failed to count notifications", err)
		return
	}

	items := make([]*NotificationResponse, len(notifications))
	for i := range notifications {
		items[i] = notifications[i].ToResponse()
	}

	response.WithMeta(w, items, response.NewMeta(total, page, limit))
}

// MarkRead handles POST /notifications/{id}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid notification id")
		return
	}

	if err := h.repo.MarkRead(r.Context(), id, middleware.GetUserID(r.Context())); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Notification not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "NOTIFICATION_READ_FAILED", "Failed to mark notification read", err)
		return
	}

	response.OK(w, map[string]bool{"read": true})
}

// MarkAllRead handles POST /notifications/read-all
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.MarkAllRead(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "NOTIFICATION_READ_FAILED", "Failed to mark notifications read", err)
		return
	}

	response.OK(w, map[string]bool{"read": true})
}

// UnreadCount handles GET /notifications/unread-count
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.repo.CountUnread(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "NOTIFICATION_COUNT_FAILED", "Failed to count unread notifications", err)
		return
	}

	response.OK(w, map[string]int{"unread_count": count})
}

// HandleWebSocket handles GET /ws, upgrading to the notification stream
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &Connection{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 64),
	}
	h.hub.Register(client)

	go h.wsReader(client)
	go h.wsWriter(client)
}

// wsReader drains the connection. Clients do not send application messages
// on this stream; reading keeps pong handling alive and detects disconnects.
func (h *Handler) wsReader(client *Connection) {
	defer func() {
		h.hub.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(1024)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Int64("user_id", client.UserID).Msg("WebSocket read error")
			}
			return
		}
	}
}

func (h *Handler) wsWriter(client *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func pageParams(r *http.Request) (page, limit int) {
	page, limit = 1, 20
	q := r.URL.Query()
	if p := q.Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	return page, limit
}
