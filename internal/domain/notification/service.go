package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Service creates notifications and pushes them to connected users
type Service struct {
	repo *Repository
	hub  *Hub
}

// NewService creates notification service
func NewService(repo *Repository, hub *Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

// Notify persists a notification and pushes it over the websocket stream.
// The push is best effort.
func (s *Service) Notify(ctx context.Context, userID int64, ntype, title, body string) (*Notification, error) {
	n := &Notification{
		UserID:    userID,
		Type:      ntype,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if s.hub != nil {
		unread, err := s.repo.CountUnread(ctx, userID)
		if err != nil {
			unread = 0
		}
		payload := map[string]interface{}{
			"type": "notification:new",
			"data": map[string]interface{}{
				"notification": n.ToResponse(),
				"unread_count": unread,
			},
		}
		if err := s.hub.SendToUserJSON(userID, payload); err != nil {
			log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to push notification")
		}
	}
	return n, nil
}
