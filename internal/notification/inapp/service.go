// Package inapp persists and serves in-app staff notifications.
package inapp

import (
	"context"

	"github.com/google/uuid"

	"clinicdesk/platform/logger"
)

const defaultListLimit = 50

// Service provides in-app notification operations.
type Service struct {
	repo *Repository
	log  *logger.Logger
}

// NewService creates a new in-app notification service.
func NewService(repo *Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SendParams describes one notification to record.
type SendParams struct {
	// UserID targets one staff member; nil addresses the whole clinic.
	UserID       *uuid.UUID
	Title        string
	Content      string
	ResourceID   *uuid.UUID
	ResourceType string
	Category     string // "info", "warning", "risk"
}

// Send persists the notification.
func (s *Service) Send(ctx context.Context, p SendParams) error {
	if p.Category == "" {
		p.Category = "info"
	}

	var resourceType *string
	if p.ResourceType != "" {
		resourceType = &p.ResourceType
	}

	_, err := s.repo.Create(ctx, CreateParams{
		UserID:       p.UserID,
		Title:        p.Title,
		Content:      p.Content,
		ResourceID:   p.ResourceID,
		ResourceType: resourceType,
		Category:     p.Category,
	})
	if err != nil {
		s.log.Error("persist_notification_failed", "error", err.Error())
		return err
	}
	return nil
}

// List returns the newest notifications for the user.
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.repo.List(ctx, userID, limit)
}

// CountUnread returns the unread count for the user.
func (s *Service) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead marks one notification as read.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) (Notification, error) {
	return s.repo.MarkRead(ctx, id)
}

// MarkAllRead marks everything visible to the user as read.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
