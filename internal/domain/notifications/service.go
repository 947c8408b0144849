package notifications

import (
	"context"
	"log/slog"
	"time"
)

type Notification struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	store       StoreAPI
	Mailer      Mailer
	DefaultFrom string
}

func New(store StoreAPI, mailer Mailer) *Service {
	return &Service{store: store, Mailer: mailer, DefaultFrom: "no-reply@example.com"}
}

// Notify records an in-app notification and, when a mailer is configured,
// mirrors it to the recipient's email. Failures are logged, never returned;
// notifications never block the operation that triggered them.
func (s *Service) Notify(ctx context.Context, recipientEmployeeID, ntype, title, body string) {
	if recipientEmployeeID == "" {
		return
	}
	if err := s.store.CreateNotification(ctx, recipientEmployeeID, ntype, title, body); err != nil {
		slog.Warn("notification insert failed", "type", ntype, "recipient", recipientEmployeeID, "err", err)
		return
	}

	if s.Mailer == nil {
		return
	}
	email, err := s.store.RecipientEmail(ctx, recipientEmployeeID)
	if err != nil {
		slog.Warn("notification email lookup failed", "err", err)
		return
	}
	if email == "" {
		return
	}
	if err := s.Mailer.Send(ctx, s.DefaultFrom, email, title, body); err != nil {
		slog.Warn("notification email send failed", "err", err)
	}
}

func (s *Service) List(ctx context.Context, recipientEmployeeID string, limit, offset int) ([]Notification, error) {
	return s.store.ListNotifications(ctx, recipientEmployeeID, limit, offset)
}

func (s *Service) CountUnread(ctx context.Context, recipientEmployeeID string) (int, error) {
	return s.store.CountUnread(ctx, recipientEmployeeID)
}

func (s *Service) MarkRead(ctx context.Context, recipientEmployeeID, notificationID string) error {
	return s.store.MarkRead(ctx, recipientEmployeeID, notificationID)
}

func (s *Service) MarkAllRead(ctx context.Context, recipientEmployeeID string) error {
	return s.store.MarkAllRead(ctx, recipientEmployeeID)
}
