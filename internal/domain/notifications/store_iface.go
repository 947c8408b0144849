package notifications

import "context"

type StoreAPI interface {
	CreateNotification(ctx context.Context, recipientEmployeeID, ntype, title, body string) error
	RecipientEmail(ctx context.Context, employeeID string) (string, error)
	ListNotifications(ctx context.Context, recipientEmployeeID string, limit, offset int) ([]Notification, error)
	CountUnread(ctx context.Context, recipientEmployeeID string) (int, error)
	MarkRead(ctx context.Context, recipientEmployeeID, notificationID string) error
	MarkAllRead(ctx context.Context, recipientEmployeeID string) error
}
