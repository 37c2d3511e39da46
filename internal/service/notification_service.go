package service

import (
	"context"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
)

const processedNotificationLimit = 20

// Notifications is the notification page of one user.
type Notifications struct {
	// Pending holds requests waiting on groups the user leads.
	Pending []domain.JoinRequest
	// Processed holds the user's own requests that were answered.
	Processed []domain.JoinRequest
}

// Count is the number of entries shown.
func (n Notifications) Count() int { return len(n.Pending) + len(n.Processed) }

type NotificationService struct {
	store Store
}

func NewNotificationService(store Store) *NotificationService {
	return &NotificationService{store: store}
}

// For builds the notification page for userID.
func (s *NotificationService) For(ctx context.Context, userID uint64) (Notifications, error) {
	pending, err := s.store.PendingForLeader(ctx, userID)
	if err != nil {
		return Notifications{}, err
	}
	processed, err := s.store.ProcessedForUser(ctx, userID, processedNotificationLimit)
	if err != nil {
		return Notifications{}, err
	}
	return Notifications{Pending: pending, Processed: processed}, nil
}
