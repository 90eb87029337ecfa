package notification

import (
	"context"
	"time"
)

type RepositoryStub struct {
	nextId        int
	notifications []Notification
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{}
}

func (s *RepositoryStub) Create(ctx context.Context, notification Notification) (Notification, error) {
	s.nextId++
	notification.Id = s.nextId
	if notification.CreatedAt == "" {
		notification.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	s.notifications = append(s.notifications, notification)
	return notification, nil
}

func (s *RepositoryStub) ListForUser(ctx context.Context, userId int, unreadOnly bool) ([]Notification, error) {
	var matches []Notification
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.UserId != userId {
			continue
		}
		if unreadOnly && n.ReadAt != "" {
			continue
		}
		matches = append(matches, n)
	}
	return matches, nil
}

func (s *RepositoryStub) MarkRead(ctx context.Context, userId int, notificationId int) (bool, error) {
	for i, n := range s.notifications {
		if n.Id == notificationId && n.UserId == userId && n.ReadAt == "" {
			s.notifications[i].ReadAt = time.Now().UTC().Format(time.RFC3339)
			return true, nil
		}
	}
	return false, nil
}

func (s *RepositoryStub) Cleanup() {
	s.notifications = nil
	s.nextId = 0
}
