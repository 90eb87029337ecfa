package notification

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/wayfare/wayfare/internal/bus"
	"github.com/wayfare/wayfare/pkg/itinerary"
	"github.com/wayfare/wayfare/pkg/user"
)

type Service interface {
	List(ctx context.Context, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, notificationId int) error
}

// TripMembers lists the accepted members of a trip. Implemented by the trip
// feature.
type TripMembers interface {
	AcceptedMemberIds(ctx context.Context, tripId string) ([]int, error)
}

type ServiceImpl struct {
	repo        Repository
	userService user.Service
	tripMembers TripMembers
}

func NewService(repo Repository, userService user.Service, tripMembers TripMembers) *ServiceImpl {
	return &ServiceImpl{repo: repo, userService: userService, tripMembers: tripMembers}
}

// SubscribeToBookings registers the booking-confirmed handler on the bus and
// returns the unsubscribe function.
func (s *ServiceImpl) SubscribeToBookings(eventBus *bus.Bus) func() {
	return eventBus.Subscribe(bus.TopicBookingConfirmed, s.onBookingConfirmed)
}

func (s *ServiceImpl) onBookingConfirmed(event bus.Event) error {
	confirmed, ok := event.Data.(bus.BookingConfirmed)
	if !ok {
		return fmt.Errorf("unexpected payload type %T for %s", event.Data, event.Topic)
	}
	ctx := event.Context()

	recipients := []int{confirmed.UserId}
	if s.tripMembers != nil && confirmed.Scope != itinerary.ScopeMain {
		memberIds, err := s.tripMembers.AcceptedMemberIds(ctx, confirmed.Scope)
		if err != nil {
			log.Warnf("Failed to list members of trip %s for notification fan-out: %v", confirmed.Scope, err)
		}
		for _, memberId := range memberIds {
			if memberId != confirmed.UserId {
				recipients = append(recipients, memberId)
			}
		}
	}

	for _, recipientId := range recipients {
		if s.pushDisabled(ctx, recipientId) {
			log.Debugf("booking notification suppressed for user %d", recipientId)
			continue
		}
		_, err := s.repo.Create(ctx, Notification{
			UserId: recipientId,
			Kind:   KindBookingConfirmed,
			Title:  "Booking added to your itinerary",
			Body:   fmt.Sprintf("%s (%.2f) is now on your schedule.", confirmed.Summary, confirmed.Total),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Preferences are opt-out: only an explicit false suppresses the
// notification, an unset preference still sends it.
func (s *ServiceImpl) pushDisabled(ctx context.Context, userId int) bool {
	recipient, err := s.userService.GetUser(ctx, userId)
	if err != nil {
		return false
	}
	pref := recipient.Settings.Notifications.BookingPush
	return pref != nil && !*pref
}

func (s *ServiceImpl) List(ctx context.Context, unreadOnly bool) ([]Notification, error) {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	notifications, err := s.repo.ListForUser(ctx, currentUserId, unreadOnly)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []Notification{}
	}
	return notifications, nil
}

func (s *ServiceImpl) MarkRead(ctx context.Context, notificationId int) error {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	marked, err := s.repo.MarkRead(ctx, currentUserId, notificationId)
	if err != nil {
		return err
	}
	if !marked {
		return fmt.Errorf("notification %d not found or already read", notificationId)
	}
	return nil
}
