package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wayfare/wayfare/internal/utils"
	"github.com/wayfare/wayfare/pkg/user"
)

var (
	ErrValidation = errors.New("invalid message")
	ErrNotMember  = errors.New("user is not a trip member")
)

const defaultHistoryLimit = 100

// TripAccess reports whether the user is an accepted member of the trip.
// Implemented by the trip feature.
type TripAccess interface {
	CanAccess(ctx context.Context, userId int, tripId string) (bool, error)
}

type Service interface {
	History(ctx context.Context, tripId string, limit int) ([]Message, error)
	// Post stores the message and pushes it to every open connection in the
	// trip's room.
	Post(ctx context.Context, tripId string, body string) (Message, error)
}

type ServiceImpl struct {
	repo        Repository
	tripAccess  TripAccess
	broadcaster Broadcaster
	clock       utils.Clock
}

func NewService(repo Repository, tripAccess TripAccess, broadcaster Broadcaster, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{
		repo:        repo,
		tripAccess:  tripAccess,
		broadcaster: broadcaster,
		clock:       clock,
	}
}

func (s *ServiceImpl) checkMembership(ctx context.Context, tripId string) error {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	ok, err := s.tripAccess.CanAccess(ctx, currentUserId, tripId)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMember
	}
	return nil
}

func (s *ServiceImpl) History(ctx context.Context, tripId string, limit int) ([]Message, error) {
	if err := s.checkMembership(ctx, tripId); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.repo.ListForTrip(ctx, tripId, limit)
}

func (s *ServiceImpl) Post(ctx context.Context, tripId string, body string) (Message, error) {
	if body == "" {
		return Message{}, fmt.Errorf("%w: body is required", ErrValidation)
	}
	if err := s.checkMembership(ctx, tripId); err != nil {
		return Message{}, err
	}
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return Message{}, fmt.Errorf("failed to get current user: %w", err)
	}

	displayName := currentUser.DisplayName
	if displayName == "" {
		displayName = currentUser.Username
	}
	message, err := s.repo.Append(ctx, Message{
		TripId:      tripId,
		UserId:      currentUser.Id,
		DisplayName: displayName,
		Body:        body,
		SentAt:      s.clock.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return Message{}, err
	}

	if s.broadcaster != nil {
		payload, err := json.Marshal(messageToDTO(message))
		if err != nil {
			log.Warnf("Failed to encode chat message for broadcast: %v", err)
		} else {
			s.broadcaster.Broadcast(tripId, payload)
		}
	}
	return message, nil
}
