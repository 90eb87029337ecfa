package trip

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wayfare/wayfare/pkg/user"
)

var (
	ErrValidation   = errors.New("invalid trip")
	ErrNotMember    = errors.New("user is not a trip member")
	ErrNotOwner     = errors.New("only the trip owner may do this")
	ErrAlreadyAdded = errors.New("user is already a trip member")
)

type Service interface {
	CreateTrip(ctx context.Context, trip Trip) (Trip, error)
	GetTrip(ctx context.Context, tripId string) (Trip, error)
	UpdateTrip(ctx context.Context, trip Trip) (Trip, error)
	DeleteTrip(ctx context.Context, tripId string) error
	ListTrips(ctx context.Context) ([]Trip, error)
	Invite(ctx context.Context, tripId string, userId int) error
	RespondToInvite(ctx context.Context, tripId string, accept bool) error
	LeaveTrip(ctx context.Context, tripId string) error
	CanAccess(ctx context.Context, userId int, tripId string) (bool, error)
	AcceptedMemberIds(ctx context.Context, tripId string) ([]int, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) CreateTrip(ctx context.Context, trip Trip) (Trip, error) {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return Trip{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if trip.Name == "" {
		return Trip{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	trip.Id = uuid.NewString()
	trip.OwnerId = currentUserId
	return s.repo.Create(ctx, trip)
}

func (s *ServiceImpl) GetTrip(ctx context.Context, tripId string) (Trip, error) {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return Trip{}, fmt.Errorf("failed to get current user: %w", err)
	}
	trip, err := s.repo.Get(ctx, tripId)
	if err != nil {
		return Trip{}, err
	}
	if !isMember(trip, currentUserId) {
		return Trip{}, ErrNotMember
	}
	return trip, nil
}

func (s *ServiceImpl) UpdateTrip(ctx context.Context, trip Trip) (Trip, error) {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return Trip{}, fmt.Errorf("failed to get current user: %w", err)
	}
	stored, err := s.repo.Get(ctx, trip.Id)
	if err != nil {
		return Trip{}, err
	}
	if stored.OwnerId != currentUserId {
		return Trip{}, ErrNotOwner
	}
	if trip.Name == "" {
		return Trip{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	updated, err := s.repo.Update(ctx, trip)
	if err != nil {
		return Trip{}, err
	}
	if !updated {
		return Trip{}, ErrTripNotFound
	}
	return s.repo.Get(ctx, trip.Id)
}

func (s *ServiceImpl) DeleteTrip(ctx context.Context, tripId string) error {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	stored, err := s.repo.Get(ctx, tripId)
	if err != nil {
		return err
	}
	if stored.OwnerId != currentUserId {
		return ErrNotOwner
	}
	deleted, err := s.repo.Delete(ctx, tripId)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTripNotFound
	}
	return nil
}

func (s *ServiceImpl) ListTrips(ctx context.Context) ([]Trip, error) {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListForUser(ctx, currentUserId)
}

func (s *ServiceImpl) Invite(ctx context.Context, tripId string, userId int) error {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	stored, err := s.repo.Get(ctx, tripId)
	if err != nil {
		return err
	}
	if stored.OwnerId != currentUserId {
		return ErrNotOwner
	}
	if _, exists, err := s.repo.GetMember(ctx, tripId, userId); err != nil {
		return err
	} else if exists {
		return ErrAlreadyAdded
	}
	return s.repo.AddMember(ctx, tripId, Member{UserId: userId, Role: RoleMember, Status: StatusInvited})
}

func (s *ServiceImpl) RespondToInvite(ctx context.Context, tripId string, accept bool) error {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	member, exists, err := s.repo.GetMember(ctx, tripId, currentUserId)
	if err != nil {
		return err
	}
	if !exists || member.Status != StatusInvited {
		return ErrNotMember
	}
	if !accept {
		_, err := s.repo.RemoveMember(ctx, tripId, currentUserId)
		return err
	}
	updated, err := s.repo.UpdateMemberStatus(ctx, tripId, currentUserId, StatusAccepted)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotMember
	}
	return nil
}

func (s *ServiceImpl) LeaveTrip(ctx context.Context, tripId string) error {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	stored, err := s.repo.Get(ctx, tripId)
	if err != nil {
		return err
	}
	if stored.OwnerId == currentUserId {
		return ErrNotOwner
	}
	removed, err := s.repo.RemoveMember(ctx, tripId, currentUserId)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotMember
	}
	return nil
}

// CanAccess reports whether the user is an accepted member of the trip.
// Invited users see the trip in their list but not its itinerary.
func (s *ServiceImpl) CanAccess(ctx context.Context, userId int, tripId string) (bool, error) {
	member, exists, err := s.repo.GetMember(ctx, tripId, userId)
	if err != nil {
		return false, err
	}
	return exists && member.Status == StatusAccepted, nil
}

// AcceptedMemberIds lists the users who accepted their invite, owner included.
func (s *ServiceImpl) AcceptedMemberIds(ctx context.Context, tripId string) ([]int, error) {
	stored, err := s.repo.Get(ctx, tripId)
	if err != nil {
		return nil, err
	}
	var ids []int
	for _, member := range stored.Members {
		if member.Status == StatusAccepted {
			ids = append(ids, member.UserId)
		}
	}
	return ids, nil
}

func isMember(trip Trip, userId int) bool {
	for _, member := range trip.Members {
		if member.UserId == userId {
			return true
		}
	}
	return false
}
