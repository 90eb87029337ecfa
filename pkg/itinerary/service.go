package itinerary

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/wayfare/wayfare/internal/bus"
	"github.com/wayfare/wayfare/pkg/user"
)

var (
	ErrValidation   = errors.New("invalid event")
	ErrNotFound     = errors.New("event not found")
	ErrScopeDenied  = errors.New("no access to this trip itinerary")
	ErrUnknownScope = errors.New("unknown scope")
)

// TripAccess reports whether the user is an accepted member of the trip. It
// is implemented by the trip feature and injected to avoid a package cycle.
type TripAccess interface {
	CanAccess(ctx context.Context, userId int, tripId string) (bool, error)
}

type Service interface {
	// GetSchedule returns the day-grouped view of the scope's itinerary,
	// loading it into the session on first access. Loading never triggers a
	// save by itself.
	GetSchedule(ctx context.Context, scope string) (Schedule, error)
	AddEvent(ctx context.Context, scope string, event Event) (Event, error)
	RemoveEvent(ctx context.Context, scope string, eventId string) error
	// MergeEvents appends events whose ids are not present yet and reports
	// how many were added. Booking-derived events carry deterministic ids, so
	// re-adding the same booking is a no-op.
	MergeEvents(ctx context.Context, scope string, events []Event) (int, error)
	AddFlightBooking(ctx context.Context, scope string, booking FlightBooking) (int, error)
	AddHotelBooking(ctx context.Context, scope string, booking HotelBooking) (int, error)
	// Flush persists any pending debounced save for the scope immediately.
	Flush(ctx context.Context, scope string) error
	// Leave drops the in-memory session for the scope and cancels its pending
	// save without firing it.
	Leave(ctx context.Context, scope string) error
}

type session struct {
	events  []Event
	version int64
}

type ServiceImpl struct {
	repo        Repository
	tripAccess  TripAccess
	eventBus    *bus.Bus
	coordinator *Coordinator

	mu       sync.Mutex
	sessions map[string]*session
}

func NewService(repo Repository, tripAccess TripAccess, eventBus *bus.Bus, saveDelay time.Duration) *ServiceImpl {
	s := &ServiceImpl{
		repo:       repo,
		tripAccess: tripAccess,
		eventBus:   eventBus,
		sessions:   make(map[string]*session),
	}
	s.coordinator = NewCoordinator(saveDelay, s.persist)
	return s
}

// storageKey maps a (traveler, scope) pair to the document address: personal
// schedules live under the user, shared trip schedules under the trip so all
// accepted members edit the same document.
func storageKey(userId int, scope string) string {
	if scope == ScopeMain {
		return fmt.Sprintf("user:%d", userId)
	}
	return "trip:" + scope
}

func (s *ServiceImpl) checkScope(ctx context.Context, userId int, scope string) error {
	if scope == "" {
		return ErrUnknownScope
	}
	if scope == ScopeMain {
		return nil
	}
	if s.tripAccess == nil {
		return ErrScopeDenied
	}
	ok, err := s.tripAccess.CanAccess(ctx, userId, scope)
	if err != nil {
		return fmt.Errorf("failed to check trip access: %w", err)
	}
	if !ok {
		return ErrScopeDenied
	}
	return nil
}

// loadSession returns the in-memory session for the scope, reading the stored
// document on first access.
func (s *ServiceImpl) loadSession(ctx context.Context, userId int, scope string) (*session, error) {
	key := saveKey(userId, scope)
	s.mu.Lock()
	if sess, ok := s.sessions[key]; ok {
		s.mu.Unlock()
		return sess, nil
	}
	s.mu.Unlock()

	doc, err := s.repo.Load(ctx, storageKey(userId, scope))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[key]; ok {
		return sess, nil
	}
	sess := &session{events: doc.Events, version: doc.Version}
	s.sessions[key] = sess
	return sess, nil
}

func (s *ServiceImpl) GetSchedule(ctx context.Context, scope string) (Schedule, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Schedule{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := s.checkScope(ctx, userId, scope); err != nil {
		return Schedule{}, err
	}
	sess, err := s.loadSession(ctx, userId, scope)
	if err != nil {
		return Schedule{}, err
	}
	s.mu.Lock()
	events := make([]Event, len(sess.events))
	copy(events, sess.events)
	s.mu.Unlock()
	return Group(events), nil
}

func validateEvent(event Event) error {
	if event.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if event.Cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", ErrValidation)
	}
	if _, err := time.Parse("2006-01-02", event.Date); err != nil {
		return fmt.Errorf("%w: date must be an ISO date", ErrValidation)
	}
	if _, err := time.Parse("15:04", event.Time); err != nil {
		return fmt.Errorf("%w: time must be HH:MM", ErrValidation)
	}
	return nil
}

func (s *ServiceImpl) AddEvent(ctx context.Context, scope string, event Event) (Event, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Event{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := s.checkScope(ctx, userId, scope); err != nil {
		return Event{}, err
	}
	// Rejected before any state is mutated; no partial event is ever created.
	if err := validateEvent(event); err != nil {
		return Event{}, err
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Type == "" {
		event.Type = EventTypeManual
	}
	if event.Category == "" && event.Type == EventTypeManual {
		event.Category = "Custom Event"
	}

	sess, err := s.loadSession(ctx, userId, scope)
	if err != nil {
		return Event{}, err
	}
	s.mu.Lock()
	sess.events = append(sess.events, event)
	snapshot := make([]Event, len(sess.events))
	copy(snapshot, sess.events)
	s.mu.Unlock()

	s.coordinator.Schedule(ctx, userId, scope, snapshot)
	return event, nil
}

func (s *ServiceImpl) RemoveEvent(ctx context.Context, scope string, eventId string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	if err := s.checkScope(ctx, userId, scope); err != nil {
		return err
	}
	sess, err := s.loadSession(ctx, userId, scope)
	if err != nil {
		return err
	}

	s.mu.Lock()
	found := false
	kept := sess.events[:0]
	for _, e := range sess.events {
		if e.ID == eventId {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	sess.events = kept
	snapshot := make([]Event, len(sess.events))
	copy(snapshot, sess.events)
	s.mu.Unlock()

	if !found {
		return ErrNotFound
	}
	s.coordinator.Schedule(ctx, userId, scope, snapshot)
	return nil
}

func (s *ServiceImpl) MergeEvents(ctx context.Context, scope string, events []Event) (int, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := s.checkScope(ctx, userId, scope); err != nil {
		return 0, err
	}
	sess, err := s.loadSession(ctx, userId, scope)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	existing := make(map[string]struct{}, len(sess.events))
	for _, e := range sess.events {
		existing[e.ID] = struct{}{}
	}
	added := 0
	for _, e := range events {
		if _, dup := existing[e.ID]; dup {
			log.Debugf("skipping duplicate itinerary event %s", e.ID)
			continue
		}
		existing[e.ID] = struct{}{}
		sess.events = append(sess.events, e)
		added++
	}
	snapshot := make([]Event, len(sess.events))
	copy(snapshot, sess.events)
	s.mu.Unlock()

	if added > 0 {
		s.coordinator.Schedule(ctx, userId, scope, snapshot)
	}
	return added, nil
}

func (s *ServiceImpl) AddFlightBooking(ctx context.Context, scope string, booking FlightBooking) (int, error) {
	return s.MergeEvents(ctx, scope, FlightEvents(booking))
}

func (s *ServiceImpl) AddHotelBooking(ctx context.Context, scope string, booking HotelBooking) (int, error) {
	return s.MergeEvents(ctx, scope, []Event{HotelEvent(booking)})
}

func (s *ServiceImpl) Flush(ctx context.Context, scope string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	s.coordinator.Flush(userId, scope)
	return nil
}

func (s *ServiceImpl) Leave(ctx context.Context, scope string) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	s.coordinator.Cancel(userId, scope)
	s.mu.Lock()
	delete(s.sessions, saveKey(userId, scope))
	s.mu.Unlock()
	return nil
}

// persist is the coordinator's SaveFunc: a full overwrite of the stored
// document, conditional on the version the session last saw. On a version
// conflict the remote version is reloaded and the overwrite retried once with
// the local state, which stays the source of truth.
func (s *ServiceImpl) persist(ctx context.Context, userId int, scope string, events []Event) error {
	key := saveKey(userId, scope)
	s.mu.Lock()
	var version int64
	if sess, ok := s.sessions[key]; ok {
		version = sess.version
	}
	s.mu.Unlock()

	docKey := storageKey(userId, scope)
	newVersion, err := s.repo.Replace(ctx, docKey, events, version)
	if errors.Is(err, ErrVersionConflict) {
		log.Warnf("itinerary version conflict for %q, retrying with remote version", docKey)
		doc, loadErr := s.repo.Load(ctx, docKey)
		if loadErr != nil {
			return loadErr
		}
		newVersion, err = s.repo.Replace(ctx, docKey, events, doc.Version)
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	if sess, ok := s.sessions[key]; ok {
		sess.version = newVersion
	}
	s.mu.Unlock()

	if s.eventBus != nil {
		saveEvent := bus.NewEvent(ctx, bus.TopicItinerarySaved, bus.ItinerarySaved{
			UserId:     userId,
			Scope:      scope,
			EventCount: len(events),
			Version:    newVersion,
		})
		if err := s.eventBus.Publish(saveEvent); err != nil {
			log.Warnf("itinerary saved event handlers failed: %v", err)
		}
	}
	return nil
}
