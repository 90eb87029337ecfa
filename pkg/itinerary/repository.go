package itinerary

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrVersionConflict is returned by Replace when the stored document has been
// overwritten by another writer since it was loaded.
var ErrVersionConflict = errors.New("itinerary was modified by another writer")

// Repository is a full-document replace store: an itinerary is always written
// as a whole, never patched field by field. Profile preferences use the
// opposite, mergeable style (see pkg/user).
//
// Documents are addressed by a scope key: "user:{id}" for a traveler's
// personal schedule, "trip:{id}" for a shared trip schedule.
type Repository interface {
	// Load returns the stored document for the scope key, or an empty
	// document with version 0 when none exists yet.
	Load(ctx context.Context, scopeKey string) (Document, error)
	// Replace overwrites the whole document if the stored version still equals
	// expectedVersion, and returns the new version. A first write passes
	// expectedVersion 0.
	Replace(ctx context.Context, scopeKey string, events []Event, expectedVersion int64) (int64, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Load(ctx context.Context, scopeKey string) (Document, error) {
	query := `SELECT events, version FROM itineraries WHERE scope_key = ?`
	var eventsJson string
	var version int64
	err := r.db.QueryRowContext(ctx, query, scopeKey).Scan(&eventsJson, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{Events: []Event{}, Version: 0}, nil
	}
	if err != nil {
		err := fmt.Errorf("could not load itinerary: %w", err)
		log.Error(err)
		return Document{}, err
	}

	var events []Event
	if err := json.Unmarshal([]byte(eventsJson), &events); err != nil {
		err := fmt.Errorf("could not decode stored itinerary: %w", err)
		log.Error(err)
		return Document{}, err
	}
	if events == nil {
		events = []Event{}
	}
	return Document{Events: events, Version: version}, nil
}

func (r *RepositoryImpl) Replace(ctx context.Context, scopeKey string, events []Event, expectedVersion int64) (int64, error) {
	if events == nil {
		events = []Event{}
	}
	eventsJson, err := json.Marshal(events)
	if err != nil {
		err := fmt.Errorf("could not encode itinerary: %w", err)
		log.Error(err)
		return 0, err
	}
	now := time.Now().UTC().Format(time.RFC3339)

	query := `UPDATE itineraries SET events = ?, version = version + 1, updated_at = ?
				WHERE scope_key = ? AND version = ?`
	result, err := r.db.ExecContext(ctx, query, string(eventsJson), now, scopeKey, expectedVersion)
	if err != nil {
		err := fmt.Errorf("could not replace itinerary: %w", err)
		log.Error(err)
		return 0, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return 0, err
	}
	if rowsAffected == 1 {
		return expectedVersion + 1, nil
	}

	// No matching row: either the document does not exist yet, or another
	// writer bumped the version.
	if expectedVersion == 0 {
		insert := `INSERT INTO itineraries (scope_key, events, version, updated_at) VALUES (?, ?, 1, ?)`
		if _, err := r.db.ExecContext(ctx, insert, scopeKey, string(eventsJson), now); err != nil {
			// Unique violation means a concurrent first write won.
			log.Warnf("itinerary insert for %q failed: %v", scopeKey, err)
			return 0, ErrVersionConflict
		}
		return 1, nil
	}
	return 0, ErrVersionConflict
}
