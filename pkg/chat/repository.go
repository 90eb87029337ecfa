package chat

import (
	"context"
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Append(ctx context.Context, message Message) (Message, error)
	// ListForTrip returns up to limit most recent messages, oldest first.
	ListForTrip(ctx context.Context, tripId string, limit int) ([]Message, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Append(ctx context.Context, message Message) (Message, error) {
	query := `INSERT INTO chat_messages (trip_id, user_id, display_name, body, sent_at) VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		message.TripId, message.UserId, message.DisplayName, message.Body, message.SentAt)
	if err != nil {
		err := fmt.Errorf("could not append chat message: %w", err)
		log.Error(err)
		return Message{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Message{}, err
	}
	message.Id = int(id)
	return message, nil
}

func (r *RepositoryImpl) ListForTrip(ctx context.Context, tripId string, limit int) ([]Message, error) {
	// newest window first, then flipped so the caller renders oldest to newest
	query := `SELECT id, trip_id, user_id, display_name, body, sent_at
				FROM chat_messages WHERE trip_id = ?
				ORDER BY sent_at DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, tripId, limit)
	if err != nil {
		err := fmt.Errorf("could not query chat messages: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var message Message
		if err := rows.Scan(&message.Id, &message.TripId, &message.UserId, &message.DisplayName, &message.Body, &message.SentAt); err != nil {
			err := fmt.Errorf("could not scan chat message: %w", err)
			log.Error(err)
			return nil, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
