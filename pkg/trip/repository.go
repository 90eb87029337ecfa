package trip

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrTripNotFound = errors.New("trip not found")

type Repository interface {
	Create(ctx context.Context, trip Trip) (Trip, error)
	Get(ctx context.Context, tripId string) (Trip, error)
	Update(ctx context.Context, trip Trip) (bool, error)
	Delete(ctx context.Context, tripId string) (bool, error)
	ListForUser(ctx context.Context, userId int) ([]Trip, error)
	AddMember(ctx context.Context, tripId string, member Member) error
	UpdateMemberStatus(ctx context.Context, tripId string, userId int, status MemberStatus) (bool, error)
	RemoveMember(ctx context.Context, tripId string, userId int) (bool, error)
	GetMember(ctx context.Context, tripId string, userId int) (Member, bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, trip Trip) (Trip, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		err := fmt.Errorf("could not begin transaction: %w", err)
		log.Error(err)
		return Trip{}, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	query := `INSERT INTO trips (id, name, destination, start_date, end_date, owner_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query, trip.Id, trip.Name, trip.Destination, trip.StartDate, trip.EndDate, trip.OwnerId, now); err != nil {
		err := fmt.Errorf("could not create trip: %w", err)
		log.Error(err)
		return Trip{}, err
	}

	memberQuery := `INSERT INTO trip_members (trip_id, user_id, role, status) VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, memberQuery, trip.Id, trip.OwnerId, RoleOwner, StatusAccepted); err != nil {
		err := fmt.Errorf("could not add trip owner: %w", err)
		log.Error(err)
		return Trip{}, err
	}

	if err := tx.Commit(); err != nil {
		return Trip{}, err
	}
	trip.Members = []Member{{UserId: trip.OwnerId, Role: RoleOwner, Status: StatusAccepted}}
	return trip, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, tripId string) (Trip, error) {
	query := `SELECT id, name, destination, start_date, end_date, owner_id FROM trips WHERE id = ?`
	var trip Trip
	var startDate, endDate sql.NullString
	err := r.db.QueryRowContext(ctx, query, tripId).Scan(
		&trip.Id,
		&trip.Name,
		&trip.Destination,
		&startDate,
		&endDate,
		&trip.OwnerId,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Trip{}, ErrTripNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not get trip: %w", err)
		log.Error(err)
		return Trip{}, err
	}
	if startDate.Valid {
		trip.StartDate = startDate.String
	}
	if endDate.Valid {
		trip.EndDate = endDate.String
	}

	members, err := r.members(ctx, tripId)
	if err != nil {
		return Trip{}, err
	}
	trip.Members = members
	return trip, nil
}

func (r *RepositoryImpl) members(ctx context.Context, tripId string) ([]Member, error) {
	query := `SELECT user_id, role, status FROM trip_members WHERE trip_id = ?`
	rows, err := r.db.QueryContext(ctx, query, tripId)
	if err != nil {
		err := fmt.Errorf("could not query trip members: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var member Member
		if err := rows.Scan(&member.UserId, &member.Role, &member.Status); err != nil {
			err := fmt.Errorf("could not scan trip member: %w", err)
			log.Error(err)
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, trip Trip) (bool, error) {
	query := `UPDATE trips SET name = ?, destination = ?, start_date = ?, end_date = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, trip.Name, trip.Destination, trip.StartDate, trip.EndDate, trip.Id)
	if err != nil {
		err := fmt.Errorf("could not update trip: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, tripId string) (bool, error) {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trip_members WHERE trip_id = ?`, tripId); err != nil {
		err := fmt.Errorf("could not delete trip members: %w", err)
		log.Error(err)
		return false, err
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, tripId)
	if err != nil {
		err := fmt.Errorf("could not delete trip: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) ListForUser(ctx context.Context, userId int) ([]Trip, error) {
	query := `SELECT t.id, t.name, t.destination, t.start_date, t.end_date, t.owner_id
				FROM trips t JOIN trip_members m ON m.trip_id = t.id
				WHERE m.user_id = ? ORDER BY t.start_date`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query trips: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var trips []Trip
	for rows.Next() {
		var trip Trip
		var startDate, endDate sql.NullString
		if err := rows.Scan(&trip.Id, &trip.Name, &trip.Destination, &startDate, &endDate, &trip.OwnerId); err != nil {
			err := fmt.Errorf("could not scan trip: %w", err)
			log.Error(err)
			return nil, err
		}
		if startDate.Valid {
			trip.StartDate = startDate.String
		}
		if endDate.Valid {
			trip.EndDate = endDate.String
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

func (r *RepositoryImpl) AddMember(ctx context.Context, tripId string, member Member) error {
	query := `INSERT INTO trip_members (trip_id, user_id, role, status) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, tripId, member.UserId, member.Role, member.Status); err != nil {
		err := fmt.Errorf("could not add trip member: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) UpdateMemberStatus(ctx context.Context, tripId string, userId int, status MemberStatus) (bool, error) {
	query := `UPDATE trip_members SET status = ? WHERE trip_id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, status, tripId, userId)
	if err != nil {
		err := fmt.Errorf("could not update member status: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) RemoveMember(ctx context.Context, tripId string, userId int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trip_members WHERE trip_id = ? AND user_id = ?`, tripId, userId)
	if err != nil {
		err := fmt.Errorf("could not remove trip member: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) GetMember(ctx context.Context, tripId string, userId int) (Member, bool, error) {
	query := `SELECT user_id, role, status FROM trip_members WHERE trip_id = ? AND user_id = ?`
	var member Member
	err := r.db.QueryRowContext(ctx, query, tripId, userId).Scan(&member.UserId, &member.Role, &member.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return Member{}, false, nil
	}
	if err != nil {
		err := fmt.Errorf("could not get trip member: %w", err)
		log.Error(err)
		return Member{}, false, err
	}
	return member, true, nil
}
