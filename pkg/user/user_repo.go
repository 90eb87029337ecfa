package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user not found")

type Repo interface {
	CreateUser(ctx context.Context, user User) (int, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	UpdateUser(ctx context.Context, userId int, user User) (User, error)
	// UpdateSettings applies a field-level upsert: only non-nil patch fields
	// are written.
	UpdateSettings(ctx context.Context, userId int, patch SettingsPatch) error
	DeleteUser(ctx context.Context, id int) error
	GetAllUsers(ctx context.Context) ([]User, error)
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)
}

type RepoImpl struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

const userColumns = `id, uid, username, display_name, home_currency, timezone,
	notify_booking_email, notify_booking_push, google_calendar_id`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var user User
	var notifyEmail, notifyPush sql.NullBool
	var googleCalendarId sql.NullString
	err := row.Scan(
		&user.Id,
		&user.Uid,
		&user.Username,
		&user.DisplayName,
		&user.Settings.HomeCurrency,
		&user.Settings.Timezone,
		&notifyEmail,
		&notifyPush,
		&googleCalendarId,
	)
	if err != nil {
		return User{}, err
	}
	if notifyEmail.Valid {
		user.Settings.Notifications.BookingEmail = &notifyEmail.Bool
	}
	if notifyPush.Valid {
		user.Settings.Notifications.BookingPush = &notifyPush.Bool
	}
	if googleCalendarId.Valid {
		user.Settings.GoogleCalendarId = googleCalendarId.String
	}
	return user, nil
}

func (r *RepoImpl) CreateUser(ctx context.Context, user User) (int, error) {
	homeCurrency := user.Settings.HomeCurrency
	if homeCurrency == "" {
		homeCurrency = "USD"
	}
	timezone := user.Settings.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	query := `INSERT INTO users (uid, username, display_name, home_currency, timezone) VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, user.Uid, user.Username, user.DisplayName, homeCurrency, timezone)
	if err != nil {
		err := fmt.Errorf("could not create user: %w", err)
		log.Error(err)
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(id), nil
}

func (r *RepoImpl) GetUser(ctx context.Context, id int) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not get user: %w", err)
		log.Error(err)
		return User{}, err
	}
	return user, nil
}

func (r *RepoImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = ?`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, uid))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugf("user with uid %s not found", uid)
		return User{}, ErrUserNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not get user: %w", err)
		log.Error(err)
		return User{}, err
	}
	return user, nil
}

func (r *RepoImpl) UpdateUser(ctx context.Context, userId int, user User) (User, error) {
	query := `UPDATE users SET display_name = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, user.DisplayName, userId)
	if err != nil {
		err := fmt.Errorf("could not update user: %w", err)
		log.Error(err)
		return User{}, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return User{}, err
	}
	if rowsAffected == 0 {
		return User{}, ErrUserNotFound
	}
	return r.GetUser(ctx, userId)
}

func (r *RepoImpl) UpdateSettings(ctx context.Context, userId int, patch SettingsPatch) error {
	var assignments []string
	var args []any
	if patch.HomeCurrency != nil {
		assignments = append(assignments, "home_currency = ?")
		args = append(args, *patch.HomeCurrency)
	}
	if patch.Timezone != nil {
		assignments = append(assignments, "timezone = ?")
		args = append(args, *patch.Timezone)
	}
	if patch.BookingEmail != nil {
		assignments = append(assignments, "notify_booking_email = ?")
		args = append(args, *patch.BookingEmail)
	}
	if patch.BookingPush != nil {
		assignments = append(assignments, "notify_booking_push = ?")
		args = append(args, *patch.BookingPush)
	}
	if patch.GoogleCalendarId != nil {
		assignments = append(assignments, "google_calendar_id = ?")
		args = append(args, *patch.GoogleCalendarId)
	}
	if len(assignments) == 0 {
		return nil
	}
	args = append(args, userId)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = ?", strings.Join(assignments, ", "))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not update settings: %w", err)
		log.Error(err)
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *RepoImpl) DeleteUser(ctx context.Context, id int) error {
	query := `DELETE FROM users WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		err := fmt.Errorf("could not delete user: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query users: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			err := fmt.Errorf("could not scan user: %w", err)
			log.Error(err)
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *RepoImpl) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE username = ?`
	var count int
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&count); err != nil {
		err := fmt.Errorf("could not check username: %w", err)
		log.Error(err)
		return false, err
	}
	return count == 0, nil
}
