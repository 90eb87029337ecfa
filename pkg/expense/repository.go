package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrExpenseNotFound = errors.New("expense not found")

type Repository interface {
	Create(ctx context.Context, expense Expense) (Expense, error)
	Get(ctx context.Context, expenseId int) (Expense, error)
	ListPersonal(ctx context.Context, userId int) ([]Expense, error)
	ListForTrip(ctx context.Context, tripId string) ([]Expense, error)
	Delete(ctx context.Context, expenseId int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, expense Expense) (Expense, error) {
	query := `INSERT INTO expenses (user_id, trip_id, name, amount, currency, category, spent_on, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC().Format(time.RFC3339)
	result, err := r.db.ExecContext(ctx, query,
		expense.UserId, expense.TripId, expense.Name, expense.Amount, expense.Currency, expense.Category, expense.SpentOn, now)
	if err != nil {
		err := fmt.Errorf("could not create expense: %w", err)
		log.Error(err)
		return Expense{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Expense{}, err
	}
	expense.Id = int(id)
	return expense, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, expenseId int) (Expense, error) {
	query := `SELECT id, user_id, trip_id, name, amount, currency, category, spent_on FROM expenses WHERE id = ?`
	expense, err := scanExpense(r.db.QueryRowContext(ctx, query, expenseId))
	if errors.Is(err, sql.ErrNoRows) {
		return Expense{}, ErrExpenseNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not get expense: %w", err)
		log.Error(err)
		return Expense{}, err
	}
	return expense, nil
}

func (r *RepositoryImpl) ListPersonal(ctx context.Context, userId int) ([]Expense, error) {
	query := `SELECT id, user_id, trip_id, name, amount, currency, category, spent_on
				FROM expenses WHERE user_id = ? AND (trip_id IS NULL OR trip_id = '') ORDER BY spent_on, id`
	return r.list(ctx, query, userId)
}

func (r *RepositoryImpl) ListForTrip(ctx context.Context, tripId string) ([]Expense, error) {
	query := `SELECT id, user_id, trip_id, name, amount, currency, category, spent_on
				FROM expenses WHERE trip_id = ? ORDER BY spent_on, id`
	return r.list(ctx, query, tripId)
}

func (r *RepositoryImpl) list(ctx context.Context, query string, arg any) ([]Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		err := fmt.Errorf("could not query expenses: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			err := fmt.Errorf("could not scan expense: %w", err)
			log.Error(err)
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func (r *RepositoryImpl) Delete(ctx context.Context, expenseId int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, expenseId)
	if err != nil {
		err := fmt.Errorf("could not delete expense: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (Expense, error) {
	var expense Expense
	var tripId sql.NullString
	err := row.Scan(&expense.Id, &expense.UserId, &tripId, &expense.Name, &expense.Amount,
		&expense.Currency, &expense.Category, &expense.SpentOn)
	if err != nil {
		return Expense{}, err
	}
	if tripId.Valid {
		expense.TripId = tripId.String
	}
	return expense, nil
}
