package expense

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wayfare/wayfare/pkg/currency"
	"github.com/wayfare/wayfare/pkg/user"
)

var (
	ErrValidation  = errors.New("invalid expense")
	ErrNotMember   = errors.New("user is not a trip member")
	ErrNotRecorder = errors.New("only the recording user may delete an expense")
)

// TripAccess reports whether the user is an accepted member of the trip.
// Implemented by the trip feature.
type TripAccess interface {
	CanAccess(ctx context.Context, userId int, tripId string) (bool, error)
}

type Service interface {
	RecordExpense(ctx context.Context, expense Expense) (Expense, error)
	DeleteExpense(ctx context.Context, expenseId int) error
	// PersonalReport lists the current user's personal expenses with the total
	// converted to their home currency.
	PersonalReport(ctx context.Context) (Report, error)
	// TripReport lists a trip's expenses, all members' included, with the
	// total converted to the current user's home currency.
	TripReport(ctx context.Context, tripId string) (Report, error)
}

type ServiceImpl struct {
	repo        Repository
	tripAccess  TripAccess
	converter   currency.Converter
	userService user.Service
}

func NewService(repo Repository, tripAccess TripAccess, converter currency.Converter, userService user.Service) *ServiceImpl {
	return &ServiceImpl{
		repo:        repo,
		tripAccess:  tripAccess,
		converter:   converter,
		userService: userService,
	}
}

func validateExpense(expense Expense) error {
	if expense.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if expense.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	if expense.Currency == "" {
		return fmt.Errorf("%w: currency is required", ErrValidation)
	}
	if _, err := time.Parse("2006-01-02", expense.SpentOn); err != nil {
		return fmt.Errorf("%w: spentOn must be an ISO date", ErrValidation)
	}
	return nil
}

func (s *ServiceImpl) RecordExpense(ctx context.Context, expense Expense) (Expense, error) {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return Expense{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validateExpense(expense); err != nil {
		return Expense{}, err
	}
	if expense.TripId != "" {
		ok, err := s.tripAccess.CanAccess(ctx, currentUserId, expense.TripId)
		if err != nil {
			return Expense{}, err
		}
		if !ok {
			return Expense{}, ErrNotMember
		}
	}
	expense.UserId = currentUserId
	return s.repo.Create(ctx, expense)
}

func (s *ServiceImpl) DeleteExpense(ctx context.Context, expenseId int) error {
	currentUserId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	stored, err := s.repo.Get(ctx, expenseId)
	if err != nil {
		return err
	}
	if stored.UserId != currentUserId {
		return ErrNotRecorder
	}
	deleted, err := s.repo.Delete(ctx, expenseId)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrExpenseNotFound
	}
	return nil
}

func (s *ServiceImpl) PersonalReport(ctx context.Context) (Report, error) {
	currentUser, err := s.userService.GetCurrentUser(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to get current user: %w", err)
	}
	expenses, err := s.repo.ListPersonal(ctx, currentUser.Id)
	if err != nil {
		return Report{}, err
	}
	return s.buildReport(ctx, expenses, currentUser.Settings.HomeCurrency)
}

func (s *ServiceImpl) TripReport(ctx context.Context, tripId string) (Report, error) {
	currentUser, err := s.userService.GetCurrentUser(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to get current user: %w", err)
	}
	ok, err := s.tripAccess.CanAccess(ctx, currentUser.Id, tripId)
	if err != nil {
		return Report{}, err
	}
	if !ok {
		return Report{}, ErrNotMember
	}
	expenses, err := s.repo.ListForTrip(ctx, tripId)
	if err != nil {
		return Report{}, err
	}
	return s.buildReport(ctx, expenses, currentUser.Settings.HomeCurrency)
}

// buildReport sums the expenses in the target currency. An expense whose
// currency cannot be converted keeps the report usable: it is listed but left
// out of the total.
func (s *ServiceImpl) buildReport(ctx context.Context, expenses []Expense, homeCurrency string) (Report, error) {
	report := Report{
		Expenses:      expenses,
		TotalCurrency: homeCurrency,
	}
	if report.Expenses == nil {
		report.Expenses = []Expense{}
	}
	for _, expense := range expenses {
		converted, err := s.converter.Convert(ctx, expense.Amount, expense.Currency, homeCurrency)
		if err != nil {
			log.Warnf("Leaving expense %d out of the total: %v", expense.Id, err)
			continue
		}
		report.Total += converted
	}
	return report, nil
}
