package expense

import "context"

type RepositoryStub struct {
	nextId   int
	expenses map[int]Expense
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{expenses: map[int]Expense{}}
}

func (s *RepositoryStub) Create(ctx context.Context, expense Expense) (Expense, error) {
	s.nextId++
	expense.Id = s.nextId
	s.expenses[expense.Id] = expense
	return expense, nil
}

func (s *RepositoryStub) Get(ctx context.Context, expenseId int) (Expense, error) {
	expense, ok := s.expenses[expenseId]
	if !ok {
		return Expense{}, ErrExpenseNotFound
	}
	return expense, nil
}

func (s *RepositoryStub) ListPersonal(ctx context.Context, userId int) ([]Expense, error) {
	var expenses []Expense
	for id := 1; id <= s.nextId; id++ {
		expense, ok := s.expenses[id]
		if ok && expense.UserId == userId && expense.TripId == "" {
			expenses = append(expenses, expense)
		}
	}
	return expenses, nil
}

func (s *RepositoryStub) ListForTrip(ctx context.Context, tripId string) ([]Expense, error) {
	var expenses []Expense
	for id := 1; id <= s.nextId; id++ {
		expense, ok := s.expenses[id]
		if ok && expense.TripId == tripId {
			expenses = append(expenses, expense)
		}
	}
	return expenses, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, expenseId int) (bool, error) {
	if _, ok := s.expenses[expenseId]; !ok {
		return false, nil
	}
	delete(s.expenses, expenseId)
	return true, nil
}

func (s *RepositoryStub) Cleanup() {
	s.expenses = map[int]Expense{}
	s.nextId = 0
}
