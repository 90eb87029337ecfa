package expense

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfare/wayfare/internal/test_utils"
)

func TestRepository_CreateAndGet(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, Expense{
		UserId: 1, Name: "Dinner", Amount: 60.5, Currency: "EUR", Category: "Food", SpentOn: "2024-05-03",
	})
	require.NoError(t, err)
	require.NotZero(t, created.Id)

	stored, err := repo.Get(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "Dinner", stored.Name)
	assert.Equal(t, 60.5, stored.Amount)
	assert.Equal(t, "EUR", stored.Currency)
	assert.Empty(t, stored.TripId)
}

func TestRepository_GetMissing(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)

	_, err := repo.Get(context.Background(), 42)

	assert.ErrorIs(t, err, ErrExpenseNotFound)
}

func TestRepository_PersonalListExcludesTripExpenses(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, Expense{UserId: 1, Name: "Dinner", Amount: 60, Currency: "EUR", SpentOn: "2024-05-03"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, Expense{UserId: 1, TripId: "trip-9", Name: "Taxi", Amount: 25, Currency: "EUR", SpentOn: "2024-05-04"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, Expense{UserId: 2, Name: "Coffee", Amount: 4, Currency: "EUR", SpentOn: "2024-05-03"})
	require.NoError(t, err)

	personal, err := repo.ListPersonal(ctx, 1)
	require.NoError(t, err)
	require.Len(t, personal, 1)
	assert.Equal(t, "Dinner", personal[0].Name)

	tripExpenses, err := repo.ListForTrip(ctx, "trip-9")
	require.NoError(t, err)
	require.Len(t, tripExpenses, 1)
	assert.Equal(t, "Taxi", tripExpenses[0].Name)
}

func TestRepository_Delete(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, Expense{UserId: 1, Name: "Dinner", Amount: 60, Currency: "EUR", SpentOn: "2024-05-03"})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.Id)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, created.Id)
	require.NoError(t, err)
	assert.False(t, deleted)
}
