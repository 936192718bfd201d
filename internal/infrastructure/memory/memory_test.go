package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/acopio-api/internal/domain"
	"github.com/jhoicas/acopio-api/internal/domain/entity"
	"github.com/jhoicas/acopio-api/internal/domain/repository"
	"github.com/jhoicas/acopio-api/internal/infrastructure/memory"
)

func day(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

func snap(id, company, center string, date time.Time) *entity.InventorySnapshot {
	return &entity.InventorySnapshot{
		ID: id, CompanyID: company, CenterID: center, Date: date,
		Items: []entity.InventoryItem{{ID: id + "-1", CropName: "apple", QualityGrade: entity.GradeA, Quantity: decimal.NewFromInt(10)}},
	}
}

func TestSnapshotRepo_ListFiltra(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSnapshotRepository()
	require.NoError(t, repo.Create(ctx, snap("s1", "e1", "1", day(1))))
	require.NoError(t, repo.Create(ctx, snap("s2", "e1", "2", day(2))))
	require.NoError(t, repo.Create(ctx, snap("s3", "e2", "1", day(1))))
	assert.ErrorIs(t, repo.Create(ctx, snap("s1", "e1", "1", day(1))), domain.ErrDuplicate)

	all, err := repo.List(ctx, repository.SnapshotQuery{CompanyID: "e1"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	d := day(2)
	only, err := repo.List(ctx, repository.SnapshotQuery{CompanyID: "e1", From: &d, To: &d})
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "s2", only[0].ID)

	byCenter, err := repo.List(ctx, repository.SnapshotQuery{CompanyID: "e1", CenterID: "1"})
	require.NoError(t, err)
	require.Len(t, byCenter, 1)
	assert.Equal(t, "s1", byCenter[0].ID)
}

func TestSnapshotRepo_DevuelveCopias(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSnapshotRepository()
	require.NoError(t, repo.Create(ctx, snap("s1", "e1", "1", day(1))))

	got, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	got.Items[0].Quantity = decimal.NewFromInt(999)

	again, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, again.Items[0].Quantity.Equal(decimal.NewFromInt(10)))

	missing, err := repo.GetByID(ctx, "nada")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSnapshotRepo_CorregirYBorrar(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSnapshotRepository()
	require.NoError(t, repo.Create(ctx, snap("s1", "e1", "1", day(1))))

	now := day(1).Add(5 * time.Hour)
	require.NoError(t, repo.UpdateItemQuantity(ctx, "s1", "s1-1", decimal.NewFromInt(4), now))
	got, _ := repo.GetByID(ctx, "s1")
	assert.True(t, got.Items[0].Quantity.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, now, got.UpdatedAt)
	assert.ErrorIs(t, repo.UpdateItemQuantity(ctx, "s1", "x", decimal.NewFromInt(1), now), domain.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "s1"))
	assert.ErrorIs(t, repo.Delete(ctx, "s1"), domain.ErrNotFound)
	all, _ := repo.List(ctx, repository.SnapshotQuery{CompanyID: "e1"})
	assert.Empty(t, all)
}

func TestTxRunner_RevierteSiFalla(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSnapshotRepository()
	require.NoError(t, repo.Create(ctx, snap("s1", "e1", "1", day(1))))
	tx := memory.NewTxRunner(repo)

	boom := errors.New("boom")
	err := tx.Run(ctx, func(s repository.SnapshotRepository) error {
		require.NoError(t, s.UpdateItemQuantity(ctx, "s1", "s1-1", decimal.NewFromInt(4), day(2)))
		require.NoError(t, s.Create(ctx, snap("s2", "e1", "2", day(1))))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, _ := repo.GetByID(ctx, "s1")
	assert.True(t, got.Items[0].Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, got.UpdatedAt.IsZero())
	missing, _ := repo.GetByID(ctx, "s2")
	assert.Nil(t, missing)

	require.NoError(t, tx.Run(ctx, func(s repository.SnapshotRepository) error {
		return s.UpdateItemQuantity(ctx, "s1", "s1-1", decimal.NewFromInt(4), day(2))
	}))
	got, _ = repo.GetByID(ctx, "s1")
	assert.True(t, got.Items[0].Quantity.Equal(decimal.NewFromInt(4)))
}

func TestSettlementRepo_LlavePorCentro(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewSettlementRepository()
	require.NoError(t, repo.Upsert(ctx, &entity.DailySettlement{ID: "a", CompanyID: "e1", Date: day(1), CenterID: entity.CenterPtr("7")}))
	require.NoError(t, repo.Upsert(ctx, &entity.DailySettlement{ID: "b", CompanyID: "e1", Date: day(1)}))
	require.NoError(t, repo.Upsert(ctx, &entity.DailySettlement{ID: "c", CompanyID: "e1", Date: day(3), CenterID: entity.CenterPtr("7")}))

	s, err := repo.Get(ctx, "e1", day(1), "")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "b", s.ID)
	assert.True(t, s.CompanyWide())

	list, err := repo.ListRange(ctx, "e1", day(1), day(2), "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID, "el consolidado va primero")

	list, err = repo.ListRange(ctx, "e1", day(1), day(3), "7")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, repo.Delete(ctx, "e1", day(1), "7"))
	s, err = repo.Get(ctx, "e1", day(1), "7")
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.NoError(t, repo.Delete(ctx, "e1", day(1), "7"))
}

func TestTransactionRepo_ListByDay(t *testing.T) {
	repo := memory.NewTransactionRepository(
		entity.PricedTransaction{CompanyID: "e1", CenterID: "1", Date: day(1).Add(9 * time.Hour)},
		entity.PricedTransaction{CompanyID: "e1", CenterID: "2", Date: day(1)},
		entity.PricedTransaction{CompanyID: "e1", CenterID: "1", Date: day(2)},
	)
	got, err := repo.ListByDay(context.Background(), "e1", "", day(1))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.ListByDay(context.Background(), "e1", "1", day(1))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestLocker_SerializaPorLlave(t *testing.T) {
	l := memory.NewLocker()
	release, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)

	other, err := l.Acquire(context.Background(), "otra")
	require.NoError(t, err, "llaves distintas no se bloquean")
	other()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	acquired := make(chan struct{})
	go func() {
		r, err := l.Acquire(context.Background(), "k")
		if err == nil {
			r()
		}
		close(acquired)
	}()
	release()
	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("la llave no se liberó")
	}
}
