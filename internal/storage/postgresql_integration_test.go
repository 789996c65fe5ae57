package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/donation-gateway/internal/migrations"
)

// setupTestDatabase поднимает контейнер PostgreSQL, применяет миграции
// и возвращает готовое хранилище.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("gateway"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(connStr)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, "../../migrations"))

	cleanup := func() {
		_ = storage.DB.Close()
		_ = container.Terminate(ctx)
	}
	return storage, cleanup
}

func TestLockUser_CreatesLazily(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	uid := uuid.New().String()

	err := storage.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		user, err := tx.LockUser(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, uid, user.UID)
		assert.Equal(t, 0, user.AIRequestCount)
		assert.True(t, user.LastAIRequestTime.IsZero())
		return nil
	})
	require.NoError(t, err)

	user, err := storage.GetUser(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.False(t, user.SupporterStatus)
}

func TestRunTransaction_RollbackOnError(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	uid := uuid.New().String()

	err := storage.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		if _, err := tx.LockUser(ctx, uid); err != nil {
			return err
		}
		if err := tx.UpdateRateLimit(ctx, uid, 5, time.Now()); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	user, err := storage.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUpdateRateLimit_ConcurrentIncrements(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	uid := uuid.New().String()

	const workers = 8
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := storage.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
				user, err := tx.LockUser(ctx, uid)
				if err != nil {
					return err
				}
				start := user.LastAIRequestTime
				if start.IsZero() {
					start = time.Now()
				}
				return tx.UpdateRateLimit(ctx, uid, user.AIRequestCount+1, start)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	user, err := storage.GetUser(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, workers, user.AIRequestCount)
}

func TestApplyDonation_IdempotentLedger(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	uid := uuid.New().String()
	reference := "ref_" + uuid.New().String()

	process := func() error {
		return storage.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
			payment, err := tx.LockPayment(ctx, reference)
			if err != nil {
				return err
			}
			if payment.Processed {
				return nil
			}
			now := time.Now()
			payment.UserUID = uid
			payment.Amount = 5000
			payment.Processed = true
			payment.ProcessedAt = &now
			if err := tx.MarkPaymentProcessed(ctx, *payment); err != nil {
				return err
			}
			return tx.ApplyDonation(ctx, uid, "u@example.com", 5000, now)
		})
	}

	const deliveries = 5
	var wg sync.WaitGroup
	for range deliveries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, process())
		}()
	}
	wg.Wait()

	user, err := storage.GetUser(ctx, uid)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, float64(5000), user.TotalDonated)
	assert.True(t, user.SupporterStatus)

	var count int
	require.NoError(t, storage.DB.QueryRow(
		`SELECT COUNT(*) FROM payments WHERE reference = $1 AND processed`, reference).Scan(&count))
	assert.Equal(t, 1, count)
}
