package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/donation-gateway/internal/models"
	"github.com/magabrotheeeer/donation-gateway/internal/storage"
)

func TestRunTransaction_CommitsOnSuccess(t *testing.T) {
	store := New()
	ctx := context.Background()

	err := store.RunTransaction(ctx, func(ctx context.Context, tx storage.Tx) error {
		if _, err := tx.LockUser(ctx, "u1"); err != nil {
			return err
		}
		return tx.UpdateRateLimit(ctx, "u1", 3, time.Now())
	})
	require.NoError(t, err)

	user, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 3, user.AIRequestCount)
}

func TestRunTransaction_DiscardsOnError(t *testing.T) {
	store := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.RunTransaction(ctx, func(ctx context.Context, tx storage.Tx) error {
		if _, err := tx.LockPayment(ctx, "ref_1"); err != nil {
			return err
		}
		if err := tx.ApplyDonation(ctx, "u1", "u1@example.com", 5000, time.Now()); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	user, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, 0, store.PaymentsCount())
}

func TestRunTransaction_FailWith(t *testing.T) {
	store := New()
	store.FailWith = errors.New("store unavailable")

	err := store.RunTransaction(context.Background(), func(_ context.Context, _ storage.Tx) error {
		t.Fatal("fn must not run when the store is failing")
		return nil
	})
	assert.Error(t, err)
}

func TestApplyDonation_SupporterSinceSetOnce(t *testing.T) {
	store := New()
	ctx := context.Background()
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	for _, now := range []time.Time{first, second} {
		err := store.RunTransaction(ctx, func(ctx context.Context, tx storage.Tx) error {
			return tx.ApplyDonation(ctx, "u1", "u1@example.com", 1000, now)
		})
		require.NoError(t, err)
	}

	user, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.SupporterStatus)
	require.NotNil(t, user.SupporterSince)
	assert.Equal(t, first, *user.SupporterSince)
	assert.Equal(t, float64(2000), user.TotalDonated)
}

func TestPutUser_SeedsRecord(t *testing.T) {
	store := New()
	store.PutUser(models.UserRecord{UID: "u1", Email: "u1@example.com", SupporterStatus: true})

	user, err := store.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.SupporterStatus)
}
