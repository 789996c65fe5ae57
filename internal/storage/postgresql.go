package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/donation-gateway/internal/models"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует интерфейс Store.
type Storage struct {
	DB *sql.DB
}

var _ Store = (*Storage)(nil)

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

const txRetries = 3

// RunTransaction выполняет fn внутри одной транзакции. При конфликте
// сериализации или deadlock транзакция повторяется до txRetries раз,
// прочие ошибки возвращаются сразу.
func (s *Storage) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	const op = "storage.RunTransaction"

	var lastErr error
	for attempt := 0; attempt < txRetries; attempt++ {
		err := s.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return fmt.Errorf("%s: %w", op, err)
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(time.Duration(attempt+1) * 10 * time.Millisecond):
		}
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func (s *Storage) runOnce(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	dbtx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(ctx, &pgTx{tx: dbtx}); err != nil {
		_ = dbtx.Rollback()
		return err
	}
	return dbtx.Commit()
}

// isRetryable определяет конфликт сериализации (40001) или deadlock (40P01).
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// GetUser возвращает запись пользователя без блокировки; (nil, nil), если её нет.
func (s *Storage) GetUser(ctx context.Context, uid string) (*models.UserRecord, error) {
	const op = "storage.GetUser"

	query := `SELECT uid, email, ai_request_count, last_ai_request_time,
	                 supporter_status, supporter_since, total_donated
	          FROM users WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, uid)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// pgTx реализует интерфейс Tx поверх *sql.Tx.
type pgTx struct {
	tx *sql.Tx
}

// LockUser лениво создаёт строку пользователя и берёт на неё блокировку FOR UPDATE.
func (t *pgTx) LockUser(ctx context.Context, uid string) (*models.UserRecord, error) {
	const op = "storage.LockUser"

	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO users (uid) VALUES ($1) ON CONFLICT (uid) DO NOTHING`, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT uid, email, ai_request_count, last_ai_request_time,
	                 supporter_status, supporter_since, total_donated
	          FROM users WHERE uid = $1 FOR UPDATE`
	user, err := scanUser(t.tx.QueryRowContext(ctx, query, uid))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UpdateRateLimit записывает счётчик и начало окна лимитера.
func (t *pgTx) UpdateRateLimit(ctx context.Context, uid string, count int, windowStart time.Time) error {
	const op = "storage.UpdateRateLimit"

	_, err := t.tx.ExecContext(ctx,
		`UPDATE users SET ai_request_count = $2, last_ai_request_time = $3 WHERE uid = $1`,
		uid, count, windowStart)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// LockPayment лениво создаёт заготовку платежа (processed = false)
// и берёт на неё блокировку FOR UPDATE.
func (t *pgTx) LockPayment(ctx context.Context, reference string) (*models.PaymentRecord, error) {
	const op = "storage.LockPayment"

	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO payments (reference) VALUES ($1) ON CONFLICT (reference) DO NOTHING`, reference)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT reference, user_uid, email, amount, processed, processed_at,
	                 provider_status, channel, paid_at
	          FROM payments WHERE reference = $1 FOR UPDATE`
	row := t.tx.QueryRowContext(ctx, query, reference)

	var rec models.PaymentRecord
	var processedAt sql.NullTime
	if err := row.Scan(&rec.Reference, &rec.UserUID, &rec.Email, &rec.Amount,
		&rec.Processed, &processedAt, &rec.ProviderStatus, &rec.Channel, &rec.PaidAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if processedAt.Valid {
		rec.ProcessedAt = &processedAt.Time
	}
	return &rec, nil
}

// MarkPaymentProcessed заполняет запись платежа и выставляет processed = true.
func (t *pgTx) MarkPaymentProcessed(ctx context.Context, rec models.PaymentRecord) error {
	const op = "storage.MarkPaymentProcessed"

	_, err := t.tx.ExecContext(ctx,
		`UPDATE payments
		 SET user_uid = $2, email = $3, amount = $4, processed = true, processed_at = $5,
		     provider_status = $6, channel = $7, paid_at = $8
		 WHERE reference = $1`,
		rec.Reference, rec.UserUID, rec.Email, rec.Amount, rec.ProcessedAt,
		rec.ProviderStatus, rec.Channel, rec.PaidAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ApplyDonation применяет одну мутацию статуса поддержки: supporter_since
// выставляется только при первом пожертвовании, total_donated накапливается.
func (t *pgTx) ApplyDonation(ctx context.Context, uid, email string, amount float64, now time.Time) error {
	const op = "storage.ApplyDonation"

	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO users (uid, email, supporter_status, supporter_since, total_donated)
		 VALUES ($1, $2, true, $3, $4)
		 ON CONFLICT (uid) DO UPDATE SET
		     supporter_status = true,
		     supporter_since  = COALESCE(users.supporter_since, EXCLUDED.supporter_since),
		     total_donated    = users.total_donated + EXCLUDED.total_donated,
		     email            = COALESCE(NULLIF(users.email, ''), EXCLUDED.email)`,
		uid, email, now, amount)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.UserRecord, error) {
	var user models.UserRecord
	var lastRequest sql.NullTime
	var supporterSince sql.NullTime
	if err := row.Scan(&user.UID, &user.Email, &user.AIRequestCount, &lastRequest,
		&user.SupporterStatus, &supporterSince, &user.TotalDonated); err != nil {
		return nil, err
	}
	if lastRequest.Valid {
		user.LastAIRequestTime = lastRequest.Time
	}
	if supporterSince.Valid {
		user.SupporterSince = &supporterSince.Time
	}
	return &user, nil
}
