package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/signalkit/signalkit/internal/domain"
)

type accountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a PostgreSQL-backed account repository
func NewAccountRepository(db *sql.DB) domain.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) UpsertAccount(ctx context.Context, account *domain.AccountData) error {
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	query := `
		INSERT INTO accounts (
			id, workspace_id, name, plan, size, domain, properties,
			trial_ends_at, last_active_at, prev_week_events, curr_week_events,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (workspace_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			plan = EXCLUDED.plan,
			size = EXCLUDED.size,
			domain = EXCLUDED.domain,
			properties = EXCLUDED.properties,
			trial_ends_at = EXCLUDED.trial_ends_at,
			last_active_at = EXCLUDED.last_active_at,
			prev_week_events = EXCLUDED.prev_week_events,
			curr_week_events = EXCLUDED.curr_week_events,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.WorkspaceID,
		account.Name,
		account.Plan,
		account.Size,
		account.Domain,
		account.Properties,
		account.TrialEndsAt,
		account.LastActiveAt,
		account.PrevWeekEvents,
		account.CurrWeekEvents,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}
	return nil
}

func (r *accountRepository) GetAccountByID(ctx context.Context, workspaceID, accountID string) (*domain.AccountData, error) {
	query := `
		SELECT id, workspace_id, name, plan, size, domain, properties,
		       trial_ends_at, last_active_at, prev_week_events, curr_week_events,
		       created_at, updated_at
		FROM accounts
		WHERE workspace_id = $1 AND id = $2
	`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, workspaceID, accountID))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "account", ID: accountID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context, workspaceID string) ([]*domain.AccountData, error) {
	query := `
		SELECT id, workspace_id, name, plan, size, domain, properties,
		       trial_ends_at, last_active_at, prev_week_events, curr_week_events,
		       created_at, updated_at
		FROM accounts
		WHERE workspace_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.AccountData
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

func (r *accountRepository) ListUsers(ctx context.Context, workspaceID, accountID string) ([]*domain.UserData, error) {
	query := `
		SELECT id, workspace_id, account_id, email, title, created_at
		FROM account_users
		WHERE workspace_id = $1 AND account_id = $2
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, workspaceID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.UserData
	for rows.Next() {
		var user domain.UserData
		if err := rows.Scan(
			&user.ID,
			&user.WorkspaceID,
			&user.AccountID,
			&user.Email,
			&user.Title,
			&user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*domain.AccountData, error) {
	var account domain.AccountData
	var trialEndsAt, lastActiveAt sql.NullTime

	err := row.Scan(
		&account.ID,
		&account.WorkspaceID,
		&account.Name,
		&account.Plan,
		&account.Size,
		&account.Domain,
		&account.Properties,
		&trialEndsAt,
		&lastActiveAt,
		&account.PrevWeekEvents,
		&account.CurrWeekEvents,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if trialEndsAt.Valid {
		account.TrialEndsAt = &trialEndsAt.Time
	}
	if lastActiveAt.Valid {
		account.LastActiveAt = &lastActiveAt.Time
	}
	return &account, nil
}
