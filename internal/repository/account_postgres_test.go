package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalkit/signalkit/internal/domain"
	"github.com/signalkit/signalkit/internal/repository/testutil"
)

func accountColumns() []string {
	return []string{
		"id", "workspace_id", "name", "plan", "size", "domain", "properties",
		"trial_ends_at", "last_active_at", "prev_week_events", "curr_week_events",
		"created_at", "updated_at",
	}
}

func TestAccountRepository_UpsertAccount(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewAccountRepository(db)
	account := &domain.AccountData{
		ID:          "acct-1",
		WorkspaceID: "ws-1",
		Name:        "Acme Corp",
		Plan:        "trial",
		Properties:  domain.JSONMap{"industry": "saas"},
	}

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(
			"acct-1", "ws-1", "Acme Corp", "trial", "", "",
			sqlmock.AnyArg(), nil, nil, 0, 0,
			sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpsertAccount(context.Background(), account))
	assert.False(t, account.CreatedAt.IsZero())
	assert.False(t, account.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetAccountByID(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewAccountRepository(db)
	now := time.Now().UTC()
	trialEnd := now.Add(48 * time.Hour)

	rows := sqlmock.NewRows(accountColumns()).AddRow(
		"acct-1", "ws-1", "Acme Corp", "trial", "50-100", "acme.com",
		[]byte(`{"industry":"saas"}`), trialEnd, now, 10, 25, now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs("ws-1", "acct-1").
		WillReturnRows(rows)

	account, err := repo.GetAccountByID(context.Background(), "ws-1", "acct-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", account.Name)
	assert.Equal(t, "saas", account.Properties["industry"])
	require.NotNil(t, account.TrialEndsAt)
	assert.WithinDuration(t, trialEnd, *account.TrialEndsAt, time.Second)
	assert.Equal(t, 25, account.CurrWeekEvents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetAccountByID_NotFound(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewAccountRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs("ws-1", "missing").
		WillReturnRows(sqlmock.NewRows(accountColumns()))

	_, err := repo.GetAccountByID(context.Background(), "ws-1", "missing")
	var notFound *domain.ErrNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "account", notFound.Entity)
}

func TestAccountRepository_ListAccounts(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewAccountRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(accountColumns()).
		AddRow("acct-1", "ws-1", "Acme", "pro", "", "", []byte(`{}`), nil, nil, 5, 8, now, now).
		AddRow("acct-2", "ws-1", "Globex", "trial", "", "", []byte(`{}`), nil, nil, 0, 3, now, now)
	mock.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs("ws-1").
		WillReturnRows(rows)

	accounts, err := repo.ListAccounts(context.Background(), "ws-1")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Acme", accounts[0].Name)
	assert.Nil(t, accounts[0].TrialEndsAt)
	assert.Equal(t, "Globex", accounts[1].Name)
}

func TestAccountRepository_ListUsers(t *testing.T) {
	db, mock, cleanup := testutil.SetupMockDB(t)
	defer cleanup()

	repo := NewAccountRepository(db)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "workspace_id", "account_id", "email", "title", "created_at"}).
		AddRow("u-1", "ws-1", "acct-1", "director@acme.com", "Director of Engineering", now).
		AddRow("u-2", "ws-1", "acct-1", "dev@acme.com", "Software Engineer", now.Add(time.Minute))
	mock.ExpectQuery("SELECT (.+) FROM account_users").
		WithArgs("ws-1", "acct-1").
		WillReturnRows(rows)

	users, err := repo.ListUsers(context.Background(), "ws-1", "acct-1")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "director@acme.com", users[0].Email)
	assert.Equal(t, "Software Engineer", users[1].Title)
}
