package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_account_repository.go -package mocks github.com/signalkit/signalkit/internal/domain AccountRepository

// AccountData is an organization/customer record scoped to a workspace.
// Created on first observation, mutated by detectors and sync jobs, never
// deleted by this subsystem.
type AccountData struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	Name        string     `json:"name"`
	Plan        string     `json:"plan"`
	Size        string     `json:"size"`
	Domain      string     `json:"domain"`
	Properties  JSONMap    `json:"properties"`
	TrialEndsAt *time.Time `json:"trial_ends_at,omitempty"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`

	// Rolling week-over-week activity counters maintained by ingestion
	PrevWeekEvents int `json:"prev_week_events"`
	CurrWeekEvents int `json:"curr_week_events"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserData is an individual actor belonging to an account. Read-only from
// this subsystem's perspective; ordered by creation time.
type UserData struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	WorkspaceID string    `json:"workspace_id"`
	Email       string    `json:"email"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccountRepository defines persistence for accounts and their users
type AccountRepository interface {
	// UpsertAccount creates the account on first observation or refreshes
	// its mutable profile fields
	UpsertAccount(ctx context.Context, account *AccountData) error

	// GetAccountByID retrieves a single account
	GetAccountByID(ctx context.Context, workspaceID, accountID string) (*AccountData, error)

	// ListAccounts returns all accounts in a workspace, oldest first
	ListAccounts(ctx context.Context, workspaceID string) ([]*AccountData, error)

	// ListUsers returns the account's users ordered by creation time
	ListUsers(ctx context.Context, workspaceID, accountID string) ([]*UserData, error)
}
