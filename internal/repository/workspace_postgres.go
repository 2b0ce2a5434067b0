package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/signalkit/signalkit/internal/domain"
)

type workspaceRepository struct {
	db *sql.DB
}

// NewWorkspaceRepository creates a PostgreSQL-backed workspace repository
func NewWorkspaceRepository(db *sql.DB) domain.WorkspaceRepository {
	return &workspaceRepository{db: db}
}

func (r *workspaceRepository) ListWorkspaceIDs(ctx context.Context) ([]string, error) {
	query := `SELECT id FROM workspaces ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan workspace id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workspaces: %w", err)
	}
	return ids, nil
}

func (r *workspaceRepository) GetIntegration(ctx context.Context, workspaceID string, kind domain.IntegrationKind) (*domain.Integration, error) {
	query := `
		SELECT id, workspace_id, kind, name, credentials, created_at, updated_at
		FROM integrations
		WHERE workspace_id = $1 AND kind = $2
	`

	var integration domain.Integration
	err := r.db.QueryRowContext(ctx, query, workspaceID, kind).Scan(
		&integration.ID,
		&integration.WorkspaceID,
		&integration.Kind,
		&integration.Name,
		&integration.Credentials,
		&integration.CreatedAt,
		&integration.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &domain.ErrNotFound{Entity: "integration", ID: string(kind)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get integration: %w", err)
	}
	return &integration, nil
}
