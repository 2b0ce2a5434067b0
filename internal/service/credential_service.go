package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/signalkit/signalkit/internal/domain"
	"github.com/signalkit/signalkit/pkg/logger"
)

// CredentialService loads workspace integration credentials and decrypts
// them for use by the external adapters.
type CredentialService struct {
	workspaceRepo domain.WorkspaceRepository
	secretKey     string
	logger        logger.Logger
}

func NewCredentialService(workspaceRepo domain.WorkspaceRepository, secretKey string, logger logger.Logger) *CredentialService {
	return &CredentialService{
		workspaceRepo: workspaceRepo,
		secretKey:     secretKey,
		logger:        logger,
	}
}

// GetCredentials returns the decrypted credentials for a workspace
// integration. An unconfigured integration yields (nil, nil) so callers can
// skip the workspace instead of treating it as a failure.
func (s *CredentialService) GetCredentials(ctx context.Context, workspaceID string, kind domain.IntegrationKind) (*domain.IntegrationCredentials, error) {
	integration, err := s.workspaceRepo.GetIntegration(ctx, workspaceID, kind)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load integration: %w", err)
	}

	if err := integration.AfterLoad(s.secretKey); err != nil {
		return nil, fmt.Errorf("failed to decrypt credentials for workspace %s: %w", workspaceID, err)
	}

	return &integration.Credentials, nil
}
