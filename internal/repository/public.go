package repository

import (
	"access-service/internal/repository/model"
	"context"
	"github.com/google/uuid"
)

//go:generate mockgen -source=public.go -destination=mock_repository.go -package=repository

type Repository interface {
	GetMember(ctx context.Context, memberId uuid.UUID) (*model.Member, error)
	// GetMembers returns the members found among memberIds. Missing ids are skipped.
	GetMembers(ctx context.Context, memberIds []uuid.UUID) ([]*model.Member, error)
	UpdateMemberPermissions(ctx context.Context, memberId uuid.UUID, permissions []string) error

	GetScheme(ctx context.Context, schemeId uuid.UUID) (*model.Scheme, error)
	GetAllSchemes(ctx context.Context) ([]*model.Scheme, error)
	UpdateSchemeCommission(ctx context.Context, schemeId uuid.UUID, commission map[string]float64) error
}
