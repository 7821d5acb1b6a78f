package notifier

import (
	"access-service/internal/repository/model"
	"context"
	"github.com/google/uuid"
)

//go:generate mockgen -source=public.go -destination=mock_notifier.go -package=notifier

type Notifier interface {
	MemberPermissionsUpdate(ctx context.Context, member *model.Member, added []string, removed []string) error
	SchemeCommissionUpdate(ctx context.Context, scheme *model.Scheme, actorId uuid.UUID) error
}

type MemberPermissionsUpdateMessage struct {
	MemberId    string   `json:"memberId"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	Added       []string `json:"added"`
	Removed     []string `json:"removed"`
}

type SchemeCommissionUpdateMessage struct {
	SchemeId   string             `json:"schemeId"`
	OwnerId    string             `json:"ownerId"`
	ActorId    string             `json:"actorId"`
	Commission map[string]float64 `json:"commission"`
}
