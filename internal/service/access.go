package service

import (
	"access-service/internal/notifier"
	"access-service/internal/policy"
	"access-service/internal/repository"
	"access-service/internal/repository/model"
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	mongoDb "go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"slices"
)

var (
	ErrMemberNotFound  = errors.New("member not found")
	ErrSchemeNotFound  = errors.New("scheme not found")
	ErrForbidden       = errors.New("operation not permitted")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Affordances is the set of actions a console row may offer to the actor.
type Affordances struct {
	CanRead             bool `json:"canRead"`
	CanEdit             bool `json:"canEdit"`
	CanDelete           bool `json:"canDelete"`
	CanManageCommission bool `json:"canManageCommission"`
	CanViewCommission   bool `json:"canViewCommission"`
}

// AccessService resolves actors and resources from the directory and runs the
// access policy over them. Records are loaded on every call; nothing is cached.
type AccessService struct {
	logger *zap.SugaredLogger
	repo   repository.Repository
	notif  notifier.Notifier
}

func NewAccessService(logger *zap.SugaredLogger, repo repository.Repository, notif notifier.Notifier) *AccessService {
	return &AccessService{
		logger: logger,
		repo:   repo,
		notif:  notif,
	}
}

func (s *AccessService) Evaluate(ctx context.Context, actorId uuid.UUID, kind policy.Kind, resourceId uuid.UUID, op policy.Operation) (policy.Decision, error) {
	if !op.Valid() {
		return policy.Decision{}, fmt.Errorf("%w: unknown operation %q", ErrInvalidArgument, op)
	}

	actor, err := s.loadActor(ctx, actorId)
	if err != nil {
		return policy.Decision{}, err
	}
	resource, _, err := s.loadResource(ctx, kind, resourceId)
	if err != nil {
		return policy.Decision{}, err
	}

	return s.evaluate(actor, resource, op)
}

// Affordances evaluates every operation once for the given record.
func (s *AccessService) Affordances(ctx context.Context, actorId uuid.UUID, kind policy.Kind, resourceId uuid.UUID) (*Affordances, error) {
	actor, err := s.loadActor(ctx, actorId)
	if err != nil {
		return nil, err
	}
	resource, _, err := s.loadResource(ctx, kind, resourceId)
	if err != nil {
		return nil, err
	}

	allowed := make(map[policy.Operation]bool, len(policy.Operations))
	for _, op := range policy.Operations {
		decision, err := s.evaluate(actor, resource, op)
		if err != nil {
			return nil, err
		}
		allowed[op] = decision.Allowed
	}

	return &Affordances{
		CanRead:             allowed[policy.OperationRead],
		CanEdit:             allowed[policy.OperationUpdate],
		CanDelete:           allowed[policy.OperationDelete],
		CanManageCommission: allowed[policy.OperationManageCommission],
		CanViewCommission:   allowed[policy.OperationRead],
	}, nil
}

// AccessibleSchemes returns the schemes the actor may read. A single corrupt
// scheme or owner record fails the whole listing.
func (s *AccessService) AccessibleSchemes(ctx context.Context, actorId uuid.UUID) ([]*model.Scheme, error) {
	actor, err := s.loadActor(ctx, actorId)
	if err != nil {
		return nil, err
	}

	schemes, err := s.repo.GetAllSchemes(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting schemes: %w", err)
	}

	ownerIds := make([]uuid.UUID, 0, len(schemes))
	seen := make(map[uuid.UUID]bool, len(schemes))
	for _, scheme := range schemes {
		if !seen[scheme.OwnerId] {
			seen[scheme.OwnerId] = true
			ownerIds = append(ownerIds, scheme.OwnerId)
		}
	}

	owners, err := s.repo.GetMembers(ctx, ownerIds)
	if err != nil {
		return nil, fmt.Errorf("error getting scheme owners: %w", err)
	}
	ownersById := make(map[uuid.UUID]*model.Member, len(owners))
	for _, owner := range owners {
		ownersById[owner.Id] = owner
	}

	accessible := make([]*model.Scheme, 0, len(schemes))
	for _, scheme := range schemes {
		resource, err := scheme.ToResource(ownersById[scheme.OwnerId])
		if err != nil {
			s.logIntegrityError(err, "schemeId", scheme.Id)
			return nil, err
		}

		decision, err := s.evaluate(actor, resource, policy.OperationRead)
		if err != nil {
			return nil, err
		}
		if decision.Allowed {
			accessible = append(accessible, scheme)
		}
	}

	return accessible, nil
}

// UpdateMemberPermissions removes unset then adds set on the member's
// permission list. Delegated callers may only grant keys they hold themselves.
func (s *AccessService) UpdateMemberPermissions(ctx context.Context, actorId uuid.UUID, memberId uuid.UUID,
	set []string, unset []string) (*model.Member, error) {

	for _, key := range set {
		if _, _, err := policy.ParsePermissionKey(key); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}

	actor, err := s.loadActor(ctx, actorId)
	if err != nil {
		return nil, err
	}
	resource, record, err := s.loadResource(ctx, policy.KindMember, memberId)
	if err != nil {
		return nil, err
	}
	member := record.(*model.Member)

	decision, err := s.evaluate(actor, resource, policy.OperationUpdate)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, decision.Reason)
	}

	if actor.Role != policy.RoleSuperAdmin {
		for _, key := range set {
			if !actor.Permissions.Has(key) {
				return nil, fmt.Errorf("%w: cannot grant %q without holding it", ErrForbidden, key)
			}
		}
	}

	permissions, added, removed := mergePermissions(member.Permissions, set, unset)
	if len(added) == 0 && len(removed) == 0 {
		return member, nil
	}

	if err := s.repo.UpdateMemberPermissions(ctx, member.Id, permissions); err != nil {
		if errors.Is(err, mongoDb.ErrNoDocuments) {
			return nil, ErrMemberNotFound
		}
		s.logger.Errorw("error updating member permissions", "memberId", member.Id, "error", err)
		return nil, err
	}
	member.Permissions = permissions

	if err := s.notif.MemberPermissionsUpdate(ctx, member, added, removed); err != nil {
		s.logger.Errorw("error sending member permissions update notification", "error", err)
	}

	return member, nil
}

// UpdateSchemeCommission replaces the commission table of a scheme. The actor
// needs a manage_commission permit, may only change the fields editable by
// their role, and the result must keep every share within 0 to 100 and each
// tier at or above the one below it.
func (s *AccessService) UpdateSchemeCommission(ctx context.Context, actorId uuid.UUID, schemeId uuid.UUID,
	commission policy.Commission) (*model.Scheme, error) {

	actor, err := s.loadActor(ctx, actorId)
	if err != nil {
		return nil, err
	}
	resource, record, err := s.loadResource(ctx, policy.KindScheme, schemeId)
	if err != nil {
		return nil, err
	}
	scheme := record.(*model.Scheme)

	decision, err := s.evaluate(actor, resource, policy.OperationManageCommission)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, decision.Reason)
	}

	if err := policy.ValidateCommissionHierarchy(commission); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	if err := policy.CheckCommissionChange(actor.Role, scheme.Commission, commission); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrForbidden, err)
	}

	if err := s.repo.UpdateSchemeCommission(ctx, scheme.Id, commission); err != nil {
		if errors.Is(err, mongoDb.ErrNoDocuments) {
			return nil, ErrSchemeNotFound
		}
		s.logger.Errorw("error updating scheme commission", "schemeId", scheme.Id, "error", err)
		return nil, err
	}
	scheme.Commission = commission

	if err := s.notif.SchemeCommissionUpdate(ctx, scheme, actorId); err != nil {
		s.logger.Errorw("error sending scheme commission update notification", "error", err)
	}

	return scheme, nil
}

func (s *AccessService) loadActor(ctx context.Context, actorId uuid.UUID) (policy.Actor, error) {
	member, err := s.repo.GetMember(ctx, actorId)
	if err != nil {
		if errors.Is(err, mongoDb.ErrNoDocuments) {
			return policy.Actor{}, fmt.Errorf("%w: actor %s", ErrMemberNotFound, actorId)
		}
		return policy.Actor{}, fmt.Errorf("error getting actor: %w", err)
	}

	actor, err := member.ToActor()
	if err != nil {
		s.logIntegrityError(err, "actorId", actorId)
		return policy.Actor{}, err
	}

	return actor, nil
}

// loadResource returns the policy view of a record together with the record
// itself. Scheme owners are looked up so their role is always current.
func (s *AccessService) loadResource(ctx context.Context, kind policy.Kind, id uuid.UUID) (policy.Resource, any, error) {
	switch kind {
	case policy.KindMember:
		member, err := s.repo.GetMember(ctx, id)
		if err != nil {
			if errors.Is(err, mongoDb.ErrNoDocuments) {
				return policy.Resource{}, nil, ErrMemberNotFound
			}
			return policy.Resource{}, nil, fmt.Errorf("error getting member: %w", err)
		}
		resource, err := member.ToResource()
		if err != nil {
			s.logIntegrityError(err, "memberId", id)
			return policy.Resource{}, nil, err
		}
		return resource, member, nil

	case policy.KindScheme:
		scheme, err := s.repo.GetScheme(ctx, id)
		if err != nil {
			if errors.Is(err, mongoDb.ErrNoDocuments) {
				return policy.Resource{}, nil, ErrSchemeNotFound
			}
			return policy.Resource{}, nil, fmt.Errorf("error getting scheme: %w", err)
		}

		var owner *model.Member
		if scheme.OwnerId != uuid.Nil {
			owner, err = s.repo.GetMember(ctx, scheme.OwnerId)
			if err != nil && !errors.Is(err, mongoDb.ErrNoDocuments) {
				return policy.Resource{}, nil, fmt.Errorf("error getting scheme owner: %w", err)
			}
		}

		resource, err := scheme.ToResource(owner)
		if err != nil {
			s.logIntegrityError(err, "schemeId", id)
			return policy.Resource{}, nil, err
		}
		return resource, scheme, nil

	default:
		return policy.Resource{}, nil, fmt.Errorf("%w: unknown resource kind %q", ErrInvalidArgument, kind)
	}
}

func (s *AccessService) evaluate(actor policy.Actor, resource policy.Resource, op policy.Operation) (policy.Decision, error) {
	decision, err := policy.Evaluate(actor, resource, op)
	if err != nil {
		s.logIntegrityError(err, "actorId", actor.ID, "resourceId", resource.ID, "operation", op)
		return policy.Decision{}, err
	}
	return decision, nil
}

// logIntegrityError records errors that mean the directory holds data the
// policy cannot reason about.
func (s *AccessService) logIntegrityError(err error, keysAndValues ...any) {
	if !IsIntegrityError(err) {
		return
	}
	s.logger.Errorw("access policy could not evaluate record", append(keysAndValues, "error", err)...)
}

// IsIntegrityError reports whether err comes from bad directory data rather
// than from the caller.
func IsIntegrityError(err error) bool {
	return errors.Is(err, policy.ErrUnknownRole) ||
		errors.Is(err, policy.ErrMalformedResource) ||
		errors.Is(err, policy.ErrMalformedActor)
}

// mergePermissions applies unset then set to current, keeping existing order
// and dropping duplicates. It reports the keys actually added and removed.
func mergePermissions(current []string, set []string, unset []string) (merged []string, added []string, removed []string) {
	unsetKeys := make(map[string]bool, len(unset))
	for _, key := range unset {
		unsetKeys[key] = true
	}

	seen := make(map[string]bool, len(current)+len(set))
	merged = make([]string, 0, len(current)+len(set))
	for _, key := range current {
		if seen[key] {
			continue
		}
		seen[key] = true
		if unsetKeys[key] {
			removed = append(removed, key)
			continue
		}
		merged = append(merged, key)
	}

	for _, key := range set {
		if slices.Contains(merged, key) {
			continue
		}
		merged = append(merged, key)
		if seen[key] {
			// re-granted in the same request
			removed = slices.DeleteFunc(removed, func(k string) bool { return k == key })
		} else {
			added = append(added, key)
		}
		seen[key] = true
	}

	return merged, added, removed
}
