package model

import (
	"access-service/internal/policy"
	"github.com/google/uuid"
)

// Member is a node of the reseller hierarchy. Role is stored as a label and
// parsed on every read so a corrupt value surfaces as an error.
type Member struct {
	Id          uuid.UUID  `bson:"_id" json:"id"`
	Name        string     `bson:"name" json:"name"`
	Role        string     `bson:"role" json:"role"`
	ParentId    *uuid.UUID `bson:"parentId,omitempty" json:"parentId,omitempty"`
	CreatedBy   *uuid.UUID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	Permissions []string   `bson:"permissions" json:"permissions"`
	Active      bool       `bson:"active" json:"active"`
}

func (m *Member) ToActor() (policy.Actor, error) {
	role, err := policy.ParseRole(m.Role)
	if err != nil {
		return policy.Actor{}, err
	}

	return policy.Actor{
		ID:          m.Id.String(),
		Role:        role,
		Permissions: policy.NewPermissionSet(m.Permissions...),
	}, nil
}

// ToResource describes the member record itself. A member owns their own
// record so self-service edits are always allowed.
func (m *Member) ToResource() (policy.Resource, error) {
	role, err := policy.ParseRole(m.Role)
	if err != nil {
		return policy.Resource{}, err
	}

	return policy.Resource{
		Kind:      policy.KindMember,
		ID:        m.Id.String(),
		OwnerID:   idString(m.Id),
		CreatorID: optionalIdString(m.CreatedBy),
		OwnerRole: role,
	}, nil
}

// Scheme does not carry its owner's role. It is resolved from the owner's
// member record at evaluation time.
type Scheme struct {
	Id          uuid.UUID          `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	OwnerId     uuid.UUID          `bson:"ownerId" json:"ownerId"`
	CreatedBy   *uuid.UUID         `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	Active      bool               `bson:"active" json:"active"`
	Commission  map[string]float64 `bson:"commission" json:"commission"`
}

// ToResource requires the scheme owner's current member record.
func (s *Scheme) ToResource(owner *Member) (policy.Resource, error) {
	if owner == nil || owner.Id != s.OwnerId {
		return policy.Resource{}, &policy.MalformedResourceError{
			Kind: string(policy.KindScheme), ID: s.Id.String(), Field: "owner record",
		}
	}
	role, err := policy.ParseRole(owner.Role)
	if err != nil {
		return policy.Resource{}, err
	}

	return policy.Resource{
		Kind:      policy.KindScheme,
		ID:        s.Id.String(),
		OwnerID:   idString(s.OwnerId),
		CreatorID: optionalIdString(s.CreatedBy),
		OwnerRole: role,
	}, nil
}

func idString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

func optionalIdString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return idString(*id)
}
