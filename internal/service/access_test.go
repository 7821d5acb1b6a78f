package service

import (
	"access-service/internal/notifier"
	"access-service/internal/policy"
	"access-service/internal/repository"
	"access-service/internal/repository/model"
	"access-service/internal/utils"
	"context"
	"errors"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"testing"
)

var (
	superAdminId  = uuid.MustParse("00000000-0000-4000-8000-000000000001")
	whiteLabelId  = uuid.MustParse("00000000-0000-4000-8000-000000000002")
	distributorId = uuid.MustParse("00000000-0000-4000-8000-000000000004")
	retailerId    = uuid.MustParse("00000000-0000-4000-8000-000000000005")
	customerId    = uuid.MustParse("00000000-0000-4000-8000-000000000006")

	retailSchemeId = uuid.MustParse("10000000-0000-4000-8000-000000000001")
	wlSchemeId     = uuid.MustParse("10000000-0000-4000-8000-000000000002")
)

func createSuperAdmin() *model.Member {
	return &model.Member{Id: superAdminId, Name: "root", Role: "super_admin", Active: true}
}

func createWhiteLabel() *model.Member {
	return &model.Member{
		Id: whiteLabelId, Name: "brand", Role: "whitelabel", ParentId: utils.PointerOf(superAdminId),
		Permissions: []string{"scheme:read", "scheme:manage_commission", "member:update", "member:read"},
		Active:      true,
	}
}

func createDistributor(permissions ...string) *model.Member {
	return &model.Member{
		Id: distributorId, Name: "dist", Role: "distributor", ParentId: utils.PointerOf(whiteLabelId),
		CreatedBy: utils.PointerOf(whiteLabelId), Permissions: permissions, Active: true,
	}
}

func createRetailer() *model.Member {
	return &model.Member{
		Id: retailerId, Name: "shop", Role: "retailer", ParentId: utils.PointerOf(distributorId),
		CreatedBy: utils.PointerOf(distributorId), Permissions: []string{}, Active: true,
	}
}

func createCustomer() *model.Member {
	return &model.Member{Id: customerId, Name: "buyer", Role: "customer", Active: true}
}

func createRetailScheme() *model.Scheme {
	return &model.Scheme{
		Id: retailSchemeId, Name: "Retail Silver", OwnerId: retailerId, CreatedBy: utils.PointerOf(distributorId),
		Active:     true,
		Commission: map[string]float64{"admin": 2, "whitelabel": 1.5, "masterdistributor": 1, "distributor": 0.8, "retailer": 0.5},
	}
}

func createWhiteLabelScheme() *model.Scheme {
	return &model.Scheme{
		Id: wlSchemeId, Name: "Brand Gold", OwnerId: whiteLabelId,
		Active: true, Commission: map[string]float64{"admin": 3},
	}
}

func newTestService(t *testing.T) (*AccessService, *repository.MockRepository, *notifier.MockNotifier) {
	mockCntrl := gomock.NewController(t)
	mockRepo := repository.NewMockRepository(mockCntrl)
	mockNotifier := notifier.NewMockNotifier(mockCntrl)

	return NewAccessService(zap.NewNop().Sugar(), mockRepo, mockNotifier), mockRepo, mockNotifier
}

type evaluateTest struct {
	actor  *model.Member
	scheme *model.Scheme
	owner  *model.Member
	op     policy.Operation

	want    policy.Decision
	wantErr error
}

var evaluateTests = map[string]evaluateTest{
	"superadmin": {
		actor:  createSuperAdmin(),
		scheme: createRetailScheme(),
		owner:  createRetailer(),
		op:     policy.OperationDelete,
		want:   policy.Decision{Allowed: true, Reason: policy.ReasonSuperAdmin},
	},
	"creator": {
		actor:  createDistributor(),
		scheme: createRetailScheme(),
		owner:  createRetailer(),
		op:     policy.OperationUpdate,
		want:   policy.Decision{Allowed: true, Reason: policy.ReasonCreator},
	},
	"delegated with key": {
		actor:  createWhiteLabel(),
		scheme: createRetailScheme(),
		owner:  createRetailer(),
		op:     policy.OperationManageCommission,
		want:   policy.Decision{Allowed: true, Reason: policy.ReasonDelegated},
	},
	"delegated without key": {
		actor:  createWhiteLabel(),
		scheme: createRetailScheme(),
		owner:  createRetailer(),
		op:     policy.OperationDelete,
		want:   policy.Decision{Allowed: false, Reason: policy.ReasonMissingPermission},
	},
	"owner role resolved from owner record": {
		actor:  createDistributor("scheme:update"),
		scheme: createWhiteLabelScheme(),
		owner:  createWhiteLabel(),
		op:     policy.OperationUpdate,
		want:   policy.Decision{Allowed: false, Reason: policy.ReasonNotAncestor},
	},
	"corrupt owner role": {
		actor:  createSuperAdmin(),
		scheme: createRetailScheme(),
		owner:  &model.Member{Id: retailerId, Role: "SuperUser"},
		op:     policy.OperationRead,
		// superadmin bypass must not hide bad data
		wantErr: policy.ErrUnknownRole,
	},
	"owner record missing": {
		actor:   createSuperAdmin(),
		scheme:  createRetailScheme(),
		owner:   nil,
		op:      policy.OperationRead,
		wantErr: policy.ErrMalformedResource,
	},
}

func TestAccessService_Evaluate(t *testing.T) {
	for name, test := range evaluateTests {
		t.Run(name, func(t *testing.T) {
			svc, mockRepo, _ := newTestService(t)
			ctx := context.Background()

			mockRepo.EXPECT().GetMember(ctx, test.actor.Id).Return(test.actor, nil)
			mockRepo.EXPECT().GetScheme(ctx, test.scheme.Id).Return(test.scheme, nil)
			if test.owner != nil {
				mockRepo.EXPECT().GetMember(ctx, test.scheme.OwnerId).Return(test.owner, nil)
			} else {
				mockRepo.EXPECT().GetMember(ctx, test.scheme.OwnerId).Return(nil, mongo.ErrNoDocuments)
			}

			got, err := svc.Evaluate(ctx, test.actor.Id, policy.KindScheme, test.scheme.Id, test.op)
			if test.wantErr != nil {
				assert.ErrorIs(t, err, test.wantErr)
				assert.True(t, IsIntegrityError(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestAccessService_Evaluate_Member(t *testing.T) {
	svc, mockRepo, _ := newTestService(t)
	ctx := context.Background()

	actor := createDistributor("member:read")
	mockRepo.EXPECT().GetMember(ctx, distributorId).Return(actor, nil)
	mockRepo.EXPECT().GetMember(ctx, customerId).Return(createCustomer(), nil)

	got, err := svc.Evaluate(ctx, distributorId, policy.KindMember, customerId, policy.OperationRead)
	assert.NoError(t, err)
	assert.Equal(t, policy.Decision{Allowed: true, Reason: policy.ReasonDelegated}, got)
}

func TestAccessService_Evaluate_NotFound(t *testing.T) {
	svc, mockRepo, _ := newTestService(t)
	ctx := context.Background()

	mockRepo.EXPECT().GetMember(ctx, customerId).Return(nil, mongo.ErrNoDocuments)
	_, err := svc.Evaluate(ctx, customerId, policy.KindScheme, retailSchemeId, policy.OperationRead)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	mockRepo.EXPECT().GetMember(ctx, customerId).Return(createCustomer(), nil)
	mockRepo.EXPECT().GetScheme(ctx, retailSchemeId).Return(nil, mongo.ErrNoDocuments)
	_, err = svc.Evaluate(ctx, customerId, policy.KindScheme, retailSchemeId, policy.OperationRead)
	assert.ErrorIs(t, err, ErrSchemeNotFound)
}

func TestAccessService_Evaluate_InvalidArguments(t *testing.T) {
	svc, mockRepo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Evaluate(ctx, customerId, policy.KindScheme, retailSchemeId, policy.Operation("create"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	mockRepo.EXPECT().GetMember(ctx, customerId).Return(createCustomer(), nil)
	_, err = svc.Evaluate(ctx, customerId, policy.Kind("wallet"), retailSchemeId, policy.OperationRead)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAccessService_Affordances(t *testing.T) {
	svc, mockRepo, _ := newTestService(t)
	ctx := context.Background()

	mockRepo.EXPECT().GetMember(ctx, whiteLabelId).Return(createWhiteLabel(), nil)
	mockRepo.EXPECT().GetScheme(ctx, retailSchemeId).Return(createRetailScheme(), nil)
	mockRepo.EXPECT().GetMember(ctx, retailerId).Return(createRetailer(), nil)

	got, err := svc.Affordances(ctx, whiteLabelId, policy.KindScheme, retailSchemeId)
	assert.NoError(t, err)
	assert.Equal(t, &Affordances{
		CanRead:             true,
		CanEdit:             false,
		CanDelete:           false,
		CanManageCommission: true,
		CanViewCommission:   true,
	}, got)
}

func TestAccessService_AccessibleSchemes(t *testing.T) {
	svc, mockRepo, _ := newTestService(t)
	ctx := context.Background()

	retailScheme := createRetailScheme()
	wlScheme := createWhiteLabelScheme()

	mockRepo.EXPECT().GetMember(ctx, whiteLabelId).Return(createWhiteLabel(), nil)
	mockRepo.EXPECT().GetAllSchemes(ctx).Return([]*model.Scheme{retailScheme, wlScheme}, nil)
	mockRepo.EXPECT().GetMembers(ctx, []uuid.UUID{retailerId, whiteLabelId}).
		Return([]*model.Member{createRetailer(), createWhiteLabel()}, nil)

	got, err := svc.AccessibleSchemes(ctx, whiteLabelId)
	assert.NoError(t, err)
	assert.Equal(t, []*model.Scheme{retailScheme, wlScheme}, got)

	// a customer only sees what it owns or created
	mockRepo.EXPECT().GetMember(ctx, customerId).Return(createCustomer(), nil)
	mockRepo.EXPECT().GetAllSchemes(ctx).Return([]*model.Scheme{retailScheme, wlScheme}, nil)
	mockRepo.EXPECT().GetMembers(ctx, []uuid.UUID{retailerId, whiteLabelId}).
		Return([]*model.Member{createRetailer(), createWhiteLabel()}, nil)

	got, err = svc.AccessibleSchemes(ctx, customerId)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestAccessService_AccessibleSchemes_CorruptOwner(t *testing.T) {
	svc, mockRepo, _ := newTestService(t)
	ctx := context.Background()

	mockRepo.EXPECT().GetMember(ctx, superAdminId).Return(createSuperAdmin(), nil)
	mockRepo.EXPECT().GetAllSchemes(ctx).Return([]*model.Scheme{createRetailScheme()}, nil)
	mockRepo.EXPECT().GetMembers(ctx, []uuid.UUID{retailerId}).
		Return([]*model.Member{{Id: retailerId, Role: "shopkeeper"}}, nil)

	got, err := svc.AccessibleSchemes(ctx, superAdminId)
	assert.ErrorIs(t, err, policy.ErrUnknownRole)
	assert.Nil(t, got)
}

type updatePermissionsTest struct {
	actor  *model.Member
	target *model.Member

	set   []string
	unset []string

	expectedPermissions []string
	expectedAdded       []string
	expectedRemoved     []string

	expectedErr error
}

var updatePermissionsTests = map[string]updatePermissionsTest{
	"delegated grant": {
		actor:  createWhiteLabel(),
		target: createDistributor("member:read"),
		set:    []string{"scheme:read"},

		expectedPermissions: []string{"member:read", "scheme:read"},
		expectedAdded:       []string{"scheme:read"},
	},
	"delegated set and unset": {
		actor:  createWhiteLabel(),
		target: createDistributor("member:read", "scheme:delete"),
		set:    []string{"member:read", "member:update"},
		unset:  []string{"scheme:delete"},

		expectedPermissions: []string{"member:read", "member:update"},
		expectedAdded:       []string{"member:update"},
		expectedRemoved:     []string{"scheme:delete"},
	},
	"superadmin grants anything": {
		actor:  createSuperAdmin(),
		target: createRetailer(),
		set:    []string{"scheme:delete"},

		expectedPermissions: []string{"scheme:delete"},
		expectedAdded:       []string{"scheme:delete"},
	},
	"cannot grant a key not held": {
		actor:       createWhiteLabel(),
		target:      createDistributor(),
		set:         []string{"scheme:delete"},
		expectedErr: ErrForbidden,
	},
	"not an ancestor": {
		actor:       createDistributor("member:update"),
		target:      createWhiteLabel(),
		unset:       []string{"member:update"},
		expectedErr: ErrForbidden,
	},
	"invalid key": {
		actor:       createSuperAdmin(),
		target:      createRetailer(),
		set:         []string{"wallet:debit"},
		expectedErr: ErrInvalidArgument,
	},
}

func TestAccessService_UpdateMemberPermissions(t *testing.T) {
	for name, test := range updatePermissionsTests {
		t.Run(name, func(t *testing.T) {
			svc, mockRepo, mockNotifier := newTestService(t)
			ctx := context.Background()

			if !errors.Is(test.expectedErr, ErrInvalidArgument) {
				mockRepo.EXPECT().GetMember(ctx, test.actor.Id).Return(test.actor, nil)
				mockRepo.EXPECT().GetMember(ctx, test.target.Id).Return(test.target, nil)
			}
			if test.expectedErr == nil {
				mockRepo.EXPECT().UpdateMemberPermissions(ctx, test.target.Id, test.expectedPermissions).Return(nil)
				mockNotifier.EXPECT().MemberPermissionsUpdate(ctx, gomock.Any(), test.expectedAdded, test.expectedRemoved).Return(nil)
			}

			member, err := svc.UpdateMemberPermissions(ctx, test.actor.Id, test.target.Id, test.set, test.unset)
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				assert.Nil(t, member)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.expectedPermissions, member.Permissions)
		})
	}
}

func TestAccessService_UpdateMemberPermissions_SelfServiceNoChange(t *testing.T) {
	svc, mockRepo, _ := newTestService(t)
	ctx := context.Background()

	self := createDistributor("member:read")
	mockRepo.EXPECT().GetMember(ctx, distributorId).Return(self, nil).Times(2)

	member, err := svc.UpdateMemberPermissions(ctx, distributorId, distributorId, []string{"member:read"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{"member:read"}, member.Permissions)
}

func TestAccessService_UpdateMemberPermissions_NotifierErrorIgnored(t *testing.T) {
	svc, mockRepo, mockNotifier := newTestService(t)
	ctx := context.Background()

	mockRepo.EXPECT().GetMember(ctx, superAdminId).Return(createSuperAdmin(), nil)
	mockRepo.EXPECT().GetMember(ctx, retailerId).Return(createRetailer(), nil)
	mockRepo.EXPECT().UpdateMemberPermissions(ctx, retailerId, []string{"member:read"}).Return(nil)
	mockNotifier.EXPECT().MemberPermissionsUpdate(ctx, gomock.Any(), []string{"member:read"}, nil).
		Return(errors.New("kafka down"))

	member, err := svc.UpdateMemberPermissions(ctx, superAdminId, retailerId, []string{"member:read"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{"member:read"}, member.Permissions)
}

func TestAccessService_UpdateSchemeCommission(t *testing.T) {
	ctx := context.Background()
	next := map[string]float64{"admin": 2, "whitelabel": 1.5, "masterdistributor": 1, "distributor": 0.8, "retailer": 0.6}

	t.Run("whitelabel changes retailer share", func(t *testing.T) {
		svc, mockRepo, mockNotifier := newTestService(t)

		mockRepo.EXPECT().GetMember(ctx, whiteLabelId).Return(createWhiteLabel(), nil)
		mockRepo.EXPECT().GetScheme(ctx, retailSchemeId).Return(createRetailScheme(), nil)
		mockRepo.EXPECT().GetMember(ctx, retailerId).Return(createRetailer(), nil)
		mockRepo.EXPECT().UpdateSchemeCommission(ctx, retailSchemeId, next).Return(nil)
		mockNotifier.EXPECT().SchemeCommissionUpdate(ctx, gomock.Any(), whiteLabelId).Return(nil)

		scheme, err := svc.UpdateSchemeCommission(ctx, whiteLabelId, retailSchemeId, next)
		assert.NoError(t, err)
		assert.Equal(t, next, scheme.Commission)
	})

	t.Run("whitelabel cannot change admin share", func(t *testing.T) {
		svc, mockRepo, _ := newTestService(t)

		mockRepo.EXPECT().GetMember(ctx, whiteLabelId).Return(createWhiteLabel(), nil)
		mockRepo.EXPECT().GetScheme(ctx, retailSchemeId).Return(createRetailScheme(), nil)
		mockRepo.EXPECT().GetMember(ctx, retailerId).Return(createRetailer(), nil)

		changed := map[string]float64{"admin": 2.5, "whitelabel": 1.5, "masterdistributor": 1, "distributor": 0.8, "retailer": 0.5}
		_, err := svc.UpdateSchemeCommission(ctx, whiteLabelId, retailSchemeId, changed)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.ErrorIs(t, err, policy.ErrCommissionField)
	})

	t.Run("customer is not permitted", func(t *testing.T) {
		svc, mockRepo, _ := newTestService(t)

		mockRepo.EXPECT().GetMember(ctx, customerId).Return(createCustomer(), nil)
		mockRepo.EXPECT().GetScheme(ctx, retailSchemeId).Return(createRetailScheme(), nil)
		mockRepo.EXPECT().GetMember(ctx, retailerId).Return(createRetailer(), nil)

		_, err := svc.UpdateSchemeCommission(ctx, customerId, retailSchemeId, next)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("hierarchy violated", func(t *testing.T) {
		svc, mockRepo, _ := newTestService(t)

		mockRepo.EXPECT().GetMember(ctx, superAdminId).Return(createSuperAdmin(), nil)
		mockRepo.EXPECT().GetScheme(ctx, retailSchemeId).Return(createRetailScheme(), nil)
		mockRepo.EXPECT().GetMember(ctx, retailerId).Return(createRetailer(), nil)

		_, err := svc.UpdateSchemeCommission(ctx, superAdminId, retailSchemeId, map[string]float64{"admin": 1, "retailer": 2})
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.ErrorIs(t, err, policy.ErrCommissionOrdering)
	})

	t.Run("share out of range", func(t *testing.T) {
		svc, mockRepo, _ := newTestService(t)

		mockRepo.EXPECT().GetMember(ctx, superAdminId).Return(createSuperAdmin(), nil)
		mockRepo.EXPECT().GetScheme(ctx, retailSchemeId).Return(createRetailScheme(), nil)
		mockRepo.EXPECT().GetMember(ctx, retailerId).Return(createRetailer(), nil)

		_, err := svc.UpdateSchemeCommission(ctx, superAdminId, retailSchemeId, map[string]float64{"admin": 250, "whitelabel": 120})
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.ErrorIs(t, err, policy.ErrCommissionRange)
	})

	t.Run("unpermitted caller gets forbidden before validation", func(t *testing.T) {
		svc, mockRepo, _ := newTestService(t)

		mockRepo.EXPECT().GetMember(ctx, customerId).Return(createCustomer(), nil)
		mockRepo.EXPECT().GetScheme(ctx, retailSchemeId).Return(createRetailScheme(), nil)
		mockRepo.EXPECT().GetMember(ctx, retailerId).Return(createRetailer(), nil)

		_, err := svc.UpdateSchemeCommission(ctx, customerId, retailSchemeId, map[string]float64{"admin": 1, "retailer": 2})
		assert.ErrorIs(t, err, ErrForbidden)
		assert.NotErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestMergePermissions(t *testing.T) {
	merged, added, removed := mergePermissions(
		[]string{"a", "b", "b", "c"},
		[]string{"c", "d", "b"},
		[]string{"b", "x"},
	)
	assert.Equal(t, []string{"a", "c", "d", "b"}, merged)
	assert.Equal(t, []string{"d"}, added)
	assert.Empty(t, removed)

	merged, added, removed = mergePermissions(nil, nil, []string{"a"})
	assert.Equal(t, []string{}, merged)
	assert.Nil(t, added)
	assert.Nil(t, removed)
}
