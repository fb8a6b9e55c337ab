package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aspectfv/talento-mvp/internal/model"
)

func uintPtr(v uint) *uint { return &v }

func seeker(id uint) *model.User {
	return &model.User{ID: id, Role: model.RoleSeeker}
}

func admin(id, companyID uint) *model.User {
	return &model.User{ID: id, Role: model.RoleAdmin, CompanyID: uintPtr(companyID)}
}

func TestResolveSuperadminUnrestricted(t *testing.T) {
	actor := &model.User{ID: 1, Role: model.RoleSuperadmin}

	for _, verb := range []Verb{VerbRead, VerbCreate, VerbUpdate, VerbDelete} {
		assert.Equal(t, Allow, Resolve(actor, verb, Resource{CompanyID: uintPtr(42)}))
		assert.Equal(t, Allow, Resolve(actor, verb, Resource{OwnerUserID: uintPtr(7)}))
		assert.Equal(t, Allow, Resolve(actor, verb, Resource{}))
	}
}

func TestResolveAdminCompanyScope(t *testing.T) {
	actor := admin(2, 10)

	assert.Equal(t, Allow, Resolve(actor, VerbRead, Resource{CompanyID: uintPtr(10)}))
	assert.Equal(t, Allow, Resolve(actor, VerbUpdate, Resource{CompanyID: uintPtr(10)}))

	// out of scope: reads hide existence, writes are forbidden
	assert.Equal(t, DenyNotFound, Resolve(actor, VerbRead, Resource{CompanyID: uintPtr(11)}))
	assert.Equal(t, DenyForbidden, Resolve(actor, VerbUpdate, Resource{CompanyID: uintPtr(11)}))
	assert.Equal(t, DenyForbidden, Resolve(actor, VerbDelete, Resource{CompanyID: uintPtr(11)}))
}

func TestResolveAdminCreateRequiresAffiliation(t *testing.T) {
	affiliated := admin(2, 10)
	unaffiliated := &model.User{ID: 3, Role: model.RoleAdmin}

	assert.Equal(t, Allow, Resolve(affiliated, VerbCreate, Resource{}))
	assert.Equal(t, Allow, Resolve(affiliated, VerbCreate, Resource{CompanyID: uintPtr(10)}))
	assert.Equal(t, DenyForbidden, Resolve(affiliated, VerbCreate, Resource{CompanyID: uintPtr(11)}))
	assert.Equal(t, DenyForbidden, Resolve(unaffiliated, VerbCreate, Resource{}))
}

func TestResolveAdminOwnRecord(t *testing.T) {
	actor := admin(2, 10)

	assert.Equal(t, Allow, Resolve(actor, VerbRead, Resource{OwnerUserID: uintPtr(2)}))
	assert.Equal(t, Allow, Resolve(actor, VerbUpdate, Resource{OwnerUserID: uintPtr(2)}))
	assert.Equal(t, DenyNotFound, Resolve(actor, VerbRead, Resource{OwnerUserID: uintPtr(9)}))
}

func TestResolveSeekerOwnership(t *testing.T) {
	actor := seeker(5)

	assert.Equal(t, Allow, Resolve(actor, VerbRead, Resource{OwnerUserID: uintPtr(5)}))
	assert.Equal(t, Allow, Resolve(actor, VerbUpdate, Resource{OwnerUserID: uintPtr(5)}))

	assert.Equal(t, DenyNotFound, Resolve(actor, VerbRead, Resource{OwnerUserID: uintPtr(6)}))
	assert.Equal(t, DenyForbidden, Resolve(actor, VerbUpdate, Resource{OwnerUserID: uintPtr(6)}))
}

func TestResolveSeekerNeverWritesCompanyResources(t *testing.T) {
	actor := seeker(5)

	for _, verb := range []Verb{VerbCreate, VerbUpdate, VerbDelete} {
		assert.Equal(t, DenyForbidden, Resolve(actor, verb, Resource{CompanyID: uintPtr(10)}))
	}
}

func TestResolveSeekerReadsPublic(t *testing.T) {
	actor := seeker(5)

	assert.Equal(t, Allow, Resolve(actor, VerbRead, Resource{CompanyID: uintPtr(10), Public: true}))
	assert.Equal(t, DenyNotFound, Resolve(actor, VerbRead, Resource{CompanyID: uintPtr(10)}))
}

func TestResolveUnauthenticated(t *testing.T) {
	assert.Equal(t, Allow, Resolve(nil, VerbRead, Resource{Public: true}))
	assert.Equal(t, DenyNotFound, Resolve(nil, VerbRead, Resource{}))
	assert.Equal(t, DenyForbidden, Resolve(nil, VerbCreate, Resource{}))
	assert.Equal(t, DenyForbidden, Resolve(nil, VerbUpdate, Resource{Public: true}))
}
