// Package policy implements the role and company-scoping decision procedure
// shared by every resource controller.
package policy

import "github.com/aspectfv/talento-mvp/internal/model"

// Verb classifies the operation being attempted on a resource.
type Verb int

const (
	// VerbRead covers fetch and list operations
	VerbRead Verb = iota
	// VerbCreate covers inserts
	VerbCreate
	// VerbUpdate covers mutations of an existing record
	VerbUpdate
	// VerbDelete covers soft deletes
	VerbDelete
)

// Outcome is the decision for one (actor, verb, resource) triple.
type Outcome int

const (
	// Allow permits the operation
	Allow Outcome = iota
	// DenyNotFound rejects without confirming the resource exists (404)
	DenyNotFound
	// DenyForbidden rejects an operation the actor may not perform (403)
	DenyForbidden
)

// Resource describes the scoping attributes of the record being acted on.
// Fields that do not apply to a resource type stay nil.
type Resource struct {
	// CompanyID is the owning company, checked against admin affiliation
	CompanyID *uint
	// OwnerUserID is the owning user, checked against seeker identity
	OwnerUserID *uint
	// Public marks resources readable without scope (active job postings)
	Public bool
}

// Resolve decides whether actor may perform verb on res. A nil actor is an
// unauthenticated caller and may only read public resources.
//
// Denied reads resolve to DenyNotFound so an out-of-scope caller cannot
// probe for existence; denied writes resolve to DenyForbidden.
func Resolve(actor *model.User, verb Verb, res Resource) Outcome {
	if actor == nil {
		if verb == VerbRead && res.Public {
			return Allow
		}
		return deny(verb)
	}

	switch actor.Role {
	case model.RoleSuperadmin:
		return Allow

	case model.RoleAdmin:
		if actor.CompanyID == nil {
			return deny(verb)
		}
		if verb == VerbCreate {
			// creation targets the admin's own company unless stated otherwise
			if res.CompanyID == nil || *res.CompanyID == *actor.CompanyID {
				return Allow
			}
			return deny(verb)
		}
		if res.CompanyID != nil && *res.CompanyID == *actor.CompanyID {
			return Allow
		}
		if res.OwnerUserID != nil && *res.OwnerUserID == actor.ID {
			return Allow
		}
		if verb == VerbRead && res.Public {
			return Allow
		}
		return deny(verb)

	case model.RoleSeeker:
		if res.OwnerUserID != nil && *res.OwnerUserID == actor.ID {
			return Allow
		}
		if verb == VerbRead && res.Public {
			return Allow
		}
		return deny(verb)
	}

	return deny(verb)
}

func deny(verb Verb) Outcome {
	if verb == VerbRead {
		return DenyNotFound
	}
	return DenyForbidden
}
