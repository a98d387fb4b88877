package auth

import (
	"fmt"
	"strings"

	"github.com/atelierlocal/backend/internal/models"
)

type requirementKind int

const (
	reqOwnerOrAdmin requirementKind = iota
	reqRoleExactly
	reqRoleAnyOf
)

// Requirement describes what a caller must satisfy to perform an operation.
// Build one with OwnerOrAdmin, RoleExactly, AdminOnly or RoleAnyOf and
// evaluate it with Check.
type Requirement struct {
	kind    requirementKind
	ownerID string
	roles   []string
}

func OwnerOrAdmin(ownerID string) Requirement {
	return Requirement{kind: reqOwnerOrAdmin, ownerID: ownerID}
}

func RoleExactly(role string) Requirement {
	return Requirement{kind: reqRoleExactly, roles: []string{role}}
}

func AdminOnly() Requirement {
	return RoleExactly(models.RoleAdmin)
}

func RoleAnyOf(roles ...string) Requirement {
	return Requirement{kind: reqRoleAnyOf, roles: roles}
}

// Check returns nil when the principal satisfies the requirement, otherwise
// an error wrapping ErrAccessDenied with a human-readable reason. Callers
// must treat a denial as terminal for the request.
func Check(p Principal, r Requirement) error {
	switch r.kind {
	case reqOwnerOrAdmin:
		if p.Role == models.RoleAdmin || p.ID == r.ownerID {
			return nil
		}
		return fmt.Errorf("%w: not the resource owner", ErrAccessDenied)
	case reqRoleExactly:
		if len(r.roles) == 1 && p.Role == r.roles[0] {
			return nil
		}
		return fmt.Errorf("%w: role %s required", ErrAccessDenied, r.roles[0])
	case reqRoleAnyOf:
		for _, role := range r.roles {
			if p.Role == role {
				return nil
			}
		}
		return fmt.Errorf("%w: one of roles %s required", ErrAccessDenied, strings.Join(r.roles, ", "))
	}
	return fmt.Errorf("%w: unknown requirement", ErrAccessDenied)
}
