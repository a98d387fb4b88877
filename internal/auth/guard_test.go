package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atelierlocal/backend/internal/models"
)

func principal(id, role string) Principal {
	return Principal{ID: id, Email: id + "@x.com", Role: role, Active: true}
}

func TestOwnerOrAdmin(t *testing.T) {
	tests := []struct {
		name    string
		p       Principal
		ownerID string
		allowed bool
	}{
		{"owner allowed", principal("u1", models.RoleClient), "u1", true},
		{"admin allowed regardless of owner", principal("u2", models.RoleAdmin), "someone-else", true},
		{"other client denied", principal("u3", models.RoleClient), "u1", false},
		{"artisan denied on foreign resource", principal("u4", models.RoleArtisan), "u1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.p, OwnerOrAdmin(tt.ownerID))
			if tt.allowed {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrAccessDenied)
			}
		})
	}
}

func TestRoleExactly(t *testing.T) {
	require.NoError(t, Check(principal("u1", models.RoleClient), RoleExactly(models.RoleClient)))
	err := Check(principal("u1", models.RoleArtisan), RoleExactly(models.RoleClient))
	require.ErrorIs(t, err, ErrAccessDenied)
	require.Contains(t, err.Error(), "role CLIENT required")
	// Admin gets no special treatment from an exact-role requirement.
	require.ErrorIs(t, Check(principal("u1", models.RoleAdmin), RoleExactly(models.RoleClient)), ErrAccessDenied)
}

func TestAdminOnly(t *testing.T) {
	require.NoError(t, Check(principal("u1", models.RoleAdmin), AdminOnly()))
	require.ErrorIs(t, Check(principal("u1", models.RoleClient), AdminOnly()), ErrAccessDenied)
}

func TestRoleAnyOf(t *testing.T) {
	req := RoleAnyOf(models.RoleClient, models.RoleArtisan)
	require.NoError(t, Check(principal("u1", models.RoleClient), req))
	require.NoError(t, Check(principal("u1", models.RoleArtisan), req))
	require.ErrorIs(t, Check(principal("u1", models.RoleAdmin), req), ErrAccessDenied)
	require.ErrorIs(t, Check(principal("u1", models.RoleClient), RoleAnyOf()), ErrAccessDenied)
}

func TestDenialCarriesReason(t *testing.T) {
	err := Check(principal("u1", models.RoleClient), OwnerOrAdmin("u2"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not the resource owner")
}

func TestBearerExtraction(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "Bearer ", "Basic abc", "abc.def.ghi"} {
		_, err := ExtractBearerToken(header)
		require.Error(t, err, "header=%q", header)
	}
}
