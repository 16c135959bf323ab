package permissions_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termin/permissions"
	"termin/shared/constant"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name     string
		method   string
		path     string
		skip     bool
		allowed  []string
		rejected []string
	}{
		{name: "public slot listing", method: http.MethodGet, path: "/v1/time-slots", skip: true},
		{name: "public consent", method: http.MethodPost, path: "/v1/consent/accept", skip: true},
		{
			name:    "parents book slots",
			method:  http.MethodPost,
			path:    "/v1/bookings",
			allowed: []string{constant.RoleUser, constant.RoleAdmin, constant.RoleSuperAdmin},
		},
		{
			name:     "only staff opens slots",
			method:   http.MethodPost,
			path:     "/v1/time-slots/batch",
			allowed:  []string{constant.RoleAdmin, constant.RoleSuperAdmin},
			rejected: []string{constant.RoleUser},
		},
		{
			name:     "only staff confirms",
			method:   http.MethodPost,
			path:     "/v1/bookings/{id}/confirm",
			allowed:  []string{constant.RoleAdmin},
			rejected: []string{constant.RoleUser},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.skip, permission.Skip)

			for _, role := range tt.allowed {
				assert.True(t, permission.Allows(role), role)
			}

			for _, role := range tt.rejected {
				assert.False(t, permission.Allows(role), role)
			}
		})
	}
}

func TestFindPermissions_Unknown(t *testing.T) {
	data, err := permissions.Parse([]byte(`{"endpoints":[{"path":"/v1/a","method":"GET","skip":true}]}`))
	require.NoError(t, err)

	assert.Equal(t, permissions.Permission{}, data.FindPermissions("/v1/b", http.MethodGet))
	assert.True(t, data.FindPermissions("/v1/a", http.MethodGet).Skip)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"malformed":    `{`,
		"unknown role": `{"endpoints":[{"path":"/v1/a","method":"GET","permissions":["janitor"]}]}`,
		"duplicate":    `{"endpoints":[{"path":"/v1/a","method":"GET"},{"path":"/v1/a","method":"GET","skip":true}]}`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := permissions.Parse([]byte(raw))

			assert.Error(t, err)
		})
	}
}

func TestPermission_Allows(t *testing.T) {
	assert.True(t, permissions.Permission{}.Allows(constant.RoleUser))
	assert.False(t, permissions.Permission{Permissions: []string{constant.RoleAdmin}}.Allows(constant.RoleUser))
}
