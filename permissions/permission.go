// Package permissions holds the route to role table enforced by the RBAC middleware.
// Paths are chi route patterns, e.g. /v1/bookings/{id}/cancel.
package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"termin/shared/constant"
)

//go:embed permissions.json
var permissionsData []byte

var knownRoles = []string{constant.RoleSuperAdmin, constant.RoleAdmin, constant.RoleUser}

type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the route. An empty role list admits everyone authenticated.
func (p Permission) Allows(role string) bool {
	return len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	byRoute map[string]Permission
}

func routeKey(method, path string) string {
	return method + " " + path
}

// FindPermissions returns the entry for a route pattern. Routes missing from the table
// get the zero Permission.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	return r.byRoute[routeKey(method, path)]
}

// Parse decodes and indexes a permission table. Duplicate routes and unknown roles are rejected.
func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	permissions.byRoute = make(map[string]Permission, len(permissions.Endpoints))

	for _, endpoint := range permissions.Endpoints {
		key := routeKey(endpoint.Method, endpoint.Path)

		if _, dup := permissions.byRoute[key]; dup {
			return nil, fmt.Errorf("duplicate permission for %s", key)
		}

		for _, role := range endpoint.Permissions {
			if !slices.Contains(knownRoles, role) {
				return nil, fmt.Errorf("unknown role %q for %s", role, key)
			}
		}

		permissions.byRoute[key] = endpoint
	}

	return &permissions, nil
}

// Get loads the embedded table. A broken table stops the process.
func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load embedded permissions")
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Loaded embedded permissions")

	return permissions
}
