package domain

// Role is the single role carried by an Identity. The set is closed; values
// outside it are preserved verbatim but grant no permissions.
type Role string

const (
	RoleGuest          Role = "guest"
	RoleBuilder        Role = "builder"
	RoleTrustedBuilder Role = "trusted_builder"
	RoleModerator      Role = "moderator"
	RoleAdmin          Role = "admin"
)

// Permission is an action token the client checks to gate UI affordances.
// These checks are a convenience only; the backend enforces authorization.
type Permission string

const (
	PermView              Permission = "view"
	PermCreateBlocks      Permission = "create_blocks"
	PermCreatePaths       Permission = "create_paths"
	PermCreateSuggestions Permission = "create_suggestions"
	PermReviewSuggestions Permission = "review_suggestions"
	PermModerateContent   Permission = "moderate_content"
	PermUseAIAgents       Permission = "use_ai_agents"

	// PermAll is the admin wildcard. A role holding it satisfies every
	// permission query, including tokens no other role carries.
	PermAll Permission = "*"
)

// grants maps each role in the closed set to its permission grant set.
// Built once at package initialization, never mutated afterwards. Roles
// outside the closed set resolve to no entry and therefore no permissions.
var grants = map[Role]map[Permission]struct{}{
	RoleGuest:          permSet(PermView, PermCreateSuggestions),
	RoleBuilder:        permSet(PermView, PermCreateSuggestions, PermCreateBlocks, PermCreatePaths),
	RoleTrustedBuilder: permSet(PermView, PermCreateSuggestions, PermCreateBlocks, PermCreatePaths, PermUseAIAgents),
	RoleModerator: permSet(PermView, PermCreateSuggestions, PermCreateBlocks, PermCreatePaths,
		PermUseAIAgents, PermReviewSuggestions, PermModerateContent),
	RoleAdmin: permSet(PermAll),
}

func permSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Can reports whether the role grants the permission. Unknown roles and
// unknown tokens report false rather than erroring.
func (r Role) Can(p Permission) bool {
	set, ok := grants[r]
	if !ok {
		return false
	}
	if _, wildcard := set[PermAll]; wildcard {
		return true
	}
	_, granted := set[p]
	return granted
}

// Valid reports whether the role belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleBuilder, RoleTrustedBuilder, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Roles returns the closed role set in ascending privilege order.
func Roles() []Role {
	return []Role{RoleGuest, RoleBuilder, RoleTrustedBuilder, RoleModerator, RoleAdmin}
}

// AllPermissions returns every grantable permission token, wildcard excluded.
func AllPermissions() []Permission {
	return []Permission{
		PermView,
		PermCreateBlocks,
		PermCreatePaths,
		PermCreateSuggestions,
		PermReviewSuggestions,
		PermModerateContent,
		PermUseAIAgents,
	}
}
