package security

import "wrenlabs/board-api/model"

// Decide is the single ownership rule used for every owned resource type.
// Admins bypass ownership, everyone else only touches what they own.
// Role-gated checks (admin-only endpoints) go through HasRole before this
func Decide(actorRole model.Role, actorID, ownerID string) bool {
	switch actorRole {
	case model.RoleAdmin:
		return true
	case model.RoleModerator, model.RoleUser:
		return actorID != "" && actorID == ownerID
	default:
		// Unknown role, deny everything
		return false
	}
}

// HasRole reports whether the actor's role is in the required set
func HasRole(actorRole model.Role, required ...model.Role) bool {
	for _, r := range required {
		if actorRole == r {
			return true
		}
	}
	return false
}
