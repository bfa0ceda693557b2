package app

import "cinelog/pkg/domain"

// requireAdmin gates admin-only operations.
func requireAdmin(actor domain.User) error {
	if actor.Role != domain.RoleAdmin {
		return Forbiddenf("administrator access required")
	}
	return nil
}

// canModifyReview: the author may edit or delete their own review, and an
// admin may moderate anyone's.
func canModifyReview(actor domain.User, review domain.Review) bool {
	return actor.ID == review.UserID || actor.Role == domain.RoleAdmin
}

// checkAdminTarget enforces the moderation boundaries: an admin cannot use
// the admin endpoints on their own account, and cannot modify or delete
// another administrator.
func checkAdminTarget(actor, target domain.User) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == target.ID {
		return Forbiddenf("cannot modify your own account through admin endpoints")
	}
	if target.Role == domain.RoleAdmin {
		return Forbiddenf("cannot modify another administrator")
	}
	return nil
}
