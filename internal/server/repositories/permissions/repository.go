// Package permissions reads the permission names granted to a user through
// group membership.
package permissions

import "context"

type Repository interface {
	// ForUser returns the distinct permission names held by the user via any
	// of their groups. A user in no groups gets an empty slice.
	ForUser(ctx context.Context, userID string) ([]string, error)
}
