// Package groups manages group membership.
package groups

import "context"

type Repository interface {
	// NamesForUser returns the names of the groups the user belongs to.
	NamesForUser(ctx context.Context, userID string) ([]string, error)
	// AddMember puts the user into the named group. Adding an existing member
	// is a no-op. An unknown group or user yields common.ErrorNotFound.
	AddMember(ctx context.Context, userID, groupName string) error
}
