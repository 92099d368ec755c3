package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

// Permissions checked by the built-in routes.
const (
	PermViewUsers    = "view_users"
	PermManageGroups = "manage_groups"
)

// PermissionSet is the set of permission names a user holds.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from names; duplicates collapse.
func NewPermissionSet(names ...string) PermissionSet {
	set := make(PermissionSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func (p PermissionSet) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// HasAll reports whether every name is in the set. An empty list is satisfied.
func (p PermissionSet) HasAll(names ...string) bool {
	for _, n := range names {
		if !p.Has(n) {
			return false
		}
	}
	return true
}

// Names returns the members in sorted order.
func (p PermissionSet) Names() []string {
	out := make([]string, 0, len(p))
	for n := range p {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// PermissionService resolves a user's effective permissions through group
// membership. Nothing is cached: every call reads the current grants, so a
// membership change is visible on the next checked request.
type PermissionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPermissionService(db *sql.DB, m repomanager.RepositoryManager) *PermissionService {
	return &PermissionService{db: db, repomanager: m}
}

// PermissionsFor returns the union of permissions over all of the user's
// groups. A user in no groups, or an id that is not a UUID, gets an empty set.
func (s *PermissionService) PermissionsFor(ctx context.Context, userID string) (PermissionSet, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return PermissionSet{}, nil
	}

	names, err := s.repomanager.Permissions(s.db).ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorStore, err)
	}
	return NewPermissionSet(names...), nil
}

func (s *PermissionService) HasPermission(ctx context.Context, userID, name string) (bool, error) {
	set, err := s.PermissionsFor(ctx, userID)
	if err != nil {
		return false, err
	}
	return set.Has(name), nil
}
