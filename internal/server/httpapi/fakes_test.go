package httpapi

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/groups"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/permissions"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// memStore is an in-memory stand-in for the PostgreSQL repositories.
type memStore struct {
	mu      sync.Mutex
	users   []*models.User
	members map[string][]string
	grants  map[string][]string
}

func newMemStore() *memStore {
	return &memStore{
		members: map[string][]string{},
		grants: map[string][]string{
			"admin":  {"view_users", "manage_groups"},
			"viewer": {"view_users"},
		},
	}
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memStore) Users(dbx.DBTX) users.Repository             { return (*memUsers)(m) }
func (m *memStore) Permissions(dbx.DBTX) permissions.Repository { return (*memRBAC)(m) }
func (m *memStore) Groups(dbx.DBTX) groups.Repository           { return (*memRBAC)(m) }

type memUsers memStore

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.users {
		if e.UserName == u.UserName || e.Email == u.Email {
			return nil, common.ErrorConflict
		}
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	m.users = append(m.users, &cp)
	out := cp
	return &out, nil
}

func (m *memUsers) find(match func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.UserName == login })
}

func (m *memUsers) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.ID == id })
}

func (m *memUsers) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	_, err := m.find(func(u *models.User) bool { return u.UserName == username || u.Email == email })
	return err == nil, nil
}

func (m *memUsers) List(ctx context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		cp.PasswordHash = ""
		out = append(out, &cp)
	}
	return out, nil
}

type memRBAC memStore

func (m *memRBAC) ForUser(ctx context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0)
	for _, g := range m.members[userID] {
		out = append(out, m.grants[g]...)
	}
	return out, nil
}

func (m *memRBAC) NamesForUser(ctx context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.members[userID]...), nil
}

func (m *memRBAC) AddMember(ctx context.Context, userID, group string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.grants[group]; !ok {
		return common.ErrorNotFound
	}
	m.members[userID] = append(m.members[userID], group)
	return nil
}
