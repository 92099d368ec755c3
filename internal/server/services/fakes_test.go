package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/groups"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/permissions"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// fakeUsersRepo keeps users in memory and enforces username/email uniqueness
// the way the database constraints do.
type fakeUsersRepo struct {
	mu    sync.Mutex
	byID  map[string]*models.User
	order []string

	createErr error
	getErr    error
	existsErr error
	listErr   error
	created   int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.UserName == u.UserName || existing.Email == u.Email {
			return nil, common.ErrorConflict
		}
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.byID[cp.ID] = &cp
	f.order = append(f.order, cp.ID)
	out := cp
	return &out, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.UserName == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, u := range f.byID {
		if u.UserName == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.User, 0, len(f.order))
	for _, id := range f.order {
		cp := *f.byID[id]
		cp.PasswordHash = ""
		out = append(out, &cp)
	}
	return out, nil
}

// fakeRBAC models groups, memberships and grants.
type fakeRBAC struct {
	mu      sync.Mutex
	grants  map[string][]string
	members map[string][]string

	permErr  error
	groupErr error
	calls    int
}

func newFakeRBAC() *fakeRBAC {
	return &fakeRBAC{
		grants: map[string][]string{
			"admin":  {"view_users", "manage_groups"},
			"viewer": {"view_users"},
		},
		members: map[string][]string{},
	}
}

func (f *fakeRBAC) ForUser(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.permErr != nil {
		return nil, f.permErr
	}
	out := make([]string, 0)
	for _, g := range f.members[userID] {
		out = append(out, f.grants[g]...)
	}
	return out, nil
}

func (f *fakeRBAC) NamesForUser(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.groupErr != nil {
		return nil, f.groupErr
	}
	return append([]string(nil), f.members[userID]...), nil
}

func (f *fakeRBAC) AddMember(ctx context.Context, userID, group string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.groupErr != nil {
		return f.groupErr
	}
	if _, ok := f.grants[group]; !ok {
		return common.ErrorNotFound
	}
	for _, g := range f.members[userID] {
		if g == group {
			return nil
		}
	}
	f.members[userID] = append(f.members[userID], group)
	return nil
}

type fakeRepoManager struct {
	u    *fakeUsersRepo
	rbac *fakeRBAC
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), rbac: newFakeRBAC()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.u }
func (m *fakeRepoManager) Permissions(dbx.DBTX) permissions.Repository { return m.rbac }
func (m *fakeRepoManager) Groups(dbx.DBTX) groups.Repository           { return m.rbac }
