// Package services contains server-side business logic. UserService handles
// registration, login and user administration; PermissionService resolves
// what an authenticated user may do.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/validation"
)

// UserService provides authentication-related operations:
// - Register: create users and hand back their first token
// - Login: verify credentials and mint tokens
// - Me / ListUsers / AssignGroup: read users and manage membership
type UserService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	hasher       *auth.Hasher
	issuer       *auth.Issuer
	logger       logging.Logger
	metrics      *metrics.Metrics
	includeRoles bool

	// dummyHash is verified when the username is unknown so that both
	// failure paths cost one Argon2 computation.
	dummyHash string
}

type UserServiceOption func(*UserService)

func WithLogger(l logging.Logger) UserServiceOption {
	return func(s *UserService) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) UserServiceOption {
	return func(s *UserService) { s.metrics = m }
}

// WithRoles controls whether issued tokens carry the user's group names.
func WithRoles(include bool) UserServiceOption {
	return func(s *UserService) { s.includeRoles = include }
}

// NewUserService constructs a UserService. It hashes a throwaway password
// once to obtain the dummy hash used on unknown-user logins.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.Hasher, issuer *auth.Issuer, opts ...UserServiceOption) (*UserService, error) {
	s := &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		issuer:      issuer,
		logger:      logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}

	seed, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorHashing, err)
	}
	s.dummyHash, err = hasher.Hash(seed)
	if err != nil {
		return nil, err
	}
	s.logger = s.logger.With("module", "user_service")
	return s, nil
}

// Register validates the request, rejects taken usernames or emails, hashes
// the password and, inside one read-committed transaction, inserts the user
// and issues its token. Any failure leaves no user row behind.
func (s *UserService) Register(ctx context.Context, req validation.RegisterRequest) (*models.User, string, error) {
	if err := req.Validate(); err != nil {
		s.metrics.Registration(metrics.OutcomeInvalid)
		return nil, "", fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	exists, err := s.repomanager.Users(s.db).ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		s.metrics.Registration(metrics.OutcomeError)
		return nil, "", fmt.Errorf("%w: %v", common.ErrorStore, err)
	}
	if exists {
		s.metrics.Registration(metrics.OutcomeConflict)
		return nil, "", fmt.Errorf("%w: username or email already taken", common.ErrorConflict)
	}

	// fail before touching the store if no token could be signed afterwards
	if err := s.issuer.CheckKey(); err != nil {
		s.metrics.Registration(metrics.OutcomeError)
		return nil, "", err
	}

	start := time.Now()
	hash, err := s.hasher.Hash(req.Password)
	s.metrics.ObserveHash(start)
	if err != nil {
		s.metrics.Registration(metrics.OutcomeError)
		return nil, "", err
	}

	var (
		user  *models.User
		token string
	)
	err = dbx.WithTx(ctx, s.db, dbx.ReadCommitted, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			UserName:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
		})
		if err != nil {
			if errors.Is(err, common.ErrorConflict) {
				return err
			}
			return fmt.Errorf("%w: %v", common.ErrorStore, err)
		}

		roles, err := s.roles(ctx, tx, u.ID)
		if err != nil {
			return err
		}

		token, _, err = s.issuer.Issue(u.ID, roles)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			s.metrics.Registration(metrics.OutcomeConflict)
			return nil, "", err
		}
		s.metrics.Registration(metrics.OutcomeError)
		s.logger.Error(ctx, "registration failed", "username", req.Username, "error", err)
		// begin/commit failures come back from WithTx unwrapped
		if !errors.Is(err, common.ErrorStore) && !errors.Is(err, common.ErrorSigning) {
			err = fmt.Errorf("%w: %v", common.ErrorStore, err)
		}
		return nil, "", err
	}

	s.metrics.Registration(metrics.OutcomeSuccess)
	s.logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.UserName)
	return user, token, nil
}

// Login verifies the credentials and issues a token. Unknown usernames,
// wrong passwords and unreadable stored hashes all yield the same
// common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, req validation.LoginRequest) (*models.User, string, error) {
	if err := req.Validate(); err != nil {
		s.metrics.Login(metrics.OutcomeInvalid)
		return nil, "", fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(req.Password, s.dummyHash)
			s.metrics.Login(metrics.OutcomeUnauthorized)
			return nil, "", errInvalidCredentials
		}
		s.metrics.Login(metrics.OutcomeError)
		return nil, "", fmt.Errorf("%w: %v", common.ErrorStore, err)
	}

	start := time.Now()
	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	s.metrics.ObserveHash(start)
	if err != nil {
		s.logger.Warn(ctx, "stored password hash is unreadable", "user_id", user.ID, "error", err)
	}
	if !ok {
		s.metrics.Login(metrics.OutcomeUnauthorized)
		return nil, "", errInvalidCredentials
	}

	roles, err := s.roles(ctx, s.db, user.ID)
	if err != nil {
		s.metrics.Login(metrics.OutcomeError)
		return nil, "", err
	}

	token, _, err := s.issuer.Issue(user.ID, roles)
	if err != nil {
		s.metrics.Login(metrics.OutcomeError)
		s.logger.Error(ctx, "token issue failed", "user_id", user.ID, "error", err)
		return nil, "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.metrics.Login(metrics.OutcomeSuccess)
	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return user, token, nil
}

var errInvalidCredentials = fmt.Errorf("%w: invalid username or password", common.ErrorUnauthorized)

// Me returns the user the token was issued to.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, common.ErrorNotFound
	}

	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorStore, err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorStore, err)
	}
	return users, nil
}

// AssignGroup adds the user to the named group. The new permissions apply
// from the next checked request; tokens already issued keep their roles claim.
func (s *UserService) AssignGroup(ctx context.Context, userID string, req validation.AssignGroupRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	if _, err := uuid.Parse(userID); err != nil {
		return fmt.Errorf("%w: user %q", common.ErrorNotFound, userID)
	}

	if err := s.repomanager.Groups(s.db).AddMember(ctx, userID, req.Group); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", common.ErrorStore, err)
	}

	s.logger.Info(ctx, "group membership added", "user_id", userID, "group", req.Group)
	return nil
}

func (s *UserService) roles(ctx context.Context, db dbx.DBTX, userID string) ([]string, error) {
	if !s.includeRoles {
		return nil, nil
	}
	names, err := s.repomanager.Groups(db).NamesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorStore, err)
	}
	if len(names) == 0 {
		return nil, nil
	}
	return names, nil
}
