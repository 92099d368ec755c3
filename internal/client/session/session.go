// Package session keeps the CLI's token between runs in a local SQLite file.
package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/gophauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophauth/internal/client/session/migrations"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/filex"
)

const (
	keyToken    = "token"
	keyUserName = "username"
)

// Session is what survives a CLI restart.
type Session struct {
	Token    string
	UserName string
}

type Store struct {
	db   *sql.DB
	repo metadata.Repository
}

// Open opens (creating if needed) the SQLite file at path, together with
// its parent directory, and applies the embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	path, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, fmt.Errorf("session dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("session open: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		db.Close()
		return nil, fmt.Errorf("session migrations: %w", err)
	}

	return &Store{db: db, repo: metadata.NewSQLiteRepository(db)}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the saved session; a zero Session means none was saved.
func (s *Store) Load(ctx context.Context) (Session, error) {
	token, err := s.repo.Get(ctx, keyToken)
	if err != nil {
		return Session{}, err
	}
	name, err := s.repo.Get(ctx, keyUserName)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: string(token), UserName: string(name)}, nil
}

// Save replaces the stored session atomically.
func (s *Store) Save(ctx context.Context, sess Session) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyToken, []byte(sess.Token)); err != nil {
			return err
		}
		return repo.Set(ctx, keyUserName, []byte(sess.UserName))
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
