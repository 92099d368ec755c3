package client

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type Client interface {
	Close() error
	Register(ctx context.Context, username, email string, password []byte) (*models.User, error)
	Login(ctx context.Context, username string, password []byte) (*models.User, error)
	Me(ctx context.Context) (*models.User, error)
	Token() string
	SetToken(token string)
}
