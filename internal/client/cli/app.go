package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/client/session"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// sessionStore is the part of session.Store the CLI uses.
type sessionStore interface {
	Load(ctx context.Context) (session.Session, error)
	Save(ctx context.Context, s session.Session) error
	Clear(ctx context.Context) error
	Close() error
}

type App struct {
	config  *config.Config
	client  client.Client
	session sessionStore
	user    *models.User
	reader  *bufio.Reader
	out     io.Writer
}

// newClient is a test seam.
var newClient = func(c *config.Config) (client.Client, error) {
	switch c.Transport {
	case config.TransportHTTP:
		return client.NewHTTPClient(c.ServerURL, &http.Client{Timeout: c.Timeout}), nil
	case config.TransportGRPC:
		return client.NewGRPCClient(c.GRPCAddr)
	default:
		return nil, fmt.Errorf("unknown transport %q", c.Transport)
	}
}

func NewApp(c *config.Config) (*App, error) {
	cl, err := newClient(c)
	if err != nil {
		return nil, err
	}

	a := &App{config: c, client: cl, reader: bufio.NewReader(os.Stdin), out: os.Stdout}

	if c.SessionFile != "" {
		s, err := session.Open(context.Background(), c.SessionFile)
		if err != nil {
			cl.Close()
			return nil, err
		}
		a.session = s
	}
	return a, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	if a.session != nil {
		defer a.session.Close()
	}
	a.restore(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

// restore picks up the token saved by a previous run. The user counts as
// logged in until the server says otherwise.
func (a *App) restore(ctx context.Context) {
	if a.session == nil {
		return
	}
	s, err := a.session.Load(ctx)
	if err != nil {
		log.Printf("error loading session: %v", err)
		return
	}
	if s.Token == "" {
		return
	}
	a.client.SetToken(s.Token)
	a.user = &models.User{UserName: s.UserName}
}

func (a *App) remember(ctx context.Context) {
	if a.session == nil || a.user == nil {
		return
	}
	if err := a.session.Save(ctx, session.Session{Token: a.client.Token(), UserName: a.user.UserName}); err != nil {
		log.Printf("error saving session: %v", err)
	}
}

func (a *App) forget(ctx context.Context) {
	if a.session == nil {
		return
	}
	if err := a.session.Clear(ctx); err != nil {
		log.Printf("error clearing session: %v", err)
	}
}

// callCtx bounds a single server call by the configured timeout.
func (a *App) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.Timeout)
}
