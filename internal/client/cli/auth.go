package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for username, email and password and creates the account.
// On success the user counts as logged in with the returned token.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	u, err := a.client.Register(ctx, userName, email, password)
	if err != nil {
		fmt.Fprintf(a.out, "Registration failed: %v\n", err)
		return err
	}

	a.user = u
	a.remember(ctx)
	fmt.Fprintf(a.out, "Registered %s (%s)\n", u.UserName, u.ID)
	return nil
}

// Login prompts for credentials and authenticates. A failed attempt keeps
// the previous session, if any.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	u, err := a.client.Login(ctx, userName, password)
	if err != nil {
		fmt.Fprintf(a.out, "Login unsuccessful: %v\n", err)
		return err
	}

	a.user = u
	a.remember(ctx)
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Me asks the server who the current token belongs to. A rejected token
// ends the local session.
func (a *App) Me(ctx context.Context) error {
	callCtx, cancel := a.callCtx(ctx)
	defer cancel()

	u, err := a.client.Me(callCtx)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		if errors.Is(err, client.ErrUnauthorized) && a.user != nil {
			a.user = nil
			a.client.SetToken("")
			a.forget(ctx)
		}
		return err
	}
	a.user = u
	fmt.Fprintf(a.out, "id:       %s\nusername: %s\nemail:    %s\ncreated:  %s\n",
		u.ID, u.UserName, u.Email, u.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

// Token prints the token held by the client.
func (a *App) Token(context.Context) error {
	t := a.client.Token()
	if t == "" {
		fmt.Fprintln(a.out, "no token, login first")
		return nil
	}
	fmt.Fprintln(a.out, t)
	return nil
}

// Logout forgets the local session. Tokens are stateless, so the server
// keeps accepting the old one until it expires.
func (a *App) Logout(ctx context.Context) error {
	a.user = nil
	a.client.SetToken("")
	a.forget(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
