package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	if a.user == nil {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.user.UserName)
}

// Root runs the REPL on stdin until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintf(a.out, "Welcome to gophauth CLI, using %s transport (type 'help' for commands)\n", a.config.Transport)
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
