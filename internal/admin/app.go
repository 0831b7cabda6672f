// Package admin implements the maintenance commands run from a terminal:
// applying migrations, creating accounts and resetting passwords.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/todolists/internal/common"
	"github.com/dmitrijs2005/todolists/internal/server/forms"
	"github.com/dmitrijs2005/todolists/internal/server/models"
)

const usage = `usage:
  admin migrate
  admin adduser <username> <email>
  admin passwd <username>`

var ErrUsage = errors.New(usage)

type Accounts interface {
	Register(ctx context.Context, in forms.RegisterInput) (*models.User, error)
	SetPassword(ctx context.Context, username, password string) error
}

type App struct {
	accounts Accounts
	migrate  func(ctx context.Context) error
	out      io.Writer
}

func NewApp(accounts Accounts, migrate func(ctx context.Context) error, out io.Writer) *App {
	return &App{accounts: accounts, migrate: migrate, out: out}
}

// Run executes the subcommand named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "migrate":
		if len(rest) != 0 {
			return ErrUsage
		}
		return a.runMigrate(ctx)
	case "adduser":
		if len(rest) != 2 {
			return ErrUsage
		}
		return a.addUser(ctx, rest[0], rest[1])
	case "passwd":
		if len(rest) != 1 {
			return ErrUsage
		}
		return a.passwd(ctx, rest[0])
	default:
		return ErrUsage
	}
}

func (a *App) runMigrate(ctx context.Context) error {
	if err := a.migrate(ctx); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	fmt.Fprintln(a.out, "Migrations applied.")
	return nil
}

func (a *App) addUser(ctx context.Context, username, email string) error {
	pw, err := getNewPassword(a.out)
	if err != nil {
		return err
	}

	u, err := a.accounts.Register(ctx, forms.RegisterInput{
		Username:       username,
		Email:          email,
		Password:       pw,
		PasswordRepeat: pw,
	})
	if err != nil {
		return fmt.Errorf("cannot create user: %w", err)
	}

	fmt.Fprintf(a.out, "User %s created.\n", u.UserName)
	return nil
}

func (a *App) passwd(ctx context.Context, username string) error {
	pw, err := getNewPassword(a.out)
	if err != nil {
		return err
	}
	if pw == "" {
		return errors.New("password must not be empty")
	}

	if err := a.accounts.SetPassword(ctx, username, pw); err != nil {
		if errors.Is(err, common.ErrUserNotMatched) {
			return fmt.Errorf("user %q does not exist", username)
		}
		return err
	}

	fmt.Fprintf(a.out, "Password changed for %s.\n", username)
	return nil
}
