package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/staffdir/internal/client/api"
	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for an email and password and attempts to sign in.
//
// A rejected credential pair prints an inline message and leaves the session
// unauthenticated; the command never retries. The password byte slice is
// securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.SignIn(ctx, email, string(password)); err != nil {
		if errors.Is(err, api.ErrInvalidCredentials) {
			fmt.Fprintln(a.out, "Invalid email or password.")
			return err
		}
		fmt.Fprintf(a.out, "Sign-in failed: %v\n", err)
		return err
	}

	sess := a.session.Session()
	fmt.Fprintf(a.out, "Welcome, %s!\n", sess.User.Name)
	return nil
}

// Register prompts for a new-account profile and creates it. On success the
// session service signs the new user in with the same credentials, so the
// console lands in the authenticated state directly.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
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

	roleText, err := getSimpleText(a.reader, "Enter role (INTERN, ADMIN or ENGINEER)", a.out)
	if err != nil {
		return err
	}
	role, err := models.ParseRole(roleText)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return err
	}

	if err := a.session.Register(ctx, name, email, string(password), role); err != nil {
		if errors.Is(err, api.ErrDuplicateAccount) {
			fmt.Fprintln(a.out, "An account with this email already exists.")
			return err
		}
		fmt.Fprintf(a.out, "Registration failed: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Account created. Welcome, %s!\n", name)
	return nil
}

// Logout discards the session. It always succeeds.
func (a *App) Logout(ctx context.Context) error {
	a.session.SignOut()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
