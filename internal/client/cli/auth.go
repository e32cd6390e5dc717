package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/eurisssow03/wc-helper-sub001/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for credentials and authenticates through the
// AuthService, which picks the remote or the local fallback path.
//
// Failures are reported to the user and returned. The password byte slice
// is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.authService.Authenticate(ctx, userName, string(password))
	a.setMode(modeFor(a.authService.Status()))

	if err != nil {
		var rejected *common.RemoteAuthError
		switch {
		case errors.As(err, &rejected) && rejected.Reason != "":
			printlnFn("Login rejected:", rejected.Reason)
		case errors.Is(err, common.ErrInvalidCredentials):
			printlnFn("Invalid username or password")
		case errors.Is(err, common.ErrStorageFailure):
			printlnFn("Local storage error, see log for details")
		default:
			printlnFn("Login failed:", err.Error())
		}
		return err
	}

	a.setSession(sess)
	printlnFn(fmt.Sprintf("Logged in as %s (%s, %s mode)", sess.SubjectUsername, sess.Role, sess.AuthMode))
	return nil
}

// Logout removes the persisted session and forgets it in memory.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	a.setSession(nil)
	printlnFn("Logged out")
	return nil
}
