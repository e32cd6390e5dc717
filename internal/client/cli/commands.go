package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/eurisssow03/wc-helper-sub001/internal/client/models"
)

var errNotLoggedIn = errors.New("not logged in")

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		printlnFn("Please log in first")
		return errNotLoggedIn
	}
	return nil
}

// Status runs a fresh probe and prints the outcome.
func (a *App) Status(ctx context.Context) error {
	st := a.monitor.Check(ctx, a.config.ProbeTimeout)
	a.setMode(modeFor(st))

	printlnFn(fmt.Sprintf("Backend:  %s (%s)", st.State, a.config.ServerURL))
	printlnFn(fmt.Sprintf("Checked:  %s", st.CheckedAt.Format(time.RFC3339)))
	printlnFn(fmt.Sprintf("Fallback: %t", st.FallbackActive))
	if st.Detail != "" {
		printlnFn(fmt.Sprintf("Detail:   %s", st.Detail))
	}
	return nil
}

func (a *App) Whoami(context.Context) error {
	sess := a.currentSession()
	if sess == nil {
		printlnFn("Not logged in")
		return nil
	}
	printlnFn(fmt.Sprintf("%s (%s) via %s since %s", sess.SubjectUsername, sess.Role, sess.AuthMode, sess.IssuedAt.Format(time.RFC3339)))
	return nil
}

// Users prints the local credential store. Password hashes are not shown.
func (a *App) Users(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	users, err := a.creds.List(ctx)
	if err != nil {
		printlnFn("Cannot read users:", err.Error())
		return err
	}
	if len(users) == 0 {
		printlnFn("No users")
		return nil
	}

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tROLE\tACTIVE\tCREATED BY")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.Username, u.Role, activeLabel(u), u.CreatedBy)
	}
	_ = tw.Flush()
	printlnFn(strings.TrimRight(b.String(), "\n"))
	return nil
}

func activeLabel(u models.UserRecord) string {
	if u.IsActive {
		return "yes"
	}
	return "no"
}

func (a *App) Backup(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if a.exporter == nil {
		printlnFn("Backup is not configured (set s3_bucket or backup_dir)")
		return nil
	}
	key, err := a.exporter.Export(ctx)
	if err != nil {
		printlnFn("Backup failed:", err.Error())
		return err
	}
	printlnFn("Snapshot saved:", key)
	return nil
}
