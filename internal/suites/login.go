package suites

import (
	"context"
	"fmt"
	"time"

	"github.com/tradepulse/livetest/internal/harness"
	"github.com/tradepulse/livetest/internal/pages"
	"github.com/tradepulse/livetest/internal/waits"
)

// Login authenticates the test account. Every later suite depends on the
// session this flow establishes.
func Login(ctx context.Context, deps *Deps) *harness.SuiteResult {
	s := newStepRunner(ctx, deps, string(IDLogin))
	login := pages.NewLoginPage(s.page)

	s.run("1.1", "Open login page", "", noValidations(func() error {
		// First load of the dev server can be slow; retry before failing.
		return waits.Retry(ctx, deps.Log.Console(), 3, time.Second, func(ctx context.Context) error {
			return login.Open()
		})
	}))

	s.run("1.2", "Sign in with test account", "signed-in", noValidations(func() error {
		if err := login.SignIn(deps.Cfg.Target.Username, deps.Cfg.Target.Password); err != nil {
			return err
		}
		if !login.LoggedIn() {
			return fmt.Errorf("navbar did not show the authenticated user after sign-in")
		}
		return nil
	}))

	return s.suite
}

// Logout ends the session. It runs last so the test account is left clean
// even when earlier suites failed.
func Logout(ctx context.Context, deps *Deps) *harness.SuiteResult {
	s := newStepRunner(ctx, deps, string(IDLogout))
	login := pages.NewLoginPage(s.page)

	s.run("7.1", "Sign out", "signed-out", noValidations(func() error {
		if err := login.SignOut(); err != nil {
			return err
		}
		if login.LoggedIn() {
			return fmt.Errorf("authenticated navbar still visible after sign-out")
		}
		return nil
	}))

	return s.suite
}
