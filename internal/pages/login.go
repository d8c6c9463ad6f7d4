package pages

import "github.com/tradepulse/livetest/internal/waits"

// LoginPage drives the authentication screen.
type LoginPage struct {
	*Page
}

func NewLoginPage(p *Page) *LoginPage { return &LoginPage{Page: p} }

func (l *LoginPage) Open() error {
	return l.Navigate("/login", `#login-form`)
}

// SignIn fills the credential form and submits. The caller decides what
// "logged in" looks like afterwards.
func (l *LoginPage) SignIn(username, password string) error {
	if err := l.Type(`#login-username`, username); err != nil {
		return err
	}
	if err := l.Type(`#login-password`, password); err != nil {
		return err
	}
	return l.Click(`#login-submit`)
}

// LoggedIn reports whether the authenticated navbar is present.
func (l *LoginPage) LoggedIn() bool {
	return l.Visible(`.navbar-user`) == waits.PresenceFound
}

// SignOut opens the user menu and clicks the logout entry.
func (l *LoginPage) SignOut() error {
	if err := l.Click(`.navbar-user`); err != nil {
		return err
	}
	return l.Click(`#logout-link`)
}
