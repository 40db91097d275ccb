// Package authguard is the client side gate in front of admin views. It
// starts Unknown, settles on Authenticated or Unauthenticated from the
// persisted flag or the cookie text, and only moves to Authenticated once a
// login succeeds.
package authguard

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// FlagKey is the persisted "already logged in" flag, also the cookie name
const FlagKey = "admin_auth"

type State int

const (
	Unknown State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	}
	return "invalid"
}

var (
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrUnreachable       = errors.New("could not reach the server")
	ErrLoginRequired     = errors.New("admin login required")
)

// InlineMessage is the text shown next to the login form for a Submit error
func InlineMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrIncorrectPassword):
		return "Incorrect password"
	case errors.Is(err, ErrUnreachable):
		return "Could not reach the server"
	}
	return "Login failed"
}

// FlagStore is per-device persistent key/value storage
type FlagStore interface {
	Get(key string) string
	Set(key, value string) error
}

// CookieSource exposes the raw cookie text ("a=1; b=2")
type CookieSource interface {
	CookieText() string
}

// Verifier checks a password with the server. ok=false with a nil error is
// a wrong password; a non-nil error means the server could not be asked.
type Verifier interface {
	Login(ctx context.Context, password string) (ok bool, err error)
}

type Guard struct {
	mu       sync.Mutex
	state    State
	lastErr  error
	flags    FlagStore
	cookies  CookieSource
	verifier Verifier
}

// New returns a guard in the Unknown state. cookies may be nil.
func New(flags FlagStore, cookies CookieSource, verifier Verifier) *Guard {
	return &Guard{
		state:    Unknown,
		flags:    flags,
		cookies:  cookies,
		verifier: verifier,
	}
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Err is the inline error of the last failed Submit
func (g *Guard) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

// Check settles the Unknown state. The flag store wins; otherwise a
// non-empty admin_auth cookie counts and is mirrored into the flag store.
func (g *Guard) Check() (State, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != Unknown {
		return g.state, nil
	}

	if g.flags.Get(FlagKey) == "true" {
		g.state = Authenticated
		return g.state, nil
	}

	if g.cookies != nil && HasSessionCookie(g.cookies.CookieText()) {
		g.state = Authenticated
		if err := g.flags.Set(FlagKey, "true"); err != nil {
			return g.state, err
		}
		return g.state, nil
	}

	g.state = Unauthenticated
	return g.state, nil
}

// Submit tries a password. Failures keep the guard Unauthenticated and are
// remembered for Err.
func (g *Guard) Submit(ctx context.Context, password string) error {
	if g.State() == Unknown {
		if _, err := g.Check(); err != nil {
			return err
		}
	}

	if g.State() == Authenticated {
		return nil
	}

	// the lock is not held across the network call
	ok, err := g.verifier.Login(ctx, password)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == Authenticated {
		return nil
	}
	switch {
	case err != nil:
		g.lastErr = errors.Join(ErrUnreachable, err)
		return g.lastErr
	case !ok:
		g.lastErr = ErrIncorrectPassword
		return g.lastErr
	}

	g.lastErr = nil
	g.state = Authenticated
	return g.flags.Set(FlagKey, "true")
}

// Guard renders children only when Authenticated. Unknown renders nothing.
func (g *Guard) Guard(render func() error) error {
	switch g.State() {
	case Authenticated:
		return render()
	case Unauthenticated:
		return ErrLoginRequired
	}
	return nil
}

// HasSessionCookie reports whether the cookie text carries a non-empty admin_auth
func HasSessionCookie(cookieText string) bool {
	for _, part := range strings.Split(cookieText, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && name == FlagKey && strings.TrimSpace(value) != "" {
			return true
		}
	}
	return false
}
