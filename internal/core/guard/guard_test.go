package guard

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	anonymous     = SessionState{}
	authenticated = SessionState{Authenticated: true}
	restoring     = SessionState{Restoring: true}
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want RouteClass
	}{
		{"/", RoutePublic},
		{"/api", RoutePublic},
		{"/api/v1/transactions", RoutePublic},
		{"/static/app.js", RoutePublic},
		{"/favicon.ico", RoutePublic},
		{"/health", RoutePublic},
		{"/swagger/index.html", RoutePublic},
		{"/auth", RouteAuth},
		{"/auth/login", RouteAuth},
		{"/auth/register", RouteAuth},
		{"/intern", RouteProtected},
		{"/intern/dashboard", RouteProtected},
		{"/intern/transactions", RouteProtected},
		// Default-deny: unknown paths are protected
		{"/settings", RouteProtected},
		{"/anything-else", RouteProtected},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.path), "path %s", tt.path)
	}
}

func TestProtectedRedirectsAnonymousToLogin(t *testing.T) {
	for _, path := range []string{"/intern/dashboard", "/intern/accounts", "/intern/transactions", "/settings"} {
		d := Decide(path, anonymous)
		assert.Equal(t, ActionRedirect, d.Action, "path %s", path)
		assert.Equal(t, "/auth/login?from="+url.QueryEscape(path), d.Target, "path %s", path)
	}
}

func TestAuthRedirectsAuthenticatedToDashboard(t *testing.T) {
	for _, path := range []string{"/auth", "/auth/login", "/auth/register"} {
		d := Decide(path, authenticated)
		assert.Equal(t, ActionRedirect, d.Action, "path %s", path)
		assert.Equal(t, DashboardPath, d.Target, "path %s", path)
	}
}

func TestPublicAllowsRegardlessOfSession(t *testing.T) {
	for _, path := range []string{"/", "/api/v1/transactions", "/static/app.js", "/health"} {
		for _, s := range []SessionState{anonymous, authenticated} {
			d := Decide(path, s)
			assert.Equal(t, ActionAllow, d.Action, "path %s session %+v", path, s)
		}
	}
}

func TestProtectedAllowsAuthenticated(t *testing.T) {
	d := Decide("/intern/dashboard", authenticated)
	assert.Equal(t, ActionAllow, d.Action)
}

func TestAuthAllowsAnonymous(t *testing.T) {
	d := Decide("/auth/login", anonymous)
	assert.Equal(t, ActionAllow, d.Action)
}

func TestRestoringWithholdsEverything(t *testing.T) {
	// Deciding while the session restore is still in flight would bounce
	// an actually-authenticated user to the login page.
	for _, path := range []string{"/", "/auth/login", "/intern/dashboard", "/unknown"} {
		d := Decide(path, restoring)
		assert.Equal(t, ActionWait, d.Action, "path %s", path)
		assert.Empty(t, d.Target)
	}
}

func TestLoginTargetCarriesReturnPath(t *testing.T) {
	d := Decide("/intern/accounts", anonymous)
	assert.Equal(t, "/auth/login?from=%2Fintern%2Faccounts", d.Target)
}
