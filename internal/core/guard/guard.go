// Package guard decides whether a navigation to a given path is allowed
// for the current session, mirroring the edge middleware of the web client:
// protected paths bounce anonymous visitors to the login page and the auth
// pages bounce signed-in users to their dashboard.
package guard

import (
	"net/url"
	"strings"
)

// RouteClass classifies a navigation path
type RouteClass int

const (
	RoutePublic RouteClass = iota
	RouteAuth
	RouteProtected
)

// Canonical navigation targets
const (
	LoginPath     = "/auth/login"
	DashboardPath = "/intern/dashboard"
)

// Prefix tables. The site root is matched exactly, never as a prefix —
// "/" as a prefix would swallow every path and defeat default-deny.
var (
	protectedPrefixes = []string{"/intern"}
	publicPrefixes    = []string{"/auth", "/api", "/static", "/favicon.ico", "/health", "/swagger"}
	authPrefix        = "/auth"
)

// Action is the guard's verdict kind
type Action int

const (
	// ActionAllow lets the navigation proceed
	ActionAllow Action = iota
	// ActionRedirect bounces the navigation to Decision.Target
	ActionRedirect
	// ActionWait withholds any verdict while the session is still
	// restoring; deciding earlier would race an in-flight restore and
	// could bounce an actually-authenticated user to the login page.
	ActionWait
)

// Decision is the guard's verdict for one navigation
type Decision struct {
	Action Action
	Target string
}

// SessionState is the slice of session state the guard consumes
type SessionState struct {
	// Restoring is true until session initialization reaches a terminal
	// state (loading flag of the session manager).
	Restoring bool
	// Authenticated is true only when both credential and user are present
	Authenticated bool
}

// Classify maps a path to its route class by longest-prefix match against
// the fixed tables. Unmatched paths are protected by default.
func Classify(path string) RouteClass {
	if path == "/" {
		return RoutePublic
	}

	best, class := 0, RouteProtected
	for _, p := range protectedPrefixes {
		if strings.HasPrefix(path, p) && len(p) > best {
			best, class = len(p), RouteProtected
		}
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) && len(p) > best {
			best, class = len(p), RoutePublic
			if p == authPrefix {
				class = RouteAuth
			}
		}
	}
	return class
}

// Decide maps (path, session) to a verdict. Precedence: a restoring
// session withholds everything; the auth-while-authenticated redirect
// beats the generic public allowance; the protected-while-anonymous
// redirect beats allowance.
func Decide(path string, s SessionState) Decision {
	if s.Restoring {
		return Decision{Action: ActionWait}
	}

	switch Classify(path) {
	case RouteAuth:
		if s.Authenticated {
			return Decision{Action: ActionRedirect, Target: DashboardPath}
		}
		return Decision{Action: ActionAllow}
	case RoutePublic:
		return Decision{Action: ActionAllow}
	default:
		if !s.Authenticated {
			return Decision{Action: ActionRedirect, Target: loginTarget(path)}
		}
		return Decision{Action: ActionAllow}
	}
}

// loginTarget builds the login redirect carrying the originally requested
// path so the caller can bounce back after a successful login.
func loginTarget(from string) string {
	return LoginPath + "?from=" + url.QueryEscape(from)
}
