package views

import "sync"

// View is one of the three screens.
type View string

const (
	ViewAuth   View = "auth"
	ViewDrive  View = "drive"
	ViewGroups View = "groups"
)

const (
	PathLogin  = "/"
	PathDrive  = "/mydrive"
	PathGroups = "/groups"
)

// Resolve maps session state and a path to the view to show. Without a
// session every path shows Auth. With one, "/" and unknown paths show the
// drive.
func Resolve(loggedIn bool, path string) View {
	if !loggedIn {
		return ViewAuth
	}
	switch path {
	case PathGroups:
		return ViewGroups
	default:
		return ViewDrive
	}
}

// Router remembers the requested path and resolves it against the
// session on every call, so an expiring session falls back to Auth.
type Router struct {
	session SessionSource

	mu   sync.Mutex
	path string
}

func NewRouter(session SessionSource) *Router {
	return &Router{session: session, path: PathLogin}
}

// Navigate records path and returns the resulting view.
func (r *Router) Navigate(path string) View {
	r.mu.Lock()
	r.path = path
	r.mu.Unlock()
	return r.Current()
}

func (r *Router) Current() View {
	r.mu.Lock()
	p := r.path
	r.mu.Unlock()
	return Resolve(r.session.Current() != nil, p)
}

func (r *Router) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}
