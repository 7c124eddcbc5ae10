// Package route tracks the client-side route of the terminal client.
package route

import (
	"fmt"
	"io"
	"sync"

	"github.com/yndnr/clockschedule-go/internal/core/domain"
)

// Router records route changes and announces them on a writer.
type Router struct {
	mu      sync.Mutex
	w       io.Writer
	current domain.Route
}

// NewRouter creates a Router positioned at start.
func NewRouter(w io.Writer, start domain.Route) *Router {
	return &Router{w: w, current: start}
}

// Navigate implements service.Navigator.
func (r *Router) Navigate(to domain.Route) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = to
	if r.w != nil {
		fmt.Fprintf(r.w, "→ %s\n", to)
	}
}

// Current returns the current route.
func (r *Router) Current() domain.Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Link is a passive route shown to the user but never followed by the form.
type Link struct {
	Label string
	Route domain.Route
}

// LoginLinks are the links shown under the login form.
var LoginLinks = []Link{
	{Label: "New User? Sign Up Now", Route: domain.RouteRegister},
	{Label: "Forgot Password?", Route: domain.RouteForgotPassword},
}

// PrintLinks writes links one per line.
func PrintLinks(w io.Writer, links []Link) {
	for _, l := range links {
		fmt.Fprintf(w, "  %s  %s\n", l.Label, l.Route)
	}
}
