package route

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yndnr/clockschedule-go/internal/core/domain"
)

func TestRouter_Navigate(t *testing.T) {
	var buf bytes.Buffer
	r := NewRouter(&buf, domain.RouteLogin)

	if r.Current() != domain.RouteLogin {
		t.Fatalf("new router at %q", r.Current())
	}

	r.Navigate(domain.RouteHome)

	if r.Current() != domain.RouteHome {
		t.Errorf("Current() = %q, want /home", r.Current())
	}
	if buf.String() != "→ /home\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRouter_NilWriter(t *testing.T) {
	r := NewRouter(nil, domain.RouteLogin)
	r.Navigate(domain.RouteHome)
	if r.Current() != domain.RouteHome {
		t.Errorf("Current() = %q", r.Current())
	}
}

func TestPrintLinks(t *testing.T) {
	var buf bytes.Buffer
	PrintLinks(&buf, LoginLinks)

	out := buf.String()
	for _, want := range []string{"New User? Sign Up Now", "/register", "Forgot Password?", "/forget-password"} {
		if !strings.Contains(out, want) {
			t.Errorf("links output missing %q:\n%s", want, out)
		}
	}
}
