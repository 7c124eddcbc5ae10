package command

import (
	"context"
	"errors"
	"testing"

	"github.com/yndnr/clockschedule-go/internal/core/domain"
	"github.com/yndnr/clockschedule-go/internal/storage"
)

func TestLogout(t *testing.T) {
	env := newTestEnv(t, "http://localhost:4000", nil)

	fs, err := storage.NewFileStore(env.stateDir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := fs.Set(context.Background(), domain.TokenKey, "abc"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// A second logout finds nothing and still succeeds.
	for i := 0; i < 2; i++ {
		stdout, _, err := env.run("", "logout")
		if err != nil {
			t.Fatalf("logout #%d error = %v", i+1, err)
		}
		if stdout != "Logged out\n" {
			t.Errorf("logout #%d stdout = %q", i+1, stdout)
		}
	}

	if _, err := storedToken(t, env.stateDir); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Errorf("token after logout: err = %v, want ErrTokenNotFound", err)
	}
}

func TestLogout_UnknownStore(t *testing.T) {
	env := newTestEnv(t, "http://localhost:4000", nil)

	if _, _, err := env.run("", "--store", "floppy", "logout"); err == nil {
		t.Error("logout with an unknown store backend should fail")
	}
}
