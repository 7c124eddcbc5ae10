package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" || info.Commit == "" || info.BuildTime == "" {
		t.Errorf("Get() = %+v, fields should have defaults", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("Platform = %q", info.Platform)
	}
}

func TestString(t *testing.T) {
	want := Version + " (commit: " + Commit + ", built: " + BuildTime + ")"
	if s := String(); s != want {
		t.Errorf("String() = %q, want %q", s, want)
	}
}

func TestUserAgent(t *testing.T) {
	orig := Version
	Version = "1.4.0"
	t.Cleanup(func() { Version = orig })

	if got := UserAgent(); got != "clockschedule-cli/1.4.0" {
		t.Errorf("UserAgent() = %q", got)
	}
}
