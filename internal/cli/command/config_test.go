package command

import (
	"strings"
	"testing"

	"github.com/yndnr/clockschedule-go/internal/cli/config"
)

func TestConfigCommand(t *testing.T) {
	cmd := ConfigCommand()
	if cmd.Name != "config" {
		t.Errorf("Name = %q, want %q", cmd.Name, "config")
	}

	subNames := make(map[string]bool)
	for _, sub := range cmd.Subcommands {
		subNames[sub.Name] = true
	}
	for _, name := range []string{"show", "path", "get", "set"} {
		if !subNames[name] {
			t.Errorf("missing subcommand: %s", name)
		}
	}
}

func TestConfigPath(t *testing.T) {
	env := newTestEnv(t, "http://localhost:4000", nil)

	stdout, _, err := env.run("", "config", "path")
	if err != nil {
		t.Fatalf("config path error = %v", err)
	}
	if strings.TrimSpace(stdout) != env.configPath {
		t.Errorf("stdout = %q, want %q", stdout, env.configPath)
	}
}

func TestConfigSetGet(t *testing.T) {
	env := newTestEnv(t, "http://localhost:4000", nil)

	stdout, _, err := env.run("", "config", "set", "api_base_url", "https://clock.example.com")
	if err != nil {
		t.Fatalf("config set error = %v", err)
	}
	if stdout != "api_base_url = https://clock.example.com\n" {
		t.Errorf("set stdout = %q", stdout)
	}

	stdout, _, err = env.run("", "config", "get", "api_base_url")
	if err != nil {
		t.Fatalf("config get error = %v", err)
	}
	if stdout != "https://clock.example.com\n" {
		t.Errorf("get stdout = %q", stdout)
	}

	cfg, err := config.LoadFile(env.configPath)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Store.Dir != env.stateDir {
		t.Errorf("store.dir = %q, other keys should survive set", cfg.Store.Dir)
	}
}

func TestConfigSet_Errors(t *testing.T) {
	env := newTestEnv(t, "http://localhost:4000", nil)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"config", "set", "colour", "red"}},
		{"invalid value", []string{"config", "set", "output", "xml"}},
		{"missing value", []string{"config", "set", "output"}},
		{"get unknown", []string{"config", "get", "colour"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := env.run("", tt.args...); err == nil {
				t.Errorf("%v should fail", tt.args)
			}
		})
	}

	cfg, err := config.LoadFile(env.configPath)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Output != config.DefaultOutput {
		t.Errorf("output = %q, failed set must not write", cfg.Output)
	}
}

func TestConfigShow(t *testing.T) {
	env := newTestEnv(t, "http://file.example.com", nil)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"file value", []string{"config", "show"}, "http://file.example.com"},
		{"flag wins", []string{"--api-base-url", "http://flag.example.com", "config", "show"}, "http://flag.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := env.run("", tt.args...)
			if err != nil {
				t.Fatalf("config show error = %v", err)
			}
			if !strings.Contains(stdout, "api_base_url") || !strings.Contains(stdout, tt.want) {
				t.Errorf("stdout = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestConfigShow_EnvBetweenFileAndFlag(t *testing.T) {
	env := newTestEnv(t, "http://file.example.com", nil)
	t.Setenv("CLOCKSCHEDULE_API_BASE_URL", "http://env.example.com")

	stdout, _, err := env.run("", "--output", "yaml", "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	if !strings.Contains(stdout, "api_base_url: http://env.example.com") {
		t.Errorf("stdout = %q", stdout)
	}
}
