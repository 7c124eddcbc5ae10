package repl

import (
	"fmt"
	"strings"
)

// Form actions.
const (
	ActionSubmit   = ":submit"
	ActionShow     = ":show"
	ActionHide     = ":hide"
	ActionToggle   = ":toggle"
	ActionEmail    = ":email"
	ActionPassword = ":password"
	ActionQuit     = ":quit"
	ActionHelp     = ":help"
)

// Completer resolves abbreviated action names.
type Completer struct {
	actions []string
	help    map[string]string
}

// NewCompleter creates a Completer for the login form actions.
func NewCompleter() *Completer {
	return &Completer{
		actions: []string{
			ActionSubmit, ActionShow, ActionHide, ActionToggle,
			ActionEmail, ActionPassword, ActionQuit, ActionHelp,
		},
		help: map[string]string{
			ActionSubmit:   "submit the form (same as an empty line)",
			ActionShow:     "show the password",
			ActionHide:     "hide the password",
			ActionToggle:   "toggle password visibility",
			ActionEmail:    "re-enter the email",
			ActionPassword: "re-enter the password",
			ActionQuit:     "leave without logging in",
			ActionHelp:     "list actions",
		},
	}
}

// Complete returns the actions starting with prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, a := range c.actions {
		if strings.HasPrefix(a, prefix) {
			suggestions = append(suggestions, a)
		}
	}
	return suggestions
}

// Resolve returns the single action matching prefix. An exact name always
// wins over longer candidates.
func (c *Completer) Resolve(prefix string) (string, error) {
	matches := c.Complete(prefix)
	for _, m := range matches {
		if m == prefix {
			return m, nil
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("unknown action %q, type :help", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous action %q: %s", prefix, strings.Join(matches, ", "))
	}
}

// Help returns one line per action.
func (c *Completer) Help() []string {
	lines := make([]string, 0, len(c.actions))
	for _, a := range c.actions {
		lines = append(lines, fmt.Sprintf("  %-10s %s", a, c.help[a]))
	}
	return lines
}
