package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yndnr/clockschedule-go/internal/cli/route"
	"github.com/yndnr/clockschedule-go/internal/core/domain"
	"github.com/yndnr/clockschedule-go/internal/core/service"
)

// ErrAborted is returned when the user quits the form or input ends before
// a successful login.
var ErrAborted = errors.New("login aborted")

// REPL drives a login form from line input.
type REPL struct {
	form      *service.Form
	input     *bufio.Reader
	output    io.Writer
	completer *Completer

	readPassword func() ([]byte, error)
	beforeSubmit func()
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = bufio.NewReader(in)
		r.output = out
	}
}

// WithPasswordReader sets the masked password reader used while the
// password is hidden. Without one the password is read as a plain line.
func WithPasswordReader(fn func() ([]byte, error)) Option {
	return func(r *REPL) {
		r.readPassword = fn
	}
}

// WithBeforeSubmit registers a hook run before every submission.
func WithBeforeSubmit(fn func()) Option {
	return func(r *REPL) {
		r.beforeSubmit = fn
	}
}

// New creates a REPL for form reading stdin and writing stdout.
func New(form *service.Form, opts ...Option) *REPL {
	r := &REPL{
		form:      form,
		input:     bufio.NewReader(os.Stdin),
		output:    os.Stdout,
		completer: NewCompleter(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run shows the form and processes actions. It returns nil after a
// successful login, ErrAborted when the user quits, or the context error.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.output, "Login")
	route.PrintLinks(r.output, route.LoginLinks)

	if err := r.promptEmail(); err != nil {
		return err
	}
	if err := r.promptPassword(); err != nil {
		return err
	}
	fmt.Fprintln(r.output, "Press Enter to log in, :help for actions.")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(r.output, "login> ")
		line, err := r.readLine()
		if err != nil {
			return err
		}

		action := ActionSubmit
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			action, err = r.completer.Resolve(trimmed)
			if err != nil {
				fmt.Fprintln(r.output, err)
				continue
			}
		}

		done, err := r.execute(ctx, action)
		if done || err != nil {
			return err
		}
	}
}

// execute runs one action. done reports whether the form is finished.
func (r *REPL) execute(ctx context.Context, action string) (done bool, err error) {
	switch action {
	case ActionSubmit:
		return r.submit(ctx)
	case ActionShow:
		if !r.form.ShowPassword() {
			r.form.ToggleShowPassword()
		}
		r.printPassword()
	case ActionHide:
		if r.form.ShowPassword() {
			r.form.ToggleShowPassword()
		}
		r.printPassword()
	case ActionToggle:
		r.form.ToggleShowPassword()
		r.printPassword()
	case ActionEmail:
		return false, r.promptEmail()
	case ActionPassword:
		return false, r.promptPassword()
	case ActionQuit:
		return true, ErrAborted
	case ActionHelp:
		for _, line := range r.completer.Help() {
			fmt.Fprintln(r.output, line)
		}
	}
	return false, nil
}

func (r *REPL) submit(ctx context.Context) (bool, error) {
	if r.beforeSubmit != nil {
		r.beforeSubmit()
	}

	err := r.form.Submit(ctx)

	if err == nil {
		return true, nil
	}
	// A cancelled context ends the form; other failures were already
	// shown as a notification and the fields are kept for another try.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return true, ctxErr
	}
	return false, nil
}

func (r *REPL) promptEmail() error {
	fmt.Fprint(r.output, "Email: ")
	line, err := r.readLine()
	if err != nil {
		return err
	}
	r.form.SetEmail(line)
	return nil
}

func (r *REPL) promptPassword() error {
	fmt.Fprint(r.output, "Password: ")

	if r.form.PasswordInputMode() == domain.InputModePassword && r.readPassword != nil {
		b, err := r.readPassword()
		// The terminal swallows the newline while echo is off.
		fmt.Fprintln(r.output)
		if err != nil {
			return err
		}
		r.form.SetPassword(string(b))
		return nil
	}

	line, err := r.readLine()
	if err != nil {
		return err
	}
	r.form.SetPassword(line)
	return nil
}

func (r *REPL) printPassword() {
	if r.form.PasswordInputMode() == domain.InputModeText {
		fmt.Fprintf(r.output, "Password: %s\n", r.form.Password())
		return
	}
	fmt.Fprintf(r.output, "Password: %s\n", strings.Repeat("•", len([]rune(r.form.Password()))))
}

// readLine returns the next line without its terminator. The content is not
// trimmed. End of input is ErrAborted.
func (r *REPL) readLine() (string, error) {
	line, err := r.input.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.output)
			return "", ErrAborted
		}
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
