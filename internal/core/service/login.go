package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/clockschedule-go/internal/core/domain"
	"github.com/yndnr/clockschedule-go/internal/telemetry/logger"
)

// Authenticator performs the login request.
//
// Login returns the decoded body of a 2xx reply. Failures are reported as
// domain.ErrNetwork (no response) or domain.ErrServerRejection wrapping a
// *domain.ResponseError (non-2xx response).
type Authenticator interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResponse, error)
}

// TokenStore is durable key-value storage for the session token.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context, key string) error
}

// Notifier shows a user-facing notification.
type Notifier interface {
	Notify(kind domain.NotificationKind, text string)
}

// Navigator performs a client-side route change.
type Navigator interface {
	Navigate(route domain.Route)
}

// Observer receives the outcome of every submission attempt.
type Observer interface {
	ObserveLogin(outcome Outcome, elapsed time.Duration)
}

// Outcome labels a submission attempt.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeRejected Outcome = "rejected"
	OutcomeNetwork  Outcome = "network"
	OutcomeProtocol Outcome = "protocol"
	OutcomeStorage  Outcome = "storage"
)

// FormOption configures a Form.
type FormOption func(*Form)

// WithObserver registers an observer for submission outcomes.
func WithObserver(o Observer) FormOption {
	return func(f *Form) {
		f.observer = o
	}
}

// WithLogger sets the form logger. A nil logger is ignored.
func WithLogger(l logger.Logger) FormOption {
	return func(f *Form) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithProgress registers a hook that starts a progress indicator when a
// request is sent and returns its stop function. Stop is called when the
// request ends, before the outcome is notified.
func WithProgress(fn func() (stop func())) FormOption {
	return func(f *Form) {
		f.progress = fn
	}
}

// Form is the login form.
//
// Field state is owned by the form for its lifetime. Submit may be called
// from several goroutines; at most one submission is in flight at a time.
type Form struct {
	auth      Authenticator
	store     TokenStore
	notifier  Notifier
	navigator Navigator
	observer  Observer
	logger    logger.Logger
	progress  func() (stop func())
	landing   domain.Route

	mu           sync.Mutex
	email        string
	password     string
	showPassword bool

	submitting atomic.Bool
}

// NewForm creates an empty login form.
func NewForm(auth Authenticator, store TokenStore, notifier Notifier, navigator Navigator, opts ...FormOption) *Form {
	f := &Form{
		auth:      auth,
		store:     store,
		notifier:  notifier,
		navigator: navigator,
		logger:    logger.Default(),
		landing:   domain.RouteHome,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetEmail replaces the email field.
func (f *Form) SetEmail(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email = email
}

// SetPassword replaces the password field.
func (f *Form) SetPassword(password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.password = password
}

// Email returns the email field.
func (f *Form) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// Password returns the password field.
func (f *Form) Password() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.password
}

// ToggleShowPassword flips password visibility.
func (f *Form) ToggleShowPassword() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.showPassword = !f.showPassword
}

// ShowPassword reports whether the password is rendered in clear text.
func (f *Form) ShowPassword() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.showPassword
}

// PasswordInputMode returns how the password field is rendered.
func (f *Form) PasswordInputMode() domain.InputMode {
	if f.ShowPassword() {
		return domain.InputModeText
	}
	return domain.InputModePassword
}

// Submitting reports whether a submission is in flight.
func (f *Form) Submitting() bool {
	return f.submitting.Load()
}

// Submit validates the fields and performs one login attempt.
//
// Exactly one notification is shown per call, except when another
// submission is in flight: then Submit returns ErrSubmissionInProgress
// without notifying or touching the network.
func (f *Form) Submit(ctx context.Context) error {
	if !f.submitting.CompareAndSwap(false, true) {
		return domain.ErrSubmissionInProgress
	}
	defer f.submitting.Store(false)

	f.mu.Lock()
	creds := domain.Credentials{Email: f.email, Password: f.password}
	f.mu.Unlock()

	if !creds.Complete() {
		f.notifier.Notify(domain.NotifyError, domain.MsgFieldsRequired)
		f.observe(OutcomeInvalid, 0)
		return domain.ErrValidation
	}

	requestID := ulid.Make().String()
	ctx = logger.WithRequestID(ctx, requestID)
	log := f.logger.With("component", "login", "request_id", requestID)

	// The indicator is stopped before anything else is written.
	stop := func() {}
	if f.progress != nil {
		stop = f.progress()
	}
	start := time.Now()
	message, err := f.authenticate(ctx, creds)
	elapsed := time.Since(start)
	stop()

	if err != nil {
		outcome := outcomeOf(err)
		f.observe(outcome, elapsed)
		// The notification is the user-facing report.
		log.Debug("login failed", "outcome", string(outcome), "code", domain.GetErrorCode(err), "error", err)

		text := domain.ServerMessage(err)
		if text == "" {
			text = domain.MsgCheckCredentials
		}
		f.notifier.Notify(domain.NotifyError, text)
		return err
	}

	f.observe(OutcomeSuccess, elapsed)
	log.Info("login succeeded", "elapsed", elapsed)

	if message == "" {
		message = domain.MsgLoginSucceeded
	}
	f.notifier.Notify(domain.NotifySuccess, message)

	f.mu.Lock()
	f.email = ""
	f.password = ""
	f.mu.Unlock()

	f.navigator.Navigate(f.landing)
	return nil
}

// authenticate performs the request and persists the token. It returns the
// server message of a fully successful login.
func (f *Form) authenticate(ctx context.Context, creds domain.Credentials) (string, error) {
	resp, err := f.auth.Login(ctx, creds)
	if err != nil {
		return "", err
	}
	if resp == nil || resp.Token == "" {
		return "", domain.ErrProtocolInconsistency
	}
	if err := f.store.Set(ctx, domain.TokenKey, resp.Token); err != nil {
		if domain.IsDomainError(err, domain.ErrStorage.Code) {
			return "", err
		}
		return "", domain.ErrStorage.WithCause(err)
	}
	return resp.Message, nil
}

func (f *Form) observe(outcome Outcome, elapsed time.Duration) {
	if f.observer != nil {
		f.observer.ObserveLogin(outcome, elapsed)
	}
}

func outcomeOf(err error) Outcome {
	switch {
	case errors.Is(err, domain.ErrServerRejection):
		return OutcomeRejected
	case errors.Is(err, domain.ErrProtocolInconsistency):
		return OutcomeProtocol
	case errors.Is(err, domain.ErrStorage):
		return OutcomeStorage
	default:
		return OutcomeNetwork
	}
}
