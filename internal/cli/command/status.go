package command

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/clockschedule-go/internal/cli/output"
	"github.com/yndnr/clockschedule-go/internal/core/service"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show whether a session token is stored",
		Action: statusAction,
	}
}

// SessionStatus describes the stored session. Claims are read without
// verifying the signature and are for display only.
type SessionStatus struct {
	LoggedIn  bool       `json:"logged_in" yaml:"logged_in"`
	Store     string     `json:"store" yaml:"store"`
	Subject   string     `json:"subject,omitempty" yaml:"subject,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty" yaml:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired   bool       `json:"expired" yaml:"expired"`
}

func statusAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := newLogger(c, cfg)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}
	store, err := openStore(c, cfg, log)
	if err != nil {
		return err
	}

	token, ok, err := service.NewSession(store).Token(c.Context)
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}

	status := SessionStatus{LoggedIn: ok, Store: store.Location()}
	if ok {
		if err := status.readClaims(token, time.Now()); err != nil {
			log.Debug("token is not a readable JWT", "error", err)
		}
	}

	return output.NewFormatter(format).Format(outWriter(c), status)
}

// readClaims fills the claim fields from an unverified JWT.
func (s *SessionStatus) readClaims(token string, now time.Time) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return err
	}

	if sub, err := claims.GetSubject(); err == nil {
		s.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		s.IssuedAt = &t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		s.ExpiresAt = &t
		s.Expired = !now.Before(t)
	}
	return nil
}
