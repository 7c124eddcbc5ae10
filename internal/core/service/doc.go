// Package service provides the login form service for the ClockSchedule
// client.
//
// Form holds the transient form state (email, password, password
// visibility) and runs the submission protocol against four injected
// capabilities:
//
//   - Authenticator: performs the login request
//   - TokenStore: durable client-side storage for the session token
//   - Notifier: shows success/failure notifications
//   - Navigator: performs the client-side route change
//
// The service never touches a terminal, a network socket or a file
// directly, so the whole protocol is testable with in-memory fakes.
package service
