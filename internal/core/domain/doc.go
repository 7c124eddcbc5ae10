// Package domain defines the core domain models for the ClockSchedule
// login client.
//
// Domain models are pure values without any IO dependencies or framework
// coupling. This package contains:
//
//   - Credentials: the email/password pair submitted by the login form
//   - LoginResponse: the decoded body of the login endpoint
//   - Route, Notification: the navigation and notification vocabulary
//   - Errors: the login error taxonomy with stable codes
package domain
