package domain

// Credentials is the body posted to the login endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Complete reports whether both fields are non-empty.
// No trimming is applied: a single space counts as a value.
func (c Credentials) Complete() bool {
	return c.Email != "" && c.Password != ""
}

// LoginResponse is the decoded body of a 2xx login reply.
type LoginResponse struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
}

// InputMode is how the password field is rendered.
type InputMode string

const (
	InputModePassword InputMode = "password"
	InputModeText     InputMode = "text"
)

// Route is a client-side location.
type Route string

const (
	RouteLogin          Route = "/login"
	RouteHome           Route = "/home"
	RouteRegister       Route = "/register"
	RouteForgotPassword Route = "/forget-password"
)

// NotificationKind classifies a user-facing notification.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// LoginPath is appended to the configured base URL.
const LoginPath = "/api/user/login"

// TokenKey is the storage key of the session token.
const TokenKey = "jwt"

// User-facing texts.
const (
	MsgFieldsRequired   = "All fields are required"
	MsgLoginSucceeded   = "User logged in successfully"
	MsgCheckCredentials = "Please check your credentials"
)
