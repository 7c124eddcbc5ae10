// Package repl runs the interactive login form in a terminal.
//
// The form asks for the email and the password, then reads action lines
// until the user submits successfully or quits:
//
//	:submit (or an empty line)   submit the form
//	:show / :hide / :toggle      change password visibility
//	:email / :password           re-enter a field
//	:quit                        leave without logging in
//	:help                        list actions
//
// Actions may be abbreviated to any unique prefix.
package repl
