// Package command defines the clockschedule-cli command tree.
//
//   - root.go: application, global flags, shared setup
//   - login.go: interactive and scripted login
//   - logout.go: token removal
//   - status.go: stored session summary
//   - config.go: CLI config file inspection and editing
//
// Commands parse flags, load the layered configuration, build the service
// objects they need, and write results to the application writer.
package command
