// Package output renders command results and user notifications.
//
// Formatters write structured results as table, JSON or YAML. Notifier
// prints login notifications in colour, and Spinner animates a pending
// request on a terminal.
package output
