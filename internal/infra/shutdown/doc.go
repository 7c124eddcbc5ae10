// Package shutdown ties process signals to a context and runs cleanup hooks
// in reverse registration order.
package shutdown
