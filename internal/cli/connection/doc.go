// Package connection talks to the ClockSchedule API over HTTP.
//
// HTTPClient keeps a cookie jar for the lifetime of the process so that
// cookies set by the server are sent back on later requests, and maps
// transport and status failures onto the domain login errors.
package connection
