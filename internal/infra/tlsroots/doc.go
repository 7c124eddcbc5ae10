// Package tlsroots builds the trusted root pool for outbound HTTPS.
//
// The pool starts from the system roots and may be extended with a PEM
// bundle, for servers signed by a private CA.
package tlsroots
