// Package aggregates defines the write boundaries of the course platform.
//
// Contracts here carry no persistence details. Each one names the invariants it
// enforces atomically and the error codes its write methods may return.
package aggregates
