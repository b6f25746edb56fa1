// Package driving defines the interfaces through which the outside
// world drives the application core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The HTTP adapter and the CLI depend on these interfaces; the core
// services implement them.
package driving
