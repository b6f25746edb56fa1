// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// The external collaborators behind these ports (the literature catalog,
// the archive file server, the embedding model, the vector database, the
// generative model, the key-value document store, the web search API) are
// all thin I/O wrappers; the design decisions live in the core services.
package driven
