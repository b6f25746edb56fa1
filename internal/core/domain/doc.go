// Package domain contains the core business entities and rules.
//
// Domain types have no dependencies on infrastructure. They represent
// biomedical papers, their embedded chunks, clinical case studies, and
// the cached newsfeed digests, along with the business rules for
// chunk identity and catalog date handling.
package domain
