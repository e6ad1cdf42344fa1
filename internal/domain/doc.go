// Package domain contains the core model of the apix request execution engine.
//
// The domain is transport- and persistence-agnostic: it does not depend on YAML parsing,
// net/http clients, or the filesystem. Infra adapters map into/from these types, and the
// usecase packages compose them into a single endpoint call.
package domain
