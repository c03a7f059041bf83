// Package resolver implements the deterministic configuration resolution
// core: it layers flattened configuration documents by precedence
// (service-profile > service > application-profile > application), merges
// them into one effective property map, and substitutes ${NAME} environment
// placeholders. Resolution is a pure function over an immutable snapshot and
// is safe for arbitrary concurrent use.
package resolver
