package resolver

// Document is an immutable configuration document flattened to dotted-path
// scalar entries. It is created by the loader and never mutated afterwards;
// resolution only reads it.
type Document struct {
	// Name is the document's base name, e.g. "application",
	// "application-prod", "inventory-service" or "inventory-service-dev".
	Name string
	// Service and Profile are the parsed components of Name. Profile is empty
	// for base documents.
	Service string
	Profile string
	// Keys maps dotted paths (e.g. "server.port", "hosts.0") to scalar
	// values: string, int64, float64, bool or nil.
	Keys map[string]any
	// Origin identifies where the document was loaded from, including the
	// label it was fetched under.
	Origin string
}

// Request identifies one configuration resolution.
type Request struct {
	// Service is the consuming service's name. Required.
	Service string
	// Profiles lists requested profiles in priority order, first listed
	// wins. Empty means ["default"].
	Profiles []string
	// Label is the document-set revision the request targets. Empty means
	// the store's default label.
	Label string
}

// Effective is the result of resolving a Request against a Snapshot.
type Effective struct {
	Service  string
	Profiles []string
	Label    string
	// Sources lists the origins of every document that contributed at least
	// one surviving property, highest precedence first.
	Sources []string
	// Properties maps dotted keys to fully resolved scalar values. Every
	// placeholder has been substituted.
	Properties map[string]any
}

// Lookup supplies values for ${NAME} placeholders. Implementations may be
// backed by the process environment, a secret store or a static map.
type Lookup interface {
	Lookup(name string) (string, bool)
}
