package resolver

import (
	"fmt"
)

// Resolve merges the snapshot's candidate documents for the request into one
// effective configuration. It is a pure function: identical inputs yield
// identical output, and nothing in the snapshot is mutated.
//
// Precedence, highest to lowest:
//
//	{service}-{profile}      (first-listed profile wins)
//	{service}
//	application-{profile}    (same profile ordering)
//	application
//
// Placeholders are substituted after the merge, so the environment always
// applies to the highest-precedence value of a key.
func Resolve(req Request, snap *Snapshot, env Lookup) (*Effective, error) {
	if req.Service == "" {
		return nil, ErrInvalidRequest
	}

	var profiles []string
	if len(req.Profiles) == 0 {
		profiles = []string{"default"}
	} else {
		profiles = make([]string, len(req.Profiles))
		copy(profiles, req.Profiles)
	}

	if !snap.HasService(req.Service) {
		return nil, fmt.Errorf("%w: %q", ErrServiceNotFound, req.Service)
	}

	// Candidate documents from lowest to highest precedence. Profiles are
	// walked in reverse so the first-listed profile writes last and wins.
	var candidates []*Document
	candidates = append(candidates, snap.ByName(applicationName)...)
	for i := len(profiles) - 1; i >= 0; i-- {
		candidates = append(candidates, snap.ByName(applicationName+"-"+profiles[i])...)
	}
	candidates = append(candidates, snap.ByName(req.Service)...)
	for i := len(profiles) - 1; i >= 0; i-- {
		candidates = append(candidates, snap.ByName(req.Service+"-"+profiles[i])...)
	}

	properties := make(map[string]any)
	owner := make(map[string]*Document)
	for _, doc := range candidates {
		for key, value := range doc.Keys {
			properties[key] = value
			owner[key] = doc
		}
	}

	// Provenance: highest precedence first, only documents whose value
	// survived the merge for at least one key.
	sources := make([]string, 0, len(candidates))
	for i := len(candidates) - 1; i >= 0; i-- {
		doc := candidates[i]
		for _, winner := range owner {
			if winner == doc {
				sources = append(sources, doc.Origin)
				break
			}
		}
	}

	if err := substituteAll(properties, env); err != nil {
		return nil, err
	}

	return &Effective{
		Service:    req.Service,
		Profiles:   profiles,
		Label:      snap.Label(),
		Sources:    sources,
		Properties: properties,
	}, nil
}
