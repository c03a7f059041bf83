package resolver

import (
	"sort"
	"strings"
)

const applicationName = "application"

// Snapshot is an immutable, point-in-time set of loaded documents for one
// label. Readers share Snapshot pointers freely; the store replaces whole
// snapshots atomically instead of mutating them.
type Snapshot struct {
	label  string
	docs   []*Document
	byName map[string][]*Document
}

// NewSnapshot builds a snapshot from the given documents, preserving their
// order. Service/Profile fields on each document are filled in relative to
// the full document set: a name is split at the dash whose prefix is itself
// a known document name ("inventory-service-dev" splits after
// "inventory-service" when that base document exists); a name with no such
// prefix is a base service name. The "application" prefix is always
// recognised.
func NewSnapshot(label string, docs []*Document) *Snapshot {
	names := make(map[string]bool, len(docs))
	for _, doc := range docs {
		names[doc.Name] = true
	}

	byName := make(map[string][]*Document, len(docs))
	for _, doc := range docs {
		doc.Service, doc.Profile = splitName(doc.Name, names)
		byName[doc.Name] = append(byName[doc.Name], doc)
	}

	return &Snapshot{
		label:  label,
		docs:   docs,
		byName: byName,
	}
}

// Label returns the label this snapshot was loaded under.
func (s *Snapshot) Label() string {
	return s.label
}

// Len returns the number of documents in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.docs)
}

// Documents returns a copy of the document list in load order.
func (s *Snapshot) Documents() []*Document {
	out := make([]*Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// ByName returns every document with the given base name, in load order.
func (s *Snapshot) ByName(name string) []*Document {
	return s.byName[name]
}

// HasService reports whether any document belongs to the named service,
// matching both the base document and any profile variant.
func (s *Snapshot) HasService(service string) bool {
	if s.byName[service] != nil {
		return true
	}
	prefix := service + "-"
	for name := range s.byName {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// Services returns the sorted, distinct service names present in the
// snapshot, excluding the shared "application" documents.
func (s *Snapshot) Services() []string {
	seen := make(map[string]bool)
	for _, doc := range s.docs {
		if doc.Service == applicationName {
			continue
		}
		seen[doc.Service] = true
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// splitName separates a document name into service and profile. Dashes are
// legal inside service names, so the split point is ambiguous in general:
// the longest prefix that names another document in the set wins, and a name
// with no such prefix is a base service name with no profile.
func splitName(name string, names map[string]bool) (service, profile string) {
	if name == applicationName {
		return applicationName, ""
	}
	if rest, ok := strings.CutPrefix(name, applicationName+"-"); ok {
		return applicationName, rest
	}

	best := -1
	for i := 0; i < len(name); i++ {
		if name[i] != '-' {
			continue
		}
		if names[name[:i]] {
			best = i
		}
	}
	if best < 0 {
		return name, ""
	}
	return name[:best], name[best+1:]
}
