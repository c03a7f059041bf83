package resolver

import (
	"reflect"
	"testing"
)

func TestSnapshotServices(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot("main", []*Document{
		doc("application", "a", nil),
		doc("application-dev", "b", nil),
		doc("inventory-service", "c", nil),
		doc("inventory-service-dev", "d", nil),
		doc("billing", "e", nil),
	})

	want := []string{"billing", "inventory-service"}
	if got := snap.Services(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected services %v, got %v", want, got)
	}
}

func TestSnapshotHasService(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot("main", []*Document{
		doc("application", "a", nil),
		doc("orders-prod", "b", nil),
		doc("billing", "c", nil),
	})

	tests := []struct {
		service string
		want    bool
	}{
		{service: "billing", want: true},
		{service: "orders", want: true}, // profile variant only
		{service: "inventory", want: false},
		{service: "application", want: true},
	}

	for _, tc := range tests {
		if got := snap.HasService(tc.service); got != tc.want {
			t.Fatalf("HasService(%q) = %v, want %v", tc.service, got, tc.want)
		}
	}
}

func TestSplitName(t *testing.T) {
	t.Parallel()

	names := map[string]bool{
		"application":           true,
		"application-prod":      true,
		"inventory-service":     true,
		"inventory-service-dev": true,
		"billing":               true,
	}

	tests := []struct {
		name        string
		wantService string
		wantProfile string
	}{
		{name: "application", wantService: "application", wantProfile: ""},
		{name: "application-prod", wantService: "application", wantProfile: "prod"},
		{name: "application-dev-eu", wantService: "application", wantProfile: "dev-eu"},
		{name: "billing", wantService: "billing", wantProfile: ""},
		{name: "billing-dev", wantService: "billing", wantProfile: "dev"},
		// Dashed service names split after the longest known base name.
		{name: "inventory-service", wantService: "inventory-service", wantProfile: ""},
		{name: "inventory-service-dev", wantService: "inventory-service", wantProfile: "dev"},
		// Without a known base, the whole name is the service.
		{name: "shipping-gateway", wantService: "shipping-gateway", wantProfile: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service, profile := splitName(tc.name, names)
			if service != tc.wantService || profile != tc.wantProfile {
				t.Fatalf("splitName(%q) = (%q, %q), want (%q, %q)",
					tc.name, service, profile, tc.wantService, tc.wantProfile)
			}
		})
	}
}

func TestSnapshotDocumentsCopy(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot("main", []*Document{doc("svc", "svc", nil)})

	docs := snap.Documents()
	docs[0] = nil
	if snap.Documents()[0] == nil {
		t.Fatalf("expected defensive copy of document list")
	}
}
