package nats

import "testing"

func TestSubjectFor(t *testing.T) {
	tests := []struct {
		tenantID string
		want     string
	}{
		{"tenant_a", "events.tenant_a"},
		{"tenant_b", "events.tenant_b"},
	}
	for _, tt := range tests {
		if got := subjectFor(tt.tenantID); got != tt.want {
			t.Errorf("subjectFor(%q) = %q, want %q", tt.tenantID, got, tt.want)
		}
	}
}
