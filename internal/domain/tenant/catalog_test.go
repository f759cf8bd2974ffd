package tenant

import "testing"

func TestCatalogIsValid(t *testing.T) {
	c := NewCatalog([]string{"tenant_a", "tenant_b"})

	if !c.IsValid("tenant_a") {
		t.Error("expected tenant_a to be valid")
	}
	if !c.IsValid("tenant_b") {
		t.Error("expected tenant_b to be valid")
	}
	if c.IsValid("tenant_c") {
		t.Error("expected tenant_c to be invalid")
	}
	if c.IsValid("") {
		t.Error("expected empty id to be invalid")
	}
}

func TestCatalogListOrder(t *testing.T) {
	c := NewCatalog([]string{"z", "a", "m"})

	got := c.List()
	want := []string{"z", "a", "m"}
	if len(got) != len(want) {
		t.Fatalf("expected %d tenants, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestCatalogListIsCopy(t *testing.T) {
	c := NewCatalog([]string{"tenant_a", "tenant_b"})

	got := c.List()
	got[0] = "mutated"

	if c.List()[0] != "tenant_a" {
		t.Error("mutating the returned slice must not affect the catalog")
	}
}

func TestCatalogDeduplicates(t *testing.T) {
	c := NewCatalog([]string{"a", "a", "b", "", "b"})

	if c.Len() != 2 {
		t.Fatalf("expected 2 tenants, got %d", c.Len())
	}
}
