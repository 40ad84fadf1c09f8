package catalog

import (
	"testing"

	"labslot/pkg/model"
)

func testResources() []model.Resource {
	return []model.Resource{
		{ID: 3, Name: "bench-gamma", IPAddress: "10.0.0.3", SSHPort: 22, WebPort: 8443},
		{ID: 1, Name: "bench-alpha", IPAddress: "10.0.0.1", SSHPort: 22, WebPort: 8080},
		{ID: 2, Name: "bench-beta"},
	}
}

func TestExists(t *testing.T) {
	c := New(testResources())

	if !c.Exists(1) {
		t.Error("expected resource 1 to exist")
	}
	if c.Exists(9999) {
		t.Error("expected resource 9999 to be absent")
	}
}

func TestGet(t *testing.T) {
	c := New(testResources())

	r, ok := c.Get(3)
	if !ok {
		t.Fatal("expected resource 3 to be found")
	}
	if r.Name != "bench-gamma" || r.WebPort != 8443 {
		t.Errorf("unexpected resource: %+v", r)
	}

	if _, ok := c.Get(42); ok {
		t.Error("expected missing resource to report found=false")
	}
}

func TestListOrderedByID(t *testing.T) {
	c := New(testResources())

	got := c.List()
	if len(got) != 3 {
		t.Fatalf("expected 3 resources, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].ID <= got[i-1].ID {
			t.Errorf("list not ordered by id: %v", got)
		}
	}
}

func TestDuplicateIDsKeepLast(t *testing.T) {
	c := New([]model.Resource{
		{ID: 1, Name: "old"},
		{ID: 1, Name: "new"},
	})

	if c.Len() != 1 {
		t.Fatalf("expected 1 resource, got %d", c.Len())
	}
	r, _ := c.Get(1)
	if r.Name != "new" {
		t.Errorf("expected last duplicate to win, got %q", r.Name)
	}
}

func TestEmptyCatalog(t *testing.T) {
	c := New(nil)
	if c.Exists(1) {
		t.Error("empty catalog should contain nothing")
	}
	if got := c.List(); len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}
