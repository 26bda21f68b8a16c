package codemod

import (
	"testing"
	"testing/fstest"

	"remedy/internal/finding"
)

func testCodemod(name string) *Codemod {
	return &Codemod{
		Origin: "remedy",
		Metadata: Metadata{
			Name:     name,
			Summary:  "summary for " + name,
			Language: "python",
		},
		Transformer: TransformerFunc(func(*ExecutionContext, *FileContext, []finding.Finding) (*ChangeSet, error) {
			return nil, nil
		}),
	}
}

func defaultTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, name := range []string{"secure-random", "url-sandbox", "process-sandbox"} {
		if err := r.Register(testCodemod(name)); err != nil {
			t.Fatalf("Register(%s) failed: %v", name, err)
		}
	}
	return r
}

func names(cs []*Codemod) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name())
	}
	return out
}

func TestSelectEmptyReturnsDefaultSet(t *testing.T) {
	r := defaultTestRegistry(t)
	got := names(r.Select(nil, nil))
	want := []string{"secure-random", "url-sandbox", "process-sandbox"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSelectInclude(t *testing.T) {
	r := defaultTestRegistry(t)
	got := names(r.Select([]string{"url-sandbox"}, nil))
	if len(got) != 1 || got[0] != "url-sandbox" {
		t.Fatalf("expected [url-sandbox], got %v", got)
	}
}

func TestSelectExclude(t *testing.T) {
	r := defaultTestRegistry(t)
	got := names(r.Select(nil, []string{"url-sandbox"}))
	if len(got) != 2 || got[0] != "secure-random" || got[1] != "process-sandbox" {
		t.Fatalf("expected [secure-random process-sandbox], got %v", got)
	}
}

// Unknown names in include/exclude are silently ignored. This matches the
// documented selection policy: surprising, but intentional.
func TestSelectIgnoresUnknownNames(t *testing.T) {
	r := defaultTestRegistry(t)

	got := names(r.Select([]string{"no-such-codemod", "url-sandbox"}, nil))
	if len(got) != 1 || got[0] != "url-sandbox" {
		t.Fatalf("expected [url-sandbox], got %v", got)
	}

	got = names(r.Select(nil, []string{"no-such-codemod"}))
	if len(got) != 3 {
		t.Fatalf("excluding an unknown name must keep the full set, got %v", got)
	}

	got = names(r.Select([]string{"no-such-codemod"}, nil))
	if len(got) != 0 {
		t.Fatalf("including only unknown names must select nothing, got %v", got)
	}
}

func TestRegisterDuplicateName(t *testing.T) {
	r := defaultTestRegistry(t)
	if err := r.Register(testCodemod("url-sandbox")); err == nil {
		t.Fatal("expected error for duplicate registration")
	}
}

func TestIDs(t *testing.T) {
	r := defaultTestRegistry(t)
	ids := r.IDs()
	if len(ids) != 3 || ids[0] != "remedy:python/secure-random" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestDescribe(t *testing.T) {
	r := defaultTestRegistry(t)
	descs := r.Describe([]string{"secure-random"}, nil)
	if len(descs) != 1 {
		t.Fatalf("expected 1 description, got %d", len(descs))
	}
	d := descs[0]
	if d.ID != "remedy:python/secure-random" {
		t.Errorf("unexpected id %q", d.ID)
	}
	if d.Summary != "summary for secure-random" {
		t.Errorf("unexpected summary %q", d.Summary)
	}
	// No docs configured: the description falls back to the summary.
	if d.Description != d.Summary {
		t.Errorf("expected summary fallback, got %q", d.Description)
	}
}

func TestDescriptionResolvedLazilyFromDocs(t *testing.T) {
	c := testCodemod("secure-random")
	c.Docs = fstest.MapFS{
		"remedy_python_secure-random.md": &fstest.MapFile{
			Data: []byte("Replaces the random module with secrets.\n"),
		},
	}

	want := "Replaces the random module with secrets."
	if got := c.Description(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	// Second access hits the memoized value.
	if got := c.Description(); got != want {
		t.Errorf("memoized access: expected %q, got %q", want, got)
	}
}

func TestInlineDescriptionWinsOverDocs(t *testing.T) {
	c := testCodemod("secure-random")
	c.Metadata.Description = "inline"
	c.Docs = fstest.MapFS{
		"remedy_python_secure-random.md": &fstest.MapFile{Data: []byte("from docs")},
	}
	if got := c.Description(); got != "inline" {
		t.Errorf("expected inline description, got %q", got)
	}
}
