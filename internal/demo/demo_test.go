package demo

import "testing"

func TestLookup(t *testing.T) {
	t.Parallel()

	f, ok := Lookup("Example.COM ")
	if !ok {
		t.Fatalf("fixture lookup is case- and space-insensitive")
	}
	if f.Status.Available || f.Status.TLD != "com" {
		t.Fatalf("status=%+v", f.Status)
	}
	if f.Record.Registrar != "IANA" {
		t.Fatalf("record=%+v", f.Record)
	}
	if len(f.Prices) != 3 || len(f.Suggestions) != 3 {
		t.Fatalf("prices=%d suggestions=%d", len(f.Prices), len(f.Suggestions))
	}

	if _, ok := Lookup("unknown.dev"); ok {
		t.Fatalf("unexpected fixture for unknown domain")
	}
}

func TestAvailableFixtureHasNoRecord(t *testing.T) {
	t.Parallel()

	f, ok := Lookup("mycoolstartup.io")
	if !ok {
		t.Fatalf("missing fixture")
	}
	if !f.Status.Available {
		t.Fatalf("status=%+v", f.Status)
	}
	if !f.Record.Empty() {
		t.Fatalf("available domain must have an empty record, got %+v", f.Record)
	}
}
