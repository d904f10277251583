package domain

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"OpenAI.COM", "openai.com", false},
		{" https://OpenAI.COM/ ", "openai.com", false},
		{"openai.com:443", "openai.com", false},
		{"openai.com.", "openai.com", false},
		{"", "", true},
		{"localhost", "", true},
		{"foo..com", "", true},
		{"-bad.com", "", true},
		{"bad-.com", "", true},
	}

	for _, tc := range cases {
		got, err := Normalize(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("Normalize(%q): expected error, got none (got=%q)", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Normalize(%q): unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Normalize(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTLD(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"example.com", "com"},
		{"Example.IO", "io"},
		{"a.b.c.dev", "dev"},
		// Last-label heuristic, by design.
		{"example.co.uk", "uk"},
		{"nodots", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := TLD(tc.in); got != tc.want {
			t.Fatalf("TLD(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestKeyword(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"https://Get-My-App.IO/path", "get-my-app"},
		{"mycoolstartup.io", "mycoolstartup"},
		{"http://deep.sub.example.com/x?y=1", "deep-sub-example"},
		{"mycoolstartup", "mycoolstartup"},
		{"Héllo.com", "hllo"},
	}
	for _, tc := range cases {
		if got := Keyword(tc.in); got != tc.want {
			t.Fatalf("Keyword(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}
