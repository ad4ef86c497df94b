package keywords

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Indigo", "Indigo", true},
		{"indigo", "Indigo", true},
		{"INDIGO", "Indigo", true},
		{"Indigo Airlines Ltd", "Indigo", true}, // input contains canonical name
		{"Air India", "Air India", true},
		{"spicejet", "SpiceJet", true},
		{"6e", "Indigo", true}, // keyword-table lookup
		{"Ryanair", "", false},
		{"", "", false},
		{"   ", "", false},
	}

	for _, c := range cases {
		got, ok := Canonicalize(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("Canonicalize(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestCanonicalize_Deterministic(t *testing.T) {
	first, _ := Canonicalize("air")
	for i := 0; i < 20; i++ {
		next, _ := Canonicalize("air")
		if next != first {
			t.Fatalf("ambiguous name resolved differently across calls: %q vs %q", first, next)
		}
	}
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"ryanair":         "Ryanair",
		"wizz air":        "Wizz Air",
		"  norse atlantic ": "Norse Atlantic",
		"JETBLUE":         "Jetblue",
	}
	for in, want := range cases {
		if got := TitleCase(in); got != want {
			t.Errorf("TitleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
