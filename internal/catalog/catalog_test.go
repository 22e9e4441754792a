package catalog

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "recraft-v3-svg", "recraft-v3-svg"},
		{"provider_prefix", "recraft-ai/recraft-v3-svg", "recraft-v3-svg"},
		{"version_suffix", "recraft-v3-svg:9f2e1d", "recraft-v3-svg"},
		{"prefix_and_suffix", "recraft-ai/recraft-20b-svg:a1b2c3", "recraft-20b-svg"},
		{"empty", "", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Normalize(test.in); got != test.want {
				t.Fatalf("Normalize(%q) = %q, want %q", test.in, got, test.want)
			}
		})
	}
}

func TestCost(t *testing.T) {
	c := New()

	tests := []struct {
		name string
		in   string
		want int
	}{
		{"listed", "recraft-v3-svg", 2},
		{"listed_with_prefix", "recraft-ai/recraft-v3-svg", 2},
		{"listed_cheap", "recraft-ai/recraft-20b-svg", 1},
		{"unknown_falls_back", "some-other/model", DefaultCost},
		{"empty_falls_back", "", DefaultCost},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := c.Cost(test.in); got != test.want {
				t.Fatalf("Cost(%q) = %d, want %d", test.in, got, test.want)
			}
		})
	}
}

func TestNewFromSpec(t *testing.T) {
	c, err := NewFromSpec("recraft-ai/recraft-v3-svg=5, custom-model=3")
	if err != nil {
		t.Fatalf("NewFromSpec failed: %v", err)
	}

	if got := c.Cost("recraft-v3-svg"); got != 5 {
		t.Errorf("override not applied: got %d, want 5", got)
	}
	if got := c.Cost("custom-model"); got != 3 {
		t.Errorf("new entry not applied: got %d, want 3", got)
	}
	// Untouched built-in survives layering
	if got := c.Cost("recraft-20b-svg"); got != 1 {
		t.Errorf("built-in entry lost: got %d, want 1", got)
	}
}

func TestNewFromSpecInvalid(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{"missing_equals", "recraft-v3-svg"},
		{"non_numeric_cost", "m=abc"},
		{"zero_cost", "m=0"},
		{"negative_cost", "m=-1"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := NewFromSpec(test.spec); err == nil {
				t.Fatalf("expected error for spec %q", test.spec)
			}
		})
	}
}
