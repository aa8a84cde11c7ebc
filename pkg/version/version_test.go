package version

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Version
	}{
		{"1.2.3", Version{1, 2, 3}},
		{"v1.2.3", Version{1, 2, 3}},
		{"1.2", Version{1, 2, 0}},
		{"1", Version{1, 0, 0}},
		{"", Version{0, 0, 0}},
		{"abc", Version{0, 0, 0}},
		{"2.x.1", Version{2, 0, 1}},
		{"1.2.3-beta.1", Version{1, 2, 3}},
		{"  1.0.4  ", Version{1, 0, 4}},
		{"10.20.30", Version{10, 20, 30}},
		{"1..5", Version{1, 0, 5}},
	}
	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	if got := (Version{1, 2, 3}).String(); got != "1.2.3" {
		t.Errorf("String() = %q, want %q", got, "1.2.3")
	}
	if got := (Version{0, 0, 0}).String(); got != "0.0.0" {
		t.Errorf("String() = %q, want %q", got, "0.0.0")
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "2.0.0", -1},
		{"2.0.0", "1.9.9", 1},
		{"1.2.0", "1.10.0", -1},
		{"1.0.10", "1.0.2", 1},
		{"0.0.1", "0.0.2", -1},
	}
	for _, tt := range tests {
		if got := Compare(Parse(tt.a), Parse(tt.b)); got != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompareAntisymmetric(t *testing.T) {
	versions := []string{"0.0.0", "0.1.0", "1.0.0", "1.0.1", "1.2.3", "2.0.0"}
	for _, a := range versions {
		for _, b := range versions {
			ab := Compare(Parse(a), Parse(b))
			ba := Compare(Parse(b), Parse(a))
			if ab != -ba {
				t.Errorf("Compare(%q, %q) = %d but Compare(%q, %q) = %d", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestCompareTransitive(t *testing.T) {
	// Every combination of these components, cubed. Small enough to
	// exhaustively check all triples.
	parts := []uint64{0, 1, 2, 10}
	var versions []Version
	for _, maj := range parts {
		for _, min := range parts {
			for _, pat := range parts {
				versions = append(versions, Version{maj, min, pat})
			}
		}
	}

	for _, a := range versions {
		for _, b := range versions {
			for _, c := range versions {
				if Compare(a, b) <= 0 && Compare(b, c) <= 0 && Compare(a, c) > 0 {
					t.Fatalf("Compare not transitive: %v <= %v <= %v but Compare(%v, %v) > 0", a, b, c, a, c)
				}
			}
		}
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		installed string
		min, max  string
		want      bool
	}{
		{"no bounds", "1.0.0", "", "", true},
		{"within range", "1.5.0", "1.0.0", "2.0.0", true},
		{"at min", "1.0.0", "1.0.0", "", true},
		{"at max", "2.0.0", "", "2.0.0", true},
		{"below min", "0.9.0", "1.0.0", "", false},
		{"above max", "2.0.1", "", "2.0.0", false},
		{"min only satisfied", "3.0.0", "1.0.0", "", true},
		{"malformed installed no bounds", "garbage", "", "", true},
		{"malformed installed below min", "garbage", "1.0.0", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.installed, tt.min, tt.max)
			if got.Compatible != tt.want {
				t.Errorf("Check(%q, %q, %q).Compatible = %v, want %v",
					tt.installed, tt.min, tt.max, got.Compatible, tt.want)
			}
			if !got.Compatible && got.Resolution == "" {
				t.Errorf("Check(%q, %q, %q) incompatible but no resolution",
					tt.installed, tt.min, tt.max)
			}
			if got.Compatible && (got.Reason != "" || got.Resolution != "") {
				t.Errorf("Check(%q, %q, %q) compatible but carries reason %q",
					tt.installed, tt.min, tt.max, got.Reason)
			}
		})
	}
}

func TestCheckResolution(t *testing.T) {
	got := Check("0.5.0", "1.0.0", "")
	if want := "update to 1.0.0 or higher"; got.Resolution != want {
		t.Errorf("Resolution = %q, want %q", got.Resolution, want)
	}
	got = Check("3.0.0", "", "2.0.0")
	if want := "downgrade to 2.0.0 or lower"; got.Resolution != want {
		t.Errorf("Resolution = %q, want %q", got.Resolution, want)
	}
}
