package util

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"The Godfather", "the-godfather"},
		{"  Pulp  Fiction  ", "pulp-fiction"},
		{"Sci-Fi", "sci-fi"},
		{"Blade Runner 2049", "blade-runner-2049"},
		{"Amélie!", "amlie"},
		{"snake_case name", "snake-case-name"},
		{"", ""},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
