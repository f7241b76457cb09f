// +build !unit

package version

import "testing"

// TestFlagEmpty fails if version.Flag is not empty. Releases are cut with an
// empty flag.
func TestFlagEmpty(t *testing.T) {
	if len(Flag) > 0 {
		t.Fatalf("Version Flag is not empty: %s", Flag)
	}
}

func TestFull(t *testing.T) {
	cases := []struct {
		flag, commit, want string
	}{
		{"", "", "1.2.3"},
		{"develop", "", "1.2.3-develop"},
		{"", "0123456789abcdef", "1.2.3-01234567"},
		{"rc1", "0123456789abcdef", "1.2.3-rc1-01234567"},
		{"", "abc", "1.2.3"},
	}
	for _, c := range cases {
		if got := full("1.2.3", c.flag, c.commit); got != c.want {
			t.Fatalf("full(%q, %q) = %q, want %q", c.flag, c.commit, got, c.want)
		}
	}
}
