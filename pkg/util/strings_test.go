package util

import "testing"

func TestParseIntDefault(t *testing.T) {
	cases := []struct {
		in   string
		def  int
		want int
	}{
		{"", 8080, 8080},
		{"9090", 8080, 9090},
		{"not-a-port", 8080, 8080},
		{"-1", 8080, -1},
	}
	for _, c := range cases {
		if got := ParseIntDefault(c.in, c.def); got != c.want {
			t.Fatalf("ParseIntDefault(%q, %d): got %d want %d", c.in, c.def, got, c.want)
		}
	}
}
