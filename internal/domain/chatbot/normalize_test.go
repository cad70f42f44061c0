package chatbot

import "testing"

func TestNormalizeQuery(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{name: "trims whitespace", in: "  Hello World  ", out: "hello world"},
		{name: "removes punctuation", in: "What's, the crowd?", out: "what s the crowd"},
		{name: "collapses runs", in: "temple   --  timings", out: "temple timings"},
	}

	for _, tc := range cases {
		if got := normalizeQuery(tc.in); got != tc.out {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.out, got)
		}
	}
}
