package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                                  "/",
		"/metrics":                          "/metrics",
		"/signin":                           "/signin",
		"/gadgets":                          "/gadgets",
		"/gadgets?status=AVAILABLE":         "/gadgets",
		"/gadgets/01HX":                     "/gadgets/:id",
		"/gadgets/01HX/self-destruct":       "/gadgets/:id/self-destruct",
		"/gadgets/01HX/self-destruct/extra": "/gadgets/:other",
		"/gadgets/01HX/unknown":             "/gadgets/:other",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
