package hist

import "testing"

func TestParseTitle(t *testing.T) {
	cases := []struct {
		in   string
		want Title
	}{
		{"", Title{}},
		{"Muon p_T", Title{Main: "Muon p_T"}},
		{"Muon p_T;p_T [GeV]", Title{Main: "Muon p_T", X: "p_T [GeV]"}},
		{"Muon p_T;p_T [GeV];Events", Title{Main: "Muon p_T", X: "p_T [GeV]", Y: "Events"}},
		// x-axis title must survive an absent main title and an absent y title
		{";p_T [GeV]", Title{X: "p_T [GeV]"}},
		{";p_T [GeV];", Title{X: "p_T [GeV]"}},
		// extra semicolons stay in the y field
		{"a;b;c;d", Title{Main: "a", X: "b", Y: "c;d"}},
	}
	for _, c := range cases {
		if got := ParseTitle(c.in); got != c.want {
			t.Errorf("ParseTitle(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}
