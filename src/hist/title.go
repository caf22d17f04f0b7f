package hist

import "strings"

// Title is the structured form of a figure title. The container stores it as a single string
// with up to three semicolon-separated fields: figure title, x-axis title, y-axis title. Any
// field may be empty; in particular the x-axis title remains recoverable when no y-axis title
// follows it.
type Title struct {
	Main string
	X    string
	Y    string
}

// ParseTitle splits s on the first two semicolons. It is parsed once at load time; nothing else
// in the package re-inspects the raw string.
func ParseTitle(s string) Title {
	parts := strings.SplitN(s, ";", 3)
	t := Title{Main: parts[0]}
	if len(parts) > 1 {
		t.X = parts[1]
	}
	if len(parts) > 2 {
		t.Y = parts[2]
	}
	return t
}
