// Package strings holds small string helpers shared by config and handlers.
package strings

import "strings"

// SplitList splits raw on sep, trims each part, and drops empty and repeated
// parts. Order of first appearance is kept. An empty raw yields nil.
func SplitList(raw, sep string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, sep)
	seen := make(map[string]struct{}, len(parts))
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
