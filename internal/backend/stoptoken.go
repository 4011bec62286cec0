package backend

import "strings"

// StripStopTokens removes every configured stop-token substring from each
// completion, one token at a time in order (spec.md §4.3). A token may
// appear more than once in a completion; every occurrence is removed.
func StripStopTokens(completions []string, tokens []string) []string {
	out := make([]string, len(completions))
	for i, c := range completions {
		for _, tok := range tokens {
			if tok == "" {
				continue
			}
			c = strings.ReplaceAll(c, tok, "")
		}
		out[i] = c
	}
	return out
}
