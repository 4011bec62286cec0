// Package tokenizer implements the tokenizer-source/cache contract of
// spec.md §3/§5. Resolving a TokenizerSource to a loaded tokenizer —
// downloading a file, parsing a vocabulary, authenticating against a
// repository — is an out-of-scope external collaborator (spec.md §1);
// this package only owns the in-memory, model-keyed cache and the
// token-counting interface the prompt builder consumes.
package tokenizer

// Tokenizer counts how many tokens a string encodes to. It satisfies
// internal/prompt's Counter interface.
type Tokenizer interface {
	Count(s string) int
}
