package tokenizer

import (
	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/llm-ls/llm-ls/internal/errkind"
)

// tiktokenTokenizer adapts tiktoken-go's BPE encoder to the Tokenizer
// interface, for models tiktoken knows the encoding of (OpenAI and
// OpenAI-compatible backends).
type tiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

func (t *tiktokenTokenizer) Count(s string) int {
	return len(t.enc.Encode(s, nil, nil))
}

// LoadTiktokenByModel is a ready-made LoadFunc for models tiktoken
// recognizes by name. It is not a general answer to spec.md's
// TokenizerSource (local path / repository / download URL) — those
// remain the out-of-scope collaborator's responsibility — but it covers
// the common OpenAI-compatible-model case without any download step.
func LoadTiktokenByModel(model string) (Tokenizer, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, errkind.Wrap(errkind.Tokenizer, err, "resolve tiktoken encoding for model "+model)
	}
	return &tiktokenTokenizer{enc: enc}, nil
}
