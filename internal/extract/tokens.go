package extract

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"inkwell/atlas/internal/logger"
)

const tokenEncoding = "o200k_base"

// Truncate shortens text to at most maxTokens tokens. A non-positive
// budget disables truncation.
func Truncate(text string, maxTokens int) string {
	// Every token covers at least one byte, so short text never needs the
	// encoder.
	if maxTokens <= 0 || len(text) <= maxTokens {
		return text
	}

	enc, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		// Roughly four bytes per token for English prose.
		logger.Warn("Token encoder unavailable, truncating by bytes", "error", err)
		if limit := maxTokens * 4; len(text) > limit {
			return strings.ToValidUTF8(text[:limit], "")
		}
		return text
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	logger.Debug("Truncating source text", "tokens", len(tokens), "budget", maxTokens)
	return enc.Decode(tokens[:maxTokens])
}
