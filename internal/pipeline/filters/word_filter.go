package filters

import (
	"context"
	"strings"

	"github.com/gustavalldev/MAXAntispamBot/internal/messages"
	"github.com/gustavalldev/MAXAntispamBot/internal/pipeline"
	"github.com/gustavalldev/MAXAntispamBot/internal/utils"
)

// WordFilter flags messages containing a banned word as a case-insensitive
// substring. Deliberately simple: false positives are accepted.
type WordFilter struct {
	words []string
}

func NewWordFilter(words []string) *WordFilter {
	normalized := make([]string, 0, len(words))
	for _, w := range words {
		if n := utils.NormalizeWord(w); n != "" {
			normalized = append(normalized, n)
		}
	}
	return &WordFilter{words: normalized}
}

func (f *WordFilter) Name() string {
	return "word_filter"
}

func (f *WordFilter) Process(_ context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	if !payload.Settings.BadWords {
		return &pipeline.Result{IsAllowed: true}, nil
	}
	lowerMsg := strings.ToLower(payload.Text)
	for _, word := range f.words {
		if strings.Contains(lowerMsg, word) {
			return &pipeline.Result{
				IsAllowed:  false,
				Reason:     messages.MsgReasonProhibitedWord,
				FilterName: f.Name(),
			}, nil
		}
	}
	for _, word := range payload.BlockedWords {
		word = utils.NormalizeWord(word)
		if word != "" && strings.Contains(lowerMsg, word) {
			return &pipeline.Result{
				IsAllowed:  false,
				Reason:     messages.MsgReasonProhibitedWord,
				FilterName: f.Name(),
			}, nil
		}
	}
	return &pipeline.Result{IsAllowed: true}, nil
}
