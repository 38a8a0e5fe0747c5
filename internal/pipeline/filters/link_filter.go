package filters

import (
	"context"
	"regexp"

	"github.com/gustavalldev/MAXAntispamBot/internal/messages"
	"github.com/gustavalldev/MAXAntispamBot/internal/pipeline"
)

type LinkFilter struct{}

func NewLinkFilter() *LinkFilter {
	return &LinkFilter{}
}

func (f *LinkFilter) Name() string {
	return "link_filter"
}

var urlRegex = regexp.MustCompile(`(?i)https?://\S+|\bwww\.\S+`)

func (f *LinkFilter) Process(_ context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	if !payload.Settings.Links {
		return &pipeline.Result{IsAllowed: true}, nil
	}
	if urlRegex.MatchString(payload.Text) {
		return &pipeline.Result{
			IsAllowed:  false,
			Reason:     messages.MsgReasonProhibitedLink,
			FilterName: f.Name(),
		}, nil
	}
	return &pipeline.Result{IsAllowed: true}, nil
}
