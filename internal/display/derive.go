// Package display derives the per-read fields of responses.
package display

import (
	"strings"

	"github.com/itchan-dev/nanabbs/internal/domain"
)

type Deriver struct {
	defaultAuthorName string
}

func New(defaultAuthorName string) *Deriver {
	return &Deriver{defaultAuthorName: defaultAuthorName}
}

// AuthorName returns the name shown for a response.
func (d *Deriver) AuthorName(raw domain.AuthorName) string {
	if strings.TrimSpace(raw) == "" {
		return d.defaultAuthorName
	}
	return raw
}

// Derive maps responses 1:1 keeping their order. Callers pass them ascending by number.
func (d *Deriver) Derive(responses []domain.Response, locale Locale) []domain.DisplayResponse {
	out := make([]domain.DisplayResponse, len(responses))
	for i, r := range responses {
		out[i] = domain.DisplayResponse{
			Response:           r,
			IsSage:             IsSage(r.Mail),
			DisplayAuthorName:  d.AuthorName(r.AuthorName),
			FormattedTimestamp: FormatTimestamp(r.PostedAt, locale),
		}
	}
	return out
}
