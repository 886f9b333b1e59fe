// Package api holds the JSON shapes of the read API under /v1.
package api

import (
	"time"

	"github.com/itchan-dev/nanabbs/internal/domain"
)

type BoardResponse struct {
	Name              string `json:"name"`
	LocalRule         string `json:"local_rule,omitempty"`
	DefaultAuthorName string `json:"default_author_name"`
}

type ThreadMetadataResponse struct {
	Id            domain.ThreadId    `json:"id"`
	Title         domain.ThreadTitle `json:"title"`
	ResponseCount int                `json:"response_count"`
	CreatedAt     time.Time          `json:"created_at"`
	LastBumpedAt  time.Time          `json:"last_bumped_at"`
}

// ResponseResponse is one response as displayed: name already defaulted, timestamp in JST.
type ResponseResponse struct {
	Number    domain.ResponseNumber `json:"number"`
	Name      string                `json:"name"`
	Mail      domain.Mail           `json:"mail,omitempty"`
	Sage      bool                  `json:"sage"`
	PostedAt  time.Time             `json:"posted_at"`
	Timestamp string                `json:"timestamp"`
	HashId    domain.HashId         `json:"hash_id"`
	Content   domain.Content        `json:"content"`
}

type ThreadResponse struct {
	Thread    ThreadMetadataResponse `json:"thread"`
	Responses []ResponseResponse     `json:"responses"`
}

type IndexResponse struct {
	Board   BoardResponse            `json:"board"`
	Threads []ThreadMetadataResponse `json:"threads"`
	Digests []ThreadResponse         `json:"digests"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewThreadMetadataResponse(meta domain.ThreadMeta) ThreadMetadataResponse {
	return ThreadMetadataResponse{
		Id:            meta.Id,
		Title:         meta.Title,
		ResponseCount: meta.ResponseCount,
		CreatedAt:     meta.CreatedAt,
		LastBumpedAt:  meta.LastBumpedAt,
	}
}

func NewThreadResponse(thread domain.ThreadWithResponses) ThreadResponse {
	responses := make([]ResponseResponse, len(thread.Responses))
	for i, r := range thread.Responses {
		responses[i] = ResponseResponse{
			Number:    r.Number,
			Name:      r.DisplayAuthorName,
			Mail:      r.Mail,
			Sage:      r.IsSage,
			PostedAt:  r.PostedAt,
			Timestamp: r.FormattedTimestamp,
			HashId:    r.HashId,
			Content:   r.Content,
		}
	}
	return ThreadResponse{Thread: NewThreadMetadataResponse(thread.Thread), Responses: responses}
}

func NewIndexResponse(index domain.Index) IndexResponse {
	threads := make([]ThreadMetadataResponse, len(index.Threads))
	for i, t := range index.Threads {
		threads[i] = NewThreadMetadataResponse(t)
	}
	digests := make([]ThreadResponse, len(index.Digests))
	for i, d := range index.Digests {
		digests[i] = NewThreadResponse(d)
	}
	return IndexResponse{
		Board: BoardResponse{
			Name:              index.Board.Name,
			LocalRule:         index.Board.LocalRule,
			DefaultAuthorName: index.Board.DefaultAuthorName,
		},
		Threads: threads,
		Digests: digests,
	}
}
