package domain

import "time"

type ResponseCreationData struct {
	ThreadId   ThreadId
	AuthorName AuthorName
	Mail       Mail
	Content    Content `validate:"required"`
	PosterIP   string  `validate:"required,ip"`
	PostedAt   time.Time
}

// Response is one stored post. It is never modified after insertion.
type Response struct {
	ThreadId   ThreadId
	Number     ResponseNumber
	AuthorName AuthorName
	Mail       Mail
	PostedAt   time.Time
	HashId     HashId
	Content    Content
}

// DisplayResponse carries the fields derived on every read.
type DisplayResponse struct {
	Response
	IsSage             bool
	DisplayAuthorName  string
	FormattedTimestamp string
}
