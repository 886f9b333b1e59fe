package domain

import "time"

// to iterate thru layers: handler -> service -> storage
type ThreadCreationData struct {
	Title         ThreadTitle `validate:"required"`
	FirstResponse ResponseCreationData
}

type ThreadMeta struct {
	Id            ThreadId
	Title         ThreadTitle
	ResponseCount int
	CreatedAt     time.Time
	LastBumpedAt  time.Time
}

// ThreadWithResponses is the read aggregate of one thread page.
// Responses are strictly ascending by Number.
type ThreadWithResponses struct {
	Thread    ThreadMeta
	Responses []DisplayResponse
}

// LatestNumber is the number of the last response on the page, 0 if the page is empty.
func (t ThreadWithResponses) LatestNumber() ResponseNumber {
	if len(t.Responses) == 0 {
		return 0
	}
	return t.Responses[len(t.Responses)-1].Number
}
