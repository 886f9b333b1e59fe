package domain

type (
	ThreadId       = int64
	ThreadTitle    = string
	ResponseNumber = int

	AuthorName = string
	Mail       = string
	HashId     = string
	Content    = string
)
