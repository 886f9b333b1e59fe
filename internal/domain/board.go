package domain

// Board is the static description of the single board, read from config.
type Board struct {
	Name              string
	LocalRule         string
	DefaultAuthorName string
}

// Index is the top page: the most recently bumped threads, and the latest
// responses of the first few of them.
type Index struct {
	Board   Board
	Threads []ThreadMeta
	Digests []ThreadWithResponses // same order as the head of Threads
}

// HasDigest reports whether the thread has a digest on the page.
func (i Index) HasDigest(id ThreadId) bool {
	for _, d := range i.Digests {
		if d.Thread.Id == id {
			return true
		}
	}
	return false
}
