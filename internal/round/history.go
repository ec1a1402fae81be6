package round

// history keeps the most recent settled rounds, newest first.
type history struct {
	size    int
	entries []HistoryEntry
}

func newHistory(size int) *history {
	return &history{size: size, entries: make([]HistoryEntry, 0, size)}
}

func (h *history) add(e HistoryEntry) {
	h.entries = append([]HistoryEntry{e}, h.entries...)
	if len(h.entries) > h.size {
		h.entries = h.entries[:h.size]
	}
}

func (h *history) list() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}
