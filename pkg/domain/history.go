package domain

import (
	"strings"
)

// Separators of the encoded history: entries by historyEntrySep, fields by historyFieldSep.
const (
	historyEntrySep = "|"
	historyFieldSep = ":"
)

// HistoryEntry records one elicitation.
type HistoryEntry struct {
	Intent string `json:"intent"`
	Slot   string `json:"slot"`
}

// String renders the entry in its encoded form.
func (e HistoryEntry) String() string {
	return e.Intent + historyFieldSep + e.Slot
}

// History is the ordered stack of elicitations. The last entry is the slot being elicited.
type History []HistoryEntry

// Push appends an entry unless the top entry already names the same slot.
// It reports whether the stack grew.
func (h *History) Push(intent, slot string) bool {
	if top, ok := h.Top(); ok && top.Slot == slot {
		return false
	}
	*h = append(*h, HistoryEntry{Intent: intent, Slot: slot})
	return true
}

// Pop removes and returns the top entry.
func (h *History) Pop() (HistoryEntry, error) {
	n := len(*h)
	if n == 0 {
		return HistoryEntry{}, ErrEmptyHistory
	}
	top := (*h)[n-1]
	*h = (*h)[:n-1]
	return top, nil
}

// Top returns the most recent entry.
func (h History) Top() (HistoryEntry, bool) {
	if len(h) == 0 {
		return HistoryEntry{}, false
	}
	return h[len(h)-1], true
}

// Len returns the number of entries.
func (h History) Len() int {
	return len(h)
}

// Encode serializes the stack into a single attribute string.
func (h History) Encode() string {
	if len(h) == 0 {
		return ""
	}
	parts := make([]string, len(h))
	for i, e := range h {
		parts[i] = e.String()
	}
	return strings.Join(parts, historyEntrySep)
}

// DecodeHistory parses an encoded stack. The empty string is the empty stack.
func DecodeHistory(raw string) (History, error) {
	if raw == "" {
		return History{}, nil
	}
	entries := strings.Split(raw, historyEntrySep)
	h := make(History, 0, len(entries))
	for i, entry := range entries {
		fields := strings.Split(entry, historyFieldSep)
		if len(fields) != 2 || fields[0] == "" || fields[1] == "" {
			return nil, errorf(ErrMalformedHistory, "entry %d: %q", i, entry)
		}
		h = append(h, HistoryEntry{Intent: fields[0], Slot: fields[1]})
	}
	return h, nil
}
