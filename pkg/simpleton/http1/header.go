package http1

import (
	"sort"
	"strings"
)

// Header stores HTTP header fields with one value per name.
//
// Names are case-insensitive and stored lower-cased. Entries are kept
// sorted by name, so iteration and serialization are in ascending order.
//
// The zero value is an empty header ready to use.
type Header struct {
	entries []headerEntry
}

type headerEntry struct {
	name  string
	value string
}

// Set stores value under the lower-cased name, replacing any previous value.
//
// Returns ErrInvalidHeader if the name is empty or if name or value contains
// CR or LF characters.
func (h *Header) Set(name, value string) error {
	// RFC 7230 §3.2: field values MUST NOT contain CR or LF
	if name == "" || strings.ContainsAny(name, "\r\n") || strings.ContainsAny(value, "\r\n") {
		return ErrInvalidHeader
	}

	key := strings.ToLower(name)
	i, found := h.search(key)
	if found {
		h.entries[i].value = value
		return nil
	}

	h.entries = append(h.entries, headerEntry{})
	copy(h.entries[i+1:], h.entries[i:])
	h.entries[i] = headerEntry{name: key, value: value}
	return nil
}

// Get returns the value stored for name (case-insensitive) and whether it
// was present.
func (h *Header) Get(name string) (string, bool) {
	i, found := h.search(strings.ToLower(name))
	if !found {
		return "", false
	}
	return h.entries[i].value, true
}

// Value returns the value stored for name, or "" if absent.
func (h *Header) Value(name string) string {
	v, _ := h.Get(name)
	return v
}

// Has reports whether a value is stored for name (case-insensitive).
func (h *Header) Has(name string) bool {
	_, found := h.search(strings.ToLower(name))
	return found
}

// Del removes name (case-insensitive). Deleting an absent name is a no-op.
func (h *Header) Del(name string) {
	i, found := h.search(strings.ToLower(name))
	if !found {
		return
	}
	h.entries = append(h.entries[:i], h.entries[i+1:]...)
}

// Len returns the number of stored headers.
func (h *Header) Len() int {
	return len(h.entries)
}

// Reset removes all headers, keeping the backing storage.
func (h *Header) Reset() {
	h.entries = h.entries[:0]
}

// Clone returns an independent copy of h.
func (h *Header) Clone() Header {
	if len(h.entries) == 0 {
		return Header{}
	}
	entries := make([]headerEntry, len(h.entries))
	copy(entries, h.entries)
	return Header{entries: entries}
}

// VisitAll calls visitor for each header in ascending name order.
// Names are passed lower-cased. Iteration stops if visitor returns false.
func (h *Header) VisitAll(visitor func(name, value string) bool) {
	for _, e := range h.entries {
		if !visitor(e.name, e.value) {
			return
		}
	}
}

// search returns the index of key, or the index where it would be inserted.
// key must already be lower-cased.
func (h *Header) search(key string) (int, bool) {
	i := sort.Search(len(h.entries), func(i int) bool {
		return h.entries[i].name >= key
	})
	return i, i < len(h.entries) && h.entries[i].name == key
}
