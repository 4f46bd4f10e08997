// Package photoset tracks the gallery of one record being edited: photos the
// backend already holds, photos staged locally, and existing photos marked
// for removal. The combined count never exceeds the set's limit.
package photoset

import (
	"fmt"

	"github.com/eringen/tolet/staging"
)

// MaxPhotos is the property gallery limit.
const MaxPhotos = 10

// Mode decides how an oversized batch is handled.
type Mode int

const (
	// Create keeps as many files as fit and drops the rest.
	Create Mode = iota
	// Edit rejects the whole batch.
	Edit
)

// AddResult reports what Add did. Warning is empty when every file fit.
type AddResult struct {
	Added   []staging.File
	Dropped []staging.File
	Warning string
}

// Set is not safe for concurrent use; the owning form serializes access.
type Set struct {
	mode     Mode
	limit    int
	existing []string
	staged   []staging.File
	marked   map[string]struct{}
}

// New returns a property gallery seeded with the backend's photo ids.
func New(mode Mode, existing []string) *Set {
	return NewWithLimit(mode, MaxPhotos, existing)
}

// NewWithLimit is New with a custom capacity. Seeds beyond the limit are
// kept as the backend sent them; they simply leave no room for more.
func NewWithLimit(mode Mode, limit int, existing []string) *Set {
	seen := make(map[string]struct{}, len(existing))
	ids := make([]string, 0, len(existing))
	for _, id := range existing {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return &Set{
		mode:     mode,
		limit:    limit,
		existing: ids,
		marked:   make(map[string]struct{}),
	}
}

// Limit is the capacity.
func (s *Set) Limit() int { return s.limit }

// Mode returns the batch policy.
func (s *Set) Mode() Mode { return s.mode }

// Count is existing - marked + staged.
func (s *Set) Count() int {
	return len(s.existing) - len(s.marked) + len(s.staged)
}

// Remaining is how many more files fit.
func (s *Set) Remaining() int {
	if r := s.limit - s.Count(); r > 0 {
		return r
	}
	return 0
}

// Add stages files subject to the limit.
func (s *Set) Add(files []staging.File) AddResult {
	room := s.Remaining()
	if len(files) <= room {
		s.staged = append(s.staged, files...)
		return AddResult{Added: files}
	}
	if s.mode == Edit {
		return AddResult{
			Dropped: files,
			Warning: fmt.Sprintf("Maximum %d images allowed. You can add %d more.", s.limit, room),
		}
	}
	kept := files[:room]
	s.staged = append(s.staged, kept...)
	return AddResult{
		Added:   kept,
		Dropped: files[room:],
		Warning: fmt.Sprintf("Maximum %d images allowed. Only first %d images will be kept.", s.limit, s.limit),
	}
}

// RemoveStaged drops the staged file at index. Out of range is a no-op.
func (s *Set) RemoveStaged(index int) (staging.File, bool) {
	if index < 0 || index >= len(s.staged) {
		return staging.File{}, false
	}
	f := s.staged[index]
	s.staged = append(s.staged[:index], s.staged[index+1:]...)
	return f, true
}

// RemoveStagedKey drops the staged file with key.
func (s *Set) RemoveStagedKey(key string) (staging.File, bool) {
	for i, f := range s.staged {
		if f.Key == key {
			return s.RemoveStaged(i)
		}
	}
	return staging.File{}, false
}

// ClearStaged drops every staged file and returns them.
func (s *Set) ClearStaged() []staging.File {
	out := s.staged
	s.staged = nil
	return out
}

// ToggleDeleteExisting flips the removal mark on an existing photo. Unknown
// ids are ignored. Unmarking is refused when it would overflow the set, since
// the freed slot may have been filled by a staged file.
func (s *Set) ToggleDeleteExisting(id string) bool {
	if !s.hasExisting(id) {
		return false
	}
	if _, ok := s.marked[id]; ok {
		if s.Count() >= s.limit {
			return false
		}
		delete(s.marked, id)
		return true
	}
	s.marked[id] = struct{}{}
	return true
}

// MarkExisting marks every existing photo for removal.
func (s *Set) MarkExisting() {
	for _, id := range s.existing {
		s.marked[id] = struct{}{}
	}
}

// IsMarked reports whether id is marked for removal.
func (s *Set) IsMarked(id string) bool {
	_, ok := s.marked[id]
	return ok
}

// Keep returns existing ids not marked for removal, in backend order.
func (s *Set) Keep() []string {
	out := make([]string, 0, len(s.existing))
	for _, id := range s.existing {
		if _, ok := s.marked[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// Existing returns a copy of the backend ids.
func (s *Set) Existing() []string {
	return append([]string(nil), s.existing...)
}

// Staged returns a copy of the staged files.
func (s *Set) Staged() []staging.File {
	return append([]staging.File(nil), s.staged...)
}

// Marked returns the marked ids in backend order.
func (s *Set) Marked() []string {
	var out []string
	for _, id := range s.existing {
		if _, ok := s.marked[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (s *Set) hasExisting(id string) bool {
	for _, e := range s.existing {
		if e == id {
			return true
		}
	}
	return false
}
