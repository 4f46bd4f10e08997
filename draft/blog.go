package draft

import (
	"strings"

	"github.com/eringen/tolet/api"
)

// BlogDraft is a post being written. The cover image lives in the owning
// form's photo set, capacity one.
type BlogDraft struct {
	Title   string
	Content string
	Tags    OrderedSet
}

// BlogDraftFrom seeds a draft from a stored post.
func BlogDraftFrom(b api.Blog) *BlogDraft {
	return &BlogDraft{Title: b.Title, Content: b.Content, Tags: NewOrderedSet(b.Tags...)}
}

// Set assigns title or content. Other names are ignored.
func (d *BlogDraft) Set(name, value string) {
	switch name {
	case "title":
		d.Title = value
	case "content":
		d.Content = value
	}
}

// AddTag appends a trimmed tag; blanks and repeats are rejected.
func (d *BlogDraft) AddTag(tag string) bool {
	return d.Tags.Add(tag)
}

// RemoveTag drops a tag.
func (d *BlogDraft) RemoveTag(tag string) bool {
	return d.Tags.Remove(tag)
}

// Required lists the fields that must be non-empty.
func (d *BlogDraft) Required() []string {
	return []string{"title", "content"}
}

// Validate checks title and content. needCover is set for edit mode, where
// a post may not lose its cover.
func (d *BlogDraft) Validate(hasCover, needCover bool) error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Content) == "" {
		return api.Invalid("Please fill in all required fields")
	}
	if needCover && !hasCover {
		return api.Invalid("Please upload a cover image for your blog")
	}
	return nil
}
