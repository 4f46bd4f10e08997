package draft

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/eringen/tolet/api"
	"github.com/eringen/tolet/staging"
)

// Encode builds the multipart body for d. Create and edit submissions both
// go through here; edit mode differs only in the kept photo ids it sends.
func Encode(ctx context.Context, store staging.Store, d *Draft) (*api.Payload, error) {
	f := api.NewForm()
	switch d.Kind {
	case KindProperty:
		encodeProperty(f, d)
	case KindBlog:
		if err := encodeBlog(f, d); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("encode: unknown kind %d", d.Kind)
	}

	field := "photos"
	if d.Kind == KindBlog {
		field = "coverImage"
	}
	for _, sf := range d.Photos.Staged() {
		if err := addStaged(ctx, f, store, field, sf); err != nil {
			return nil, err
		}
	}
	return f.Encode()
}

func encodeProperty(f *api.Form, d *Draft) {
	p := d.Property
	for _, fd := range PropertyFields {
		f.Add(fd.Name, p.Get(fd.Name))
	}
	f.Add("latitude", p.Location.LatString())
	f.Add("longitude", p.Location.LngString())
	for _, v := range p.Amenities.Values() {
		f.Add("amenities", v)
	}
	for _, v := range p.Appliances.Values() {
		f.Add("appliances", v)
	}
	for _, id := range d.Photos.Keep() {
		f.Add("existingPhotos", id)
	}
}

// encodeBlog sends tags as one JSON array string, the shape the blog
// endpoint parses. The current cover is kept server-side when no new file
// is attached, so its id is not sent.
func encodeBlog(f *api.Form, d *Draft) error {
	tags := d.Blog.Tags.Values()
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	f.Add("title", d.Blog.Title)
	f.Add("content", d.Blog.Content)
	f.Add("tags", string(b))
	return nil
}

func addStaged(ctx context.Context, f *api.Form, store staging.Store, field string, sf staging.File) error {
	rc, err := store.Open(ctx, sf.Key)
	if err != nil {
		return fmt.Errorf("open staged %s: %w", sf.Name, err)
	}
	defer rc.Close()
	f.AddFile(field, sf.Name, sf.ContentType, rc)
	return nil
}
