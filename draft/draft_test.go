package draft

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/tolet/api"
	"github.com/eringen/tolet/geo"
	"github.com/eringen/tolet/staging"
)

func pngUpload(t *testing.T, name string) *multipart.FileHeader {
	t.Helper()
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewGray(image.Rect(0, 0, 2, 2))))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("photos", name)
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["photos"][0]
}

func decodePayload(t *testing.T, p *api.Payload) *multipart.Form {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(p.Body))
	req.Header.Set("Content-Type", p.ContentType)
	require.NoError(t, req.ParseMultipartForm(16<<20))
	return req.MultipartForm
}

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	store, err := staging.NewLocal(t.TempDir())
	require.NoError(t, err)
	r := NewRegistry(store, time.Hour)
	t.Cleanup(r.Close)
	return r
}

func fillRequired(t *testing.T, d *Draft) {
	t.Helper()
	for name, v := range map[string]string{
		"firstName": "Asha",
		"lastName":  "Rao",
		"contact":   "9876543210",
		"locality":  "Gomti Nagar",
		"address":   "12 Vibhuti Khand",
		"spaceType": "Flat",
		"rent":      "15000",
	} {
		require.NoError(t, d.Property.Set(name, v))
	}
}

func TestValidationBlocksNetwork(t *testing.T) {
	r := newRegistry(t)
	f := r.CreateProperty("sid")
	require.NoError(t, f.Mutate(func(d *Draft) error {
		return d.Property.Set("firstName", "Asha")
	}))

	called := false
	_, err := f.Submit(func(ctx context.Context, p *api.Payload) (string, error) {
		called = true
		return "x", nil
	})
	var ve *api.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Please fill all required fields", ve.Message)
	assert.False(t, called)

	st, _ := f.State()
	assert.Equal(t, Ready, st)
}

func TestNumericValidation(t *testing.T) {
	d := NewPropertyDraft()
	for name, v := range map[string]string{"firstName": "a", "lastName": "b", "contact": "1", "locality": "l", "address": "x", "spaceType": "Flat", "rent": "lots"} {
		require.NoError(t, d.Set(name, v))
	}
	assert.Error(t, d.Validate())
	require.NoError(t, d.Set("rent", "1200"))
	assert.NoError(t, d.Validate())
}

func TestCreatePropertyPayload(t *testing.T) {
	r := newRegistry(t)
	f := r.CreateProperty("sid")
	require.NoError(t, f.Mutate(func(d *Draft) error {
		fillRequired(t, d)
		_, err := d.Property.Toggle("amenities", "Gym")
		require.NoError(t, err)
		_, err = d.Property.Toggle("amenities", "Park")
		require.NoError(t, err)
		d.Click(geo.Coordinate{Lat: 26.9, Lng: 80.99})
		return nil
	}))
	res, rejected, err := f.AddPhotos(context.Background(), []*multipart.FileHeader{pngUpload(t, "a.png"), pngUpload(t, "b.png")})
	require.NoError(t, err)
	assert.Empty(t, rejected)
	assert.Len(t, res.Added, 2)

	var got *multipart.Form
	id, err := f.Submit(func(ctx context.Context, p *api.Payload) (string, error) {
		got = decodePayload(t, p)
		return "new-id", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new-id", id)

	assert.Equal(t, []string{"Gym", "Park"}, got.Value["amenities"])
	assert.NotContains(t, got.Value, "appliances")
	assert.NotContains(t, got.Value, "existingPhotos")
	assert.Equal(t, []string{"26.900000"}, got.Value["latitude"])
	assert.Equal(t, []string{"No"}, got.Value["parking"])
	assert.Len(t, got.File["photos"], 2)

	st, _ := f.State()
	assert.Equal(t, Success, st)
	assert.Equal(t, 0, r.Len())
	assert.ErrorIs(t, f.Context().Err(), context.Canceled)
}

func TestEditSendsKeptAndStaged(t *testing.T) {
	r := newRegistry(t)
	f, err := r.EditProperty(context.Background(), "sid", "p1", func(ctx context.Context) (api.Property, error) {
		return api.Property{
			ID: "p1", FirstName: "Asha", LastName: "Rao", Contact: "9876543210",
			Locality: "Aliganj", Address: "4 Kapoorthala", SpaceType: "House", Rent: 20000,
			Amenities: []string{"Lift"},
			Photos:    []string{"uploads/a.jpg", "uploads/b.jpg", "uploads/c.jpg"},
			Latitude:  26.88, Longitude: 80.94,
		}, nil
	})
	require.NoError(t, err)

	require.NoError(t, f.Mutate(func(d *Draft) error {
		assert.True(t, d.Photos.ToggleDeleteExisting("uploads/b.jpg"))
		return nil
	}))
	_, _, err = f.AddPhotos(context.Background(), []*multipart.FileHeader{pngUpload(t, "new.png")})
	require.NoError(t, err)

	var got *multipart.Form
	id, err := f.Submit(func(ctx context.Context, p *api.Payload) (string, error) {
		got = decodePayload(t, p)
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", id)
	assert.Equal(t, []string{"uploads/a.jpg", "uploads/c.jpg"}, got.Value["existingPhotos"])
	assert.Len(t, got.File["photos"], 1)
	assert.Equal(t, []string{"20000"}, got.Value["rent"])
	assert.Equal(t, []string{"Lift"}, got.Value["amenities"])
	assert.Equal(t, []string{"26.880000"}, got.Value["latitude"])
}

func TestFailedLoadIsNotExposed(t *testing.T) {
	r := newRegistry(t)
	_, err := r.EditProperty(context.Background(), "sid", "p1", func(ctx context.Context) (api.Property, error) {
		return api.Property{}, &api.ForbiddenError{}
	})
	assert.True(t, api.IsForbidden(err))
	assert.Equal(t, 0, r.Len())
}

func TestServerFailureReturnsToReady(t *testing.T) {
	r := newRegistry(t)
	f := r.CreateProperty("sid")
	require.NoError(t, f.Mutate(func(d *Draft) error { fillRequired(t, d); return nil }))

	_, err := f.Submit(func(ctx context.Context, p *api.Payload) (string, error) {
		return "", &api.ServerError{Status: 500}
	})
	require.Error(t, err)
	st, last := f.State()
	assert.Equal(t, Failed, st)
	assert.Equal(t, err, last)

	require.NoError(t, f.Mutate(func(d *Draft) error { return nil }))
	st, last = f.State()
	assert.Equal(t, Ready, st)
	assert.NoError(t, last)
}

func TestDiscardCancelsInFlightSubmit(t *testing.T) {
	r := newRegistry(t)
	f := r.CreateProperty("sid")
	require.NoError(t, f.Mutate(func(d *Draft) error { fillRequired(t, d); return nil }))

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(func(ctx context.Context, p *api.Payload) (string, error) {
			close(started)
			<-ctx.Done()
			return "", ctx.Err()
		})
		done <- err
	}()

	<-started
	assert.ErrorIs(t, f.Mutate(func(d *Draft) error { return nil }), ErrNotReady)
	_, err := f.Submit(func(ctx context.Context, p *api.Payload) (string, error) { return "", nil })
	assert.ErrorIs(t, err, ErrNotReady)

	require.True(t, r.Discard("sid", f.ID))
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("submit did not observe cancellation")
	}
	assert.ErrorIs(t, f.Mutate(func(d *Draft) error { return nil }), ErrClosed)
}

func TestDiscardDeletesStagedBytes(t *testing.T) {
	r := newRegistry(t)
	f := r.CreateProperty("sid")
	res, _, err := f.AddPhotos(context.Background(), []*multipart.FileHeader{pngUpload(t, "a.png")})
	require.NoError(t, err)
	key := res.Added[0].Key

	_, ok := f.OwnsStaged(key)
	assert.True(t, ok)

	f.Close()
	_, err = r.Store().Open(context.Background(), key)
	assert.ErrorIs(t, err, staging.ErrNotFound)
}

func TestRegistryScopesByOwner(t *testing.T) {
	r := newRegistry(t)
	f := r.CreateBlog("sid-a")

	_, ok := r.Get("sid-b", f.ID)
	assert.False(t, ok)
	assert.False(t, r.Discard("sid-b", f.ID))
	got, ok := r.Get("sid-a", f.ID)
	require.True(t, ok)
	assert.Same(t, f, got)

	r.CreateProperty("sid-a")
	r.CreateProperty("sid-b")
	assert.Equal(t, 2, r.DiscardOwner("sid-a"))
	assert.Equal(t, 1, r.Len())
}

func TestSweepDropsIdleForms(t *testing.T) {
	r := newRegistry(t)
	r.CreateProperty("sid")
	assert.Equal(t, 0, r.Sweep())

	r.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 0, r.Len())
}

func TestBlogPayloadAndCover(t *testing.T) {
	r := newRegistry(t)
	f := r.CreateBlog("sid")
	require.NoError(t, f.Mutate(func(d *Draft) error {
		d.Blog.Set("title", "Renting in Lucknow")
		d.Blog.Set("content", "Tips")
		return nil
	}))

	var got *multipart.Form
	_, err := f.Submit(func(ctx context.Context, p *api.Payload) (string, error) {
		got = decodePayload(t, p)
		return "b1", nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"[]"}, got.Value["tags"])
	assert.Empty(t, got.File["coverImage"])
}

func TestBlogTagsAndCoverReplace(t *testing.T) {
	r := newRegistry(t)
	f, err := r.EditBlog(context.Background(), "sid", "b1", func(ctx context.Context) (api.Blog, error) {
		return api.Blog{ID: "b1", Title: "T", Content: "C", Tags: []string{"rent"}, CoverImage: "uploads/cover.jpg"}, nil
	})
	require.NoError(t, err)

	require.NoError(t, f.Mutate(func(d *Draft) error {
		assert.False(t, d.Blog.AddTag("rent"))
		assert.False(t, d.Blog.AddTag("   "))
		assert.True(t, d.Blog.AddTag(" tips "))
		return nil
	}))
	require.NoError(t, f.SetCover(context.Background(), pngUpload(t, "one.png")))
	require.NoError(t, f.SetCover(context.Background(), pngUpload(t, "two.png")))

	var got *multipart.Form
	_, err = f.Submit(func(ctx context.Context, p *api.Payload) (string, error) {
		got = decodePayload(t, p)
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`["rent","tips"]`}, got.Value["tags"])
	require.Len(t, got.File["coverImage"], 1)
	assert.Equal(t, "two.png", got.File["coverImage"][0].Filename)
}

func TestEditBlogRequiresCover(t *testing.T) {
	r := newRegistry(t)
	f, err := r.EditBlog(context.Background(), "sid", "b1", func(ctx context.Context) (api.Blog, error) {
		return api.Blog{ID: "b1", Title: "T", Content: "C", CoverImage: "uploads/cover.jpg"}, nil
	})
	require.NoError(t, err)
	require.NoError(t, f.RemoveCover())

	_, err = f.Submit(func(ctx context.Context, p *api.Payload) (string, error) {
		t.Fatal("send must not run")
		return "", nil
	})
	var ve *api.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Please upload a cover image for your blog", ve.Message)
}

func TestOrderedSetToggle(t *testing.T) {
	s := NewOrderedSet("a", "b", "a", "")
	assert.Equal(t, []string{"a", "b"}, s.Values())
	assert.False(t, s.Toggle("a"))
	assert.True(t, s.Toggle("a"))
	assert.Equal(t, []string{"b", "a"}, s.Values())
}

func TestToggleRejectsUnknownOption(t *testing.T) {
	d := NewPropertyDraft()
	_, err := d.Toggle("amenities", "Helipad")
	assert.Error(t, err)
	_, err = d.Toggle("colours", "Gym")
	assert.Error(t, err)
	on, err := d.Toggle("appliances", "WiFi")
	require.NoError(t, err)
	assert.True(t, on)
}
