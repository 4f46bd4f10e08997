package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.Client())
}

func TestListPropertiesDecodesStringNumbers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/properties", r.URL.Path)
		_, _ = io.WriteString(w, `[{"_id":"p1","rent":"12000","views":4},{"_id":"p2","rent":9000,"floor":"2nd"}]`)
	})

	props, err := c.ListProperties(context.Background())
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, Number(12000), props[0].Rent)
	assert.Equal(t, 4, props[0].Views)
	assert.Equal(t, Number(9000), props[1].Rent)
	assert.Equal(t, Number(0), props[1].Floor)
}

func TestProtectedCallSendsBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/properties/p1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteProperty(context.Background(), "tok-1", "p1"))
}

func TestProtectedCallWithoutTokenNeverHitsNetwork(t *testing.T) {
	hit := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hit = true
	})

	err := c.DeleteBlog(context.Background(), "", "b1")
	assert.True(t, IsAuth(err))
	assert.False(t, hit)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"message":"jwt expired"}`,
			check: func(t *testing.T, err error) {
				assert.True(t, IsAuth(err))
			},
		},
		{
			name:   "forbidden",
			status: http.StatusForbidden,
			body:   `{}`,
			check: func(t *testing.T, err error) {
				assert.True(t, IsForbidden(err))
				assert.False(t, IsAuth(err))
				assert.Equal(t, "fallback", UserMessage(err, "fallback"))
			},
		},
		{
			name:   "server message verbatim",
			status: http.StatusBadRequest,
			body:   `{"message":"Contact already registered"}`,
			check: func(t *testing.T, err error) {
				var se *ServerError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusBadRequest, se.Status)
				assert.Equal(t, "Contact already registered", UserMessage(err, "fallback"))
			},
		},
		{
			name:   "server without message",
			status: http.StatusInternalServerError,
			body:   `oops`,
			check: func(t *testing.T, err error) {
				assert.Equal(t, "fallback", UserMessage(err, "fallback"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			err := c.UpdateBlog(context.Background(), "tok", "b1", &Payload{ContentType: "text/plain"})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := NewClient(srv.URL, srv.Client())
	srv.Close()

	_, err := c.ListProperties(context.Background())
	var ne *NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, "Could not reach the server. Please try again.", UserMessage(err, "x"))
}

func TestCancelledContextIsNotNetworkError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListProperties(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	var ne *NetworkError
	assert.False(t, errors.As(err, &ne))
}

func TestListBlogsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "6", q.Get("limit"))
		assert.Equal(t, "trending", q.Get("sortBy"))
		_, _ = io.WriteString(w, `{"blogs":[{"_id":"b1","title":"Hello"}],"totalPages":0}`)
	})

	page, err := c.ListBlogs(context.Background(), BlogQuery{Page: 2, Limit: 6, SortBy: "trending"})
	require.NoError(t, err)
	require.Len(t, page.Blogs, 1)
	assert.Equal(t, "Anonymous", page.Blogs[0].AuthorName())
	assert.Equal(t, 1, page.TotalPages)
}

func TestLoginPostsJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "a@b.co", in.Email)
		_, _ = io.WriteString(w, `{"token":"t","user":{"_id":"u1","firstName":"Asha","lastName":"Rao","role":"user"}}`)
	})

	res, err := c.Login(context.Background(), Credentials{Email: "a@b.co", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "t", res.Token)
	assert.Equal(t, "u1", res.User.ID)
	assert.Equal(t, "Asha Rao", res.User.DisplayName())
}

func TestResetPasswordPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/forgot-password/abc", r.URL.Path)
		_, _ = io.WriteString(w, `{"message":"Password updated"}`)
	})

	msg, err := c.ResetPassword(context.Background(), "abc", "newpassword")
	require.NoError(t, err)
	assert.Equal(t, "Password updated", msg.Message)
}

func TestFormEncodesRepeatedKeysAndFiles(t *testing.T) {
	f := NewForm()
	f.Add("amenities", "Gym")
	f.Add("amenities", "Park")
	f.AddFile("photos", `a"b.png`, "image/png", strings.NewReader("PNGDATA"))
	p, err := f.Encode()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(string(p.Body)))
	req.Header.Set("Content-Type", p.ContentType)
	require.NoError(t, req.ParseMultipartForm(1<<20))
	assert.Equal(t, []string{"Gym", "Park"}, req.MultipartForm.Value["amenities"])
	files := req.MultipartForm.File["photos"]
	require.Len(t, files, 1)
	assert.Equal(t, "image/png", files[0].Header.Get("Content-Type"))
}

func TestAssetURL(t *testing.T) {
	c := NewClient("https://api.example.com/", nil)
	assert.Equal(t, "https://api.example.com/uploads/x.jpg", c.AssetURL("uploads/x.jpg"))
	assert.Equal(t, "https://api.example.com/uploads/x.jpg", c.AssetURL("/uploads/x.jpg"))
	assert.Equal(t, "https://cdn.example.com/x.jpg", c.AssetURL("https://cdn.example.com/x.jpg"))
	assert.Equal(t, "", c.AssetURL(""))
}
