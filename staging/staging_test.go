package staging

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func fileHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("photos", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(16<<20))
	return req.MultipartForm.File["photos"][0]
}

func newLocal(t *testing.T) *Local {
	t.Helper()
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestStageAndOpen(t *testing.T) {
	ctx := context.Background()
	s := newLocal(t)
	data := pngBytes(t)

	f, err := Stage(ctx, s, "draft-1", fileHeader(t, "room.png", data))
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType)
	assert.Equal(t, "room.png", f.Name)
	assert.Equal(t, int64(len(data)), f.Size)
	assert.True(t, strings.HasPrefix(f.Key, "draft-1/"))
	assert.True(t, strings.HasSuffix(f.Key, ".png"))

	rc, err := s.Open(ctx, f.Key)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, Discard(ctx, s, []File{f, f}))
	_, err = s.Open(ctx, f.Key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStageRejectsNonImage(t *testing.T) {
	_, err := Stage(context.Background(), newLocal(t), "d", fileHeader(t, "notes.txt", []byte("hello world")))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestStageRejectsTruncatedImage(t *testing.T) {
	data := pngBytes(t)[:12]
	_, err := StageBytes(context.Background(), newLocal(t), "d", "cut.png", data)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestStageRejectsLargeFile(t *testing.T) {
	data := append(pngBytes(t), make([]byte, MaxFileSize)...)
	_, err := Stage(context.Background(), newLocal(t), "d", fileHeader(t, "big.png", data))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestLocalRejectsTraversal(t *testing.T) {
	s := newLocal(t)
	_, err := s.Open(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "a.png", cleanName(`C:\Users\me\a.png`))
	assert.Equal(t, "a.png", cleanName("../a.png"))
	assert.Equal(t, "image", cleanName(""))
}
