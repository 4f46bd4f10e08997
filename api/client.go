// Package api is the HTTP facade over the listing backend: properties, blogs
// and user accounts. Every call takes a context so a discarded form can
// abandon its request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the production backend.
const DefaultBaseURL = "https://to-let-property-backend.onrender.com"

// Client calls the backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a backend client. A nil httpClient gets a 15s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the backend origin, used to resolve relative photo paths.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AssetURL resolves a photo path returned by the backend. Absolute URLs pass
// through unchanged.
func (c *Client) AssetURL(p string) string {
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") || strings.HasPrefix(p, "data:") {
		return p
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return c.baseURL + p
}

// Payload is an encoded multipart body ready to send.
type Payload struct {
	Body        []byte
	ContentType string
}

// Form accumulates multipart parts. Keys may repeat.
type Form struct {
	buf    bytes.Buffer
	writer *multipart.Writer
	err    error
}

// NewForm starts an empty multipart body.
func NewForm() *Form {
	f := &Form{}
	f.writer = multipart.NewWriter(&f.buf)
	return f
}

// Add appends a plain string part.
func (f *Form) Add(key, value string) {
	if f.err != nil {
		return
	}
	f.err = f.writer.WriteField(key, value)
}

// AddFile appends a binary part from r.
func (f *Form) AddFile(key, filename, contentType string, r io.Reader) {
	if f.err != nil {
		return
	}
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(key), escapeQuotes(filename))}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h["Content-Type"] = []string{contentType}
	part, err := f.writer.CreatePart(h)
	if err != nil {
		f.err = err
		return
	}
	_, f.err = io.Copy(part, r)
}

// Encode closes the body. The form must not be used afterwards.
func (f *Form) Encode() (*Payload, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err := f.writer.Close(); err != nil {
		return nil, err
	}
	return &Payload{Body: f.buf.Bytes(), ContentType: f.writer.FormDataContentType()}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return http.NewRequestWithContext(ctx, method, u, body)
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, path, nil, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) multipartRequest(ctx context.Context, method, path string, p *Payload) (*http.Request, error) {
	req, err := c.newRequest(ctx, method, path, nil, bytes.NewReader(p.Body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", p.ContentType)
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// A cancelled form is not a network failure; hand the context error
		// back so callers can drop the result quietly.
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
	msg := strings.TrimSpace(body.Message)
	if msg == "" {
		msg = strings.TrimSpace(body.Error)
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &AuthError{Message: msg}
	case http.StatusForbidden:
		return &ForbiddenError{Message: msg}
	default:
		return &ServerError{Status: resp.StatusCode, Message: msg}
	}
}

func addAuthHeader(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}

// requireToken fails protected calls locally when there is nothing to send.
func requireToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return &AuthError{Message: "login required"}
	}
	return nil
}
