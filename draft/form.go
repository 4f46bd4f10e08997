package draft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"sync"
	"time"

	"github.com/eringen/tolet/api"
	"github.com/eringen/tolet/photoset"
	"github.com/eringen/tolet/staging"
)

// State is a form's lifecycle position.
type State int

const (
	Loading State = iota
	Ready
	Submitting
	Success
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrNotReady is returned for mutations while loading or submitting.
	ErrNotReady = errors.New("draft: form is not ready")
	// ErrClosed is returned once a form has been discarded or submitted.
	ErrClosed = errors.New("draft: form is closed")
)

// SubmitFunc sends an encoded draft and returns the record id to show next.
type SubmitFunc func(ctx context.Context, p *api.Payload) (string, error)

// Form guards one Draft. Every method is safe for concurrent use; mutations
// are serialized in arrival order.
type Form struct {
	ID       string
	Owner    string
	RecordID string

	mu       sync.Mutex
	state    State
	loaded   bool
	lastErr  error
	draft    *Draft
	touched  time.Time
	ctx      context.Context
	cancel   context.CancelFunc
	store    staging.Store
	onClose  func(*Form)
	closed   bool
	resultID string
}

func newForm(id, owner, recordID string, store staging.Store) *Form {
	ctx, cancel := context.WithCancel(context.Background())
	return &Form{
		ID:       id,
		Owner:    owner,
		RecordID: recordID,
		state:    Loading,
		touched:  time.Now(),
		ctx:      ctx,
		cancel:   cancel,
		store:    store,
	}
}

// Context is cancelled when the form is discarded or completes.
func (f *Form) Context() context.Context { return f.ctx }

// State returns the current state and the error of the last failed step.
func (f *Form) State() (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.lastErr
}

// Kind is the record type, valid once loaded.
func (f *Form) Kind() Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft == nil {
		return KindProperty
	}
	return f.draft.Kind
}

// ResultID is the record id after a successful submit.
func (f *Form) ResultID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resultID
}

// Read calls fn with the draft for rendering. fn must not keep references.
func (f *Form) Read(fn func(d *Draft, st State)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft == nil {
		return ErrNotReady
	}
	fn(f.draft, f.state)
	return nil
}

// Mutate applies fn to the draft. It is rejected unless the form is
// interactive. A Failed form that loaded returns to Ready here.
func (f *Form) Mutate(fn func(d *Draft) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.beginMutation(); err != nil {
		return err
	}
	return fn(f.draft)
}

func (f *Form) beginMutation() error {
	if f.closed {
		return ErrClosed
	}
	switch f.state {
	case Ready:
	case Failed:
		if !f.loaded {
			return ErrNotReady
		}
		f.state = Ready
		f.lastErr = nil
	default:
		return ErrNotReady
	}
	f.touched = time.Now()
	return nil
}

// AddPhotos stages uploads and adds them to the photo set. Files that fail
// staging are reported in rejected and skipped. Files the set drops are
// removed from staging again.
func (f *Form) AddPhotos(ctx context.Context, files []*multipart.FileHeader) (res photoset.AddResult, rejected []error, err error) {
	staged, rejected := f.stage(ctx, files)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.beginMutation(); err != nil {
		f.discardBlobs(staged)
		return photoset.AddResult{}, rejected, err
	}
	res = f.draft.Photos.Add(staged)
	f.discardBlobs(res.Dropped)
	return res, rejected, nil
}

// SetCover replaces the blog cover with one upload. The old staged cover is
// deleted and an existing cover is marked for replacement.
func (f *Form) SetCover(ctx context.Context, file *multipart.FileHeader) error {
	staged, rejected := f.stage(ctx, []*multipart.FileHeader{file})
	if len(rejected) > 0 {
		return rejected[0]
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.beginMutation(); err != nil {
		f.discardBlobs(staged)
		return err
	}
	f.discardBlobs(f.draft.Photos.ClearStaged())
	f.draft.Photos.MarkExisting()
	res := f.draft.Photos.Add(staged)
	f.discardBlobs(res.Dropped)
	return nil
}

// RemoveCover drops both the staged and the existing cover.
func (f *Form) RemoveCover() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.beginMutation(); err != nil {
		return err
	}
	f.discardBlobs(f.draft.Photos.ClearStaged())
	f.draft.Photos.MarkExisting()
	return nil
}

// RemoveStaged drops the staged photo at index and deletes its bytes.
func (f *Form) RemoveStaged(index int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.beginMutation(); err != nil {
		return false, err
	}
	sf, ok := f.draft.Photos.RemoveStaged(index)
	if ok {
		f.discardBlobs([]staging.File{sf})
	}
	return ok, nil
}

// OwnsStaged reports whether key is one of this form's staged files.
func (f *Form) OwnsStaged(key string) (staging.File, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft == nil || f.closed {
		return staging.File{}, false
	}
	for _, sf := range f.draft.Photos.Staged() {
		if sf.Key == key {
			return sf, true
		}
	}
	return staging.File{}, false
}

// Submit validates, encodes and sends the draft. A validation failure stays
// in Ready and never reaches send. Any other failure moves to Failed with
// the error kept for display; the next mutation or submit returns to Ready.
// On success the form closes itself.
func (f *Form) Submit(send SubmitFunc) (string, error) {
	f.mu.Lock()
	if err := f.beginMutation(); err != nil {
		f.mu.Unlock()
		return "", err
	}
	if err := f.draft.Validate(); err != nil {
		f.mu.Unlock()
		return "", err
	}
	payload, err := Encode(f.ctx, f.store, f.draft)
	if err != nil {
		f.state = Failed
		f.lastErr = err
		f.mu.Unlock()
		return "", fmt.Errorf("encode %s: %w", f.draft.Kind, err)
	}
	f.state = Submitting
	ctx := f.ctx
	f.mu.Unlock()

	id, err := send(ctx, payload)

	f.mu.Lock()
	if err != nil {
		if !f.closed {
			f.state = Failed
			f.lastErr = err
		}
		f.mu.Unlock()
		return "", err
	}
	if id == "" {
		id = f.RecordID
	}
	f.state = Success
	f.resultID = id
	f.mu.Unlock()
	f.Close()
	return id, nil
}

// Close cancels in-flight work, deletes staged bytes and detaches the form
// from its registry. Closing twice is a no-op.
func (f *Form) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.cancel()
	var staged []staging.File
	if f.draft != nil {
		staged = f.draft.Photos.ClearStaged()
	}
	onClose := f.onClose
	f.mu.Unlock()

	f.discardBlobs(staged)
	if onClose != nil {
		onClose(f)
	}
}

func (f *Form) idleSince(now time.Time) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Submitting {
		return 0
	}
	return now.Sub(f.touched)
}

func (f *Form) touch() {
	f.mu.Lock()
	f.touched = time.Now()
	f.mu.Unlock()
}

// load runs fetch while the form is Loading. reqCtx also aborts it, so a
// browser that gives up on the page does not leave the fetch running.
func (f *Form) load(reqCtx context.Context, fetch func(ctx context.Context) (*Draft, error)) error {
	stop := context.AfterFunc(reqCtx, f.cancel)
	defer stop()

	d, err := fetch(f.ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = Failed
		f.lastErr = err
		return err
	}
	if f.ctx.Err() != nil {
		f.state = Failed
		f.lastErr = f.ctx.Err()
		return f.ctx.Err()
	}
	f.draft = d
	f.loaded = true
	f.state = Ready
	return nil
}

func (f *Form) stage(ctx context.Context, files []*multipart.FileHeader) ([]staging.File, []error) {
	var staged []staging.File
	var rejected []error
	for _, fh := range files {
		if fh == nil {
			continue
		}
		sf, err := staging.Stage(ctx, f.store, f.ID, fh)
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		staged = append(staged, sf)
	}
	return staged, rejected
}

func (f *Form) discardBlobs(files []staging.File) {
	if len(files) == 0 {
		return
	}
	// The form context may already be cancelled; deletion must still run.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := staging.Discard(ctx, f.store, files); err != nil {
		slog.Warn("discard staged files", "form", f.ID, "error", err)
	}
}
