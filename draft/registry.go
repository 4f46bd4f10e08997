package draft

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eringen/tolet/api"
	"github.com/eringen/tolet/photoset"
	"github.com/eringen/tolet/staging"
)

// DefaultIdleTTL is how long an untouched form survives.
const DefaultIdleTTL = 2 * time.Hour

type formKey struct {
	owner string
	id    string
}

// Registry holds open forms keyed by (owner session, form id). A form is
// only reachable by the session that opened it.
type Registry struct {
	mu    sync.Mutex
	forms map[formKey]*Form
	store staging.Store
	ttl   time.Duration
	now   func() time.Time
}

// NewRegistry stores staged files in store and drops forms idle for ttl.
func NewRegistry(store staging.Store, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Registry{
		forms: make(map[formKey]*Form),
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Store is the staging store shared by every form.
func (r *Registry) Store() staging.Store { return r.store }

// CreateProperty opens an empty listing form.
func (r *Registry) CreateProperty(owner string) *Form {
	f := r.newForm(owner, "")
	f.draft = newPropertyDraft(photoset.Create, NewPropertyDraft(), nil)
	r.expose(f)
	return f
}

// CreateBlog opens an empty post form.
func (r *Registry) CreateBlog(owner string) *Form {
	f := r.newForm(owner, "")
	f.draft = newBlogDraft(photoset.Create, &BlogDraft{}, "")
	r.expose(f)
	return f
}

// EditProperty loads listing id and opens a form seeded from it. The form
// is registered only once the fetch succeeds.
func (r *Registry) EditProperty(ctx context.Context, owner, id string, fetch func(ctx context.Context) (api.Property, error)) (*Form, error) {
	f := r.newForm(owner, id)
	err := f.load(ctx, func(ctx context.Context) (*Draft, error) {
		p, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return newPropertyDraft(photoset.Edit, PropertyDraftFrom(p), p.Photos), nil
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	r.expose(f)
	return f, nil
}

// EditBlog loads post id and opens a form seeded from it.
func (r *Registry) EditBlog(ctx context.Context, owner, id string, fetch func(ctx context.Context) (api.Blog, error)) (*Form, error) {
	f := r.newForm(owner, id)
	err := f.load(ctx, func(ctx context.Context) (*Draft, error) {
		b, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return newBlogDraft(photoset.Edit, BlogDraftFrom(b), b.CoverImage), nil
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	r.expose(f)
	return f, nil
}

func (r *Registry) newForm(owner, recordID string) *Form {
	f := newForm(uuid.NewString(), owner, recordID, r.store)
	f.onClose = r.remove
	return f
}

func (r *Registry) expose(f *Form) {
	f.mu.Lock()
	if f.draft != nil && f.state == Loading {
		f.state = Ready
		f.loaded = true
	}
	f.mu.Unlock()

	r.mu.Lock()
	r.forms[formKey{owner: f.Owner, id: f.ID}] = f
	r.mu.Unlock()
}

func (r *Registry) remove(f *Form) {
	r.mu.Lock()
	k := formKey{owner: f.Owner, id: f.ID}
	if r.forms[k] == f {
		delete(r.forms, k)
	}
	r.mu.Unlock()
}

// Get returns owner's form id and refreshes its idle timer.
func (r *Registry) Get(owner, id string) (*Form, bool) {
	r.mu.Lock()
	f, ok := r.forms[formKey{owner: owner, id: id}]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	f.touch()
	return f, true
}

// Discard closes owner's form id.
func (r *Registry) Discard(owner, id string) bool {
	f, ok := r.Get(owner, id)
	if !ok {
		return false
	}
	f.Close()
	return true
}

// DiscardOwner closes every form owned by a session, used on logout.
func (r *Registry) DiscardOwner(owner string) int {
	r.mu.Lock()
	var victims []*Form
	for k, f := range r.forms {
		if k.owner == owner {
			victims = append(victims, f)
		}
	}
	r.mu.Unlock()
	for _, f := range victims {
		f.Close()
	}
	return len(victims)
}

// Len is the number of open forms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

// Sweep closes forms idle longer than the TTL and reports how many.
func (r *Registry) Sweep() int {
	now := r.now()
	r.mu.Lock()
	var victims []*Form
	for _, f := range r.forms {
		if f.idleSince(now) > r.ttl {
			victims = append(victims, f)
		}
	}
	r.mu.Unlock()
	for _, f := range victims {
		f.Close()
	}
	return len(victims)
}

// StartSweeper sweeps every interval until the returned stop is called.
func (r *Registry) StartSweeper(interval time.Duration) func() {
	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := r.Sweep(); n > 0 {
					slog.Debug("swept idle forms", "count", n)
				}
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// Close discards every open form.
func (r *Registry) Close() {
	r.mu.Lock()
	victims := make([]*Form, 0, len(r.forms))
	for _, f := range r.forms {
		victims = append(victims, f)
	}
	r.mu.Unlock()
	for _, f := range victims {
		f.Close()
	}
}
