package registry

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vbonduro/retrocam/internal/domain"
)

// Registry is the authoritative mapping of photo id to record. Every
// mutation runs to completion under one mutex, so the develop timer and
// caption write-backs never interleave with user edits mid-record.
//
// Update silently no-ops on an absent id. That single rule is what drops
// stale async results after a delete; there is no other cancellation.
type Registry struct {
	mu       sync.Mutex
	photos   map[string]*domain.Photo
	order    []string
	stackSeq int64
}

func New() *Registry {
	return &Registry{photos: make(map[string]*domain.Photo)}
}

// Create inserts a new developing photo with a fresh id and the next stack
// order, and returns a copy of the record. Position starts at the zero
// value, meaning the rendering layer picks the default slot.
func (r *Registry) Create(storageKey, mimeType, caption, capturedAt string, rotation float64) domain.Photo {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stackSeq++
	p := &domain.Photo{
		ID:         uuid.NewString(),
		StorageKey: storageKey,
		MimeType:   mimeType,
		Caption:    caption,
		CapturedAt: capturedAt,
		Developing: true,
		Rotation:   rotation,
		StackOrder: r.stackSeq,
	}
	r.photos[p.ID] = p
	r.order = append(r.order, p.ID)
	return *p
}

// Update applies mutate to the record with this id and reports whether the
// record existed. An absent id is a silent no-op, never an error.
func (r *Registry) Update(id string, mutate func(*domain.Photo)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.photos[id]
	if !ok {
		return false
	}
	mutate(p)
	return true
}

// Get returns a copy of the record with this id.
func (r *Registry) Get(id string) (domain.Photo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.photos[id]
	if !ok {
		return domain.Photo{}, false
	}
	return *p, true
}

// Delete removes the record and returns a copy of it for blob cleanup.
// Subsequent Updates for the id become no-ops.
func (r *Registry) Delete(id string) (domain.Photo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.photos[id]
	if !ok {
		return domain.Photo{}, false
	}
	delete(r.photos, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return *p, true
}

// List returns copies of all records in insertion order. Stacking is
// controlled by StackOrder, not list position.
func (r *Registry) List() []domain.Photo {
	r.mu.Lock()
	defer r.mu.Unlock()

	photos := make([]domain.Photo, 0, len(r.order))
	for _, id := range r.order {
		photos = append(photos, *r.photos[id])
	}
	return photos
}

// BringToFront assigns the next stack order to the photo and returns it.
// The counter is process-wide and strictly increasing; values are never
// reused, so "highest wins" is stable across creates and drags.
func (r *Registry) BringToFront(id string) (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.photos[id]
	if !ok {
		return 0, false
	}
	r.stackSeq++
	p.StackOrder = r.stackSeq
	return r.stackSeq, true
}
