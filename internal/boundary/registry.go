package boundary

import (
	"errors"
	"sync"
	"unsafe"
)

var (
	// ErrNullArgument is returned when a required pointer argument is NULL.
	ErrNullArgument = errors.New("null argument")

	// ErrInputTooLarge is returned when a buffer length does not fit a Go
	// slice on the C side.
	ErrInputTooLarge = errors.New("input too large")

	// ErrUnknownHandle is returned when a pointer was not issued by the
	// registry or has already been released through it.
	ErrUnknownHandle = errors.New("unknown string handle")

	// ErrAlreadyReleased is returned by Handle.Release after the first call.
	ErrAlreadyReleased = errors.New("string already released")
)

// Allocator places strings in memory owned by the foreign caller. The cgo
// implementation uses C.CString and C.free.
type Allocator interface {
	Alloc(s string) unsafe.Pointer
	Free(p unsafe.Pointer)
}

// Registry tracks every string handed across the boundary so that each one
// is freed exactly once. It is safe for concurrent use.
//
// Raw pointers carry no generation. Once the allocator hands a freed address
// out again, a stale Release of the old string is indistinguishable from a
// release of the new one and frees it. Double and foreign releases are only
// detected while the address is not live. Go callers should hold a Handle,
// which remembers its own release.
type Registry struct {
	alloc Allocator

	mu       sync.Mutex
	live     map[unsafe.Pointer]int
	issued   uint64
	released uint64
}

// NewRegistry creates a registry backed by alloc.
func NewRegistry(alloc Allocator) *Registry {
	return &Registry{
		alloc: alloc,
		live:  make(map[unsafe.Pointer]int),
	}
}

// Export copies s into foreign memory and records the allocation.
func (r *Registry) Export(s string) *Handle {
	p := r.alloc.Alloc(s)

	r.mu.Lock()
	r.live[p] = len(s)
	r.issued++
	r.mu.Unlock()

	return &Handle{ptr: p, reg: r}
}

// Release frees p if it is a live allocation. Pointers that were never
// issued, or were released and not reissued since, return ErrUnknownHandle
// and are not touched.
func (r *Registry) Release(p unsafe.Pointer) error {
	if p == nil {
		return ErrNullArgument
	}

	r.mu.Lock()
	if _, ok := r.live[p]; !ok {
		r.mu.Unlock()
		return ErrUnknownHandle
	}
	delete(r.live, p)
	r.released++
	r.mu.Unlock()

	r.alloc.Free(p)
	return nil
}

// Live returns the number of strings issued but not yet released.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// Stats returns the lifetime issued and released counts.
func (r *Registry) Stats() (issued, released uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.issued, r.released
}

// Handle owns one exported string. Unlike a raw pointer it stays released
// when the allocator reuses its address.
type Handle struct {
	ptr  unsafe.Pointer
	reg  *Registry
	once sync.Once
}

// Ptr returns the foreign pointer, for handing to the caller.
func (h *Handle) Ptr() unsafe.Pointer {
	return h.ptr
}

// Release frees the string. Only the first call has an effect; later calls
// return ErrAlreadyReleased.
func (h *Handle) Release() error {
	err := ErrAlreadyReleased
	h.once.Do(func() {
		err = h.reg.Release(h.ptr)
	})
	return err
}
