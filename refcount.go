package dxup

import "sync/atomic"

// refcount is the two-counter intrusive reference count every pipeline
// resource (texture, buffer, surface, shader, vertex declaration) embeds.
// The public counter is driven by the application via AddRef/Release; the
// private counter is driven by the device runtime itself whenever it
// binds the resource into the pipeline mirror. destroy fires only when
// both reach zero, so the device can drop a binding (Reset, a new
// SetTexture) without the resource vanishing out from under an
// application that still holds a public reference, and the application
// can Release its last public reference without severing a binding the
// device still uses.
type refcount struct {
	public  atomic.Int32
	private atomic.Int32
	onZero  func()
	dead    atomic.Bool
}

func newRefcount(onZero func()) *refcount {
	r := &refcount{onZero: onZero}
	r.public.Store(1)
	return r
}

// AddRef increments the public counter, mirroring the legacy COM
// contract: callers that keep a pointer around must add their own
// reference.
func (r *refcount) AddRef() int32 {
	return r.public.Add(1)
}

// Release decrements the public counter and destroys the resource once
// both counters are zero.
func (r *refcount) Release() int32 {
	n := r.public.Add(-1)
	r.maybeDestroy()
	return n
}

// addRefPrivate is called by the device runtime whenever it binds the
// resource into the pipeline mirror (SetTexture, SetRenderTarget, ...).
func (r *refcount) addRefPrivate() {
	r.private.Add(1)
}

// releasePrivate is called when the device runtime unbinds the resource.
func (r *refcount) releasePrivate() {
	r.private.Add(-1)
	r.maybeDestroy()
}

func (r *refcount) maybeDestroy() {
	if r.public.Load() > 0 || r.private.Load() > 0 {
		return
	}
	if !r.dead.CompareAndSwap(false, true) {
		return
	}
	if r.onZero != nil {
		r.onZero()
	}
}
