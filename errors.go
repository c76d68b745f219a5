package dxup

import "fmt"

// Result is the legacy HRESULT-style status code every device runtime
// method returns. A nil error from an internal helper maps to OK; every
// other returned error is one of the named Result values below or wraps
// one, never a bare error from a collaborator package.
type Result int

const (
	// OK indicates success.
	OK Result = iota
	// InvalidCall indicates a precondition violation: a nil required
	// out-pointer, an out-of-range index, or an invalid enum value. No
	// state is mutated and out-pointers are zeroed.
	InvalidCall
	// NotFound indicates a GetXxx query against state that is currently
	// unbound (e.g. GetDepthStencilSurface with no depth-stencil set).
	NotFound
	// DeviceLost indicates the underlying ModernGfx device failed to
	// create or was lost; only Reset can recover from it.
	DeviceLost
	// EPointer indicates a required out-pointer was nil.
	EPointer
	// ENoInterface is QueryInterface's result for an unrecognised
	// interface ID, and also for recognised ones (see QueryInterface).
	ENoInterface
)

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case InvalidCall:
		return "INVALIDCALL"
	case NotFound:
		return "NOTFOUND"
	case DeviceLost:
		return "DEVICE_LOST"
	case EPointer:
		return "E_POINTER"
	case ENoInterface:
		return "E_NOINTERFACE"
	default:
		return "UNKNOWN"
	}
}

// Error implements the error interface so Result can be returned directly
// wherever Go idiom expects an error, while callers that want the legacy
// status code can type-assert or compare with errors.Is against the
// package-level sentinels below.
func (r Result) Error() string { return r.String() }

// Sentinel errors, one per Result, so callers can use errors.Is without
// reaching for the Result type directly.
var (
	ErrInvalidCall  error = InvalidCall
	ErrNotFound     error = NotFound
	ErrDeviceLost   error = DeviceLost
	ErrEPointer     error = EPointer
	ErrENoInterface error = ENoInterface
)

// wrapped gives an internal error a Result classification while preserving
// the original error for logging via %w.
type wrapped struct {
	result Result
	cause  error
}

func (w *wrapped) Error() string { return fmt.Sprintf("%s: %v", w.result, w.cause) }
func (w *wrapped) Unwrap() error { return w.cause }
func (w *wrapped) Is(target error) bool {
	r, ok := target.(Result)
	return ok && r == w.result
}

func wrapResult(result Result, cause error) error {
	if cause == nil {
		return result
	}
	return &wrapped{result: result, cause: cause}
}
