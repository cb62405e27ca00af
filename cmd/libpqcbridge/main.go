// Command libpqcbridge is the C-compatible shared library. Build it with
//
//	go build -buildmode=c-shared -o libpqcbridge.so ./cmd/libpqcbridge
//
// Every string returned through an out parameter is owned by the library and
// must be passed to pqc_free_string exactly once. Strings returned directly
// (pqc_status_text, pqc_version) are static and must not be freed.
package main

/*
#include <stdlib.h>
#include <stddef.h>
*/
import "C"

import (
	"fmt"
	"math"
	"os"
	"unsafe"

	"github.com/afetnet/pqcbridge"
	"github.com/afetnet/pqcbridge/internal/boundary"
)

type cAllocator struct{}

func (cAllocator) Alloc(s string) unsafe.Pointer { return unsafe.Pointer(C.CString(s)) }
func (cAllocator) Free(p unsafe.Pointer)         { C.free(p) }

var (
	bridge     *boundary.Bridge
	initStatus = boundary.StatusOK

	// Static strings live for the life of the process.
	statusTexts = make(map[boundary.Status]*C.char)
	unknownText = C.CString("unknown status")
	versionText = C.CString(pqcbridge.Version)
)

// maxMessageLen is the largest binary message accepted through a size_t
// length.
const maxMessageLen = math.MaxInt32

func init() {
	for _, st := range boundary.Statuses() {
		statusTexts[st] = C.CString(st.String())
	}
	bridge, initStatus = loadBridge(os.Getenv)
}

// loadBridge builds the bridge from the environment. On failure every call
// reports the returned status instead of crashing the host.
func loadBridge(lookup func(string) string) (*boundary.Bridge, boundary.Status) {
	b, err := boundary.New(boundary.ConfigFromEnv(lookup), cAllocator{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "libpqcbridge: %v\n", err)
		return nil, boundary.StatusOf(err)
	}
	return b, boundary.StatusOK
}

func goString(p *C.char) *string {
	if p == nil {
		return nil
	}
	s := C.GoString(p)
	return &s
}

func messageLen(n uint64) (int, error) {
	if n > maxMessageLen {
		return 0, boundary.ErrInputTooLarge
	}
	return int(n), nil
}

// goBytes copies n bytes from p. A nil result means p is NULL with a
// non-zero length.
func goBytes(p unsafe.Pointer, n C.size_t) (*[]byte, boundary.Status) {
	length, err := messageLen(uint64(n))
	if err != nil {
		return nil, boundary.StatusOf(err)
	}
	if p == nil {
		if length != 0 {
			return nil, boundary.StatusOK
		}
		b := []byte{}
		return &b, boundary.StatusOK
	}
	b := make([]byte, length)
	copy(b, unsafe.Slice((*byte)(p), length))
	return &b, boundary.StatusOK
}

// deliver stores p in *out. out has already been checked for NULL.
func deliver(out **C.char, p unsafe.Pointer, st boundary.Status) C.int {
	*out = (*C.char)(p)
	return C.int(st)
}

func ready(out **C.char) (C.int, bool) {
	if out == nil {
		return C.int(boundary.StatusNullArgument), false
	}
	*out = nil
	if bridge == nil {
		return C.int(initStatus), false
	}
	return 0, true
}

//export pqc_sign_keypair
func pqc_sign_keypair(out **C.char) C.int {
	if st, ok := ready(out); !ok {
		return st
	}
	p, st := bridge.SignKeypair()
	return deliver(out, p, st)
}

//export pqc_sign
func pqc_sign(secretHex *C.char, message *C.char, out **C.char) C.int {
	if st, ok := ready(out); !ok {
		return st
	}
	p, st := bridge.Sign(goString(secretHex), goString(message))
	return deliver(out, p, st)
}

//export pqc_sign_bytes
func pqc_sign_bytes(secretHex *C.char, message unsafe.Pointer, length C.size_t, out **C.char) C.int {
	if st, ok := ready(out); !ok {
		return st
	}
	msg, st := goBytes(message, length)
	if st != boundary.StatusOK {
		return C.int(st)
	}
	p, st := bridge.SignBytes(goString(secretHex), msg)
	return deliver(out, p, st)
}

//export pqc_verify
func pqc_verify(publicHex *C.char, message *C.char, signatureHex *C.char) C.int {
	if bridge == nil {
		return C.int(initStatus)
	}
	return C.int(bridge.Verify(goString(publicHex), goString(message), goString(signatureHex)))
}

//export pqc_verify_bytes
func pqc_verify_bytes(publicHex *C.char, message unsafe.Pointer, length C.size_t, signatureHex *C.char) C.int {
	if bridge == nil {
		return C.int(initStatus)
	}
	msg, st := goBytes(message, length)
	if st != boundary.StatusOK {
		return C.int(st)
	}
	return C.int(bridge.VerifyBytes(goString(publicHex), msg, goString(signatureHex)))
}

//export pqc_kem_keypair
func pqc_kem_keypair(out **C.char) C.int {
	if st, ok := ready(out); !ok {
		return st
	}
	p, st := bridge.KEMKeypair()
	return deliver(out, p, st)
}

//export pqc_kem_encapsulate
func pqc_kem_encapsulate(publicHex *C.char, out **C.char) C.int {
	if st, ok := ready(out); !ok {
		return st
	}
	p, st := bridge.Encapsulate(goString(publicHex))
	return deliver(out, p, st)
}

//export pqc_kem_decapsulate
func pqc_kem_decapsulate(secretHex *C.char, ciphertextHex *C.char, out **C.char) C.int {
	if st, ok := ready(out); !ok {
		return st
	}
	p, st := bridge.Decapsulate(goString(secretHex), goString(ciphertextHex))
	return deliver(out, p, st)
}

//export pqc_free_string
func pqc_free_string(s *C.char) C.int {
	if bridge == nil {
		// Nothing was ever issued.
		if s == nil {
			return C.int(boundary.StatusOK)
		}
		return C.int(boundary.StatusUnknownHandle)
	}
	return C.int(bridge.Free(unsafe.Pointer(s)))
}

//export pqc_status_text
func pqc_status_text(status C.int) *C.char {
	return statusText(boundary.Status(status))
}

func statusText(st boundary.Status) *C.char {
	if text, ok := statusTexts[st]; ok {
		return text
	}
	return unknownText
}

//export pqc_version
func pqc_version() *C.char {
	return versionText
}

//export pqc_live_strings
func pqc_live_strings() C.int {
	if bridge == nil {
		return 0
	}
	return C.int(bridge.LiveStrings())
}

func main() {}
