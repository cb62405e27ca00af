//go:build cgo

package main

import (
	"math"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afetnet/pqcbridge"
	"github.com/afetnet/pqcbridge/internal/boundary"
)

// cString reads a NUL-terminated string without cgo.
func cString(p unsafe.Pointer) string {
	var b strings.Builder
	for i := 0; ; i++ {
		c := *(*byte)(unsafe.Add(p, i))
		if c == 0 {
			return b.String()
		}
		b.WriteByte(c)
	}
}

func requireBridge(t *testing.T) {
	t.Helper()
	require.NotNil(t, bridge, "bridge failed to load, status %d", initStatus)
}

// withoutBridge simulates a library whose configuration failed at load.
func withoutBridge(t *testing.T, st boundary.Status) {
	t.Helper()
	saved, savedStatus := bridge, initStatus
	bridge, initStatus = nil, st
	t.Cleanup(func() { bridge, initStatus = saved, savedStatus })
}

func TestReady(t *testing.T) {
	requireBridge(t)

	st, ok := ready(nil)
	assert.False(t, ok)
	assert.Equal(t, int(boundary.StatusNullArgument), int(st))

	out := versionText
	st, ok = ready(&out)
	assert.True(t, ok)
	assert.Equal(t, 0, int(st))
	assert.Nil(t, out)
}

func TestDeliver(t *testing.T) {
	out := versionText
	st := deliver(&out, nil, boundary.StatusInvalidSecretKey)
	assert.Equal(t, int(boundary.StatusInvalidSecretKey), int(st))
	assert.Nil(t, out)

	st = deliver(&out, unsafe.Pointer(unknownText), boundary.StatusOK)
	assert.Equal(t, 0, int(st))
	assert.Same(t, unknownText, out)
}

func TestExportsRejectNullOut(t *testing.T) {
	requireBridge(t)

	tests := []struct {
		name string
		call func() int
	}{
		{"sign_keypair", func() int { return int(pqc_sign_keypair(nil)) }},
		{"sign", func() int { return int(pqc_sign(nil, nil, nil)) }},
		{"sign_bytes", func() int { return int(pqc_sign_bytes(nil, nil, 0, nil)) }},
		{"kem_keypair", func() int { return int(pqc_kem_keypair(nil)) }},
		{"kem_encapsulate", func() int { return int(pqc_kem_encapsulate(nil, nil)) }},
		{"kem_decapsulate", func() int { return int(pqc_kem_decapsulate(nil, nil, nil)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, int(boundary.StatusNullArgument), tt.call())
		})
	}
	assert.Equal(t, 0, int(pqc_live_strings()))
}

func TestFailuresClearOut(t *testing.T) {
	requireBridge(t)

	out := versionText
	assert.Equal(t, int(boundary.StatusNullArgument), int(pqc_sign(nil, nil, &out)))
	assert.Nil(t, out)

	out = versionText
	assert.Equal(t, int(boundary.StatusNullArgument), int(pqc_kem_encapsulate(nil, &out)))
	assert.Nil(t, out)

	out = versionText
	assert.Equal(t, int(boundary.StatusNullArgument), int(pqc_kem_decapsulate(nil, nil, &out)))
	assert.Nil(t, out)

	assert.Equal(t, int(boundary.StatusNullArgument), int(pqc_verify(nil, nil, nil)))
}

func TestKeypairReleasedExactlyOnce(t *testing.T) {
	requireBridge(t)

	out := versionText
	require.Equal(t, 0, int(pqc_sign_keypair(&out)))
	require.NotNil(t, out)
	assert.Equal(t, 1, int(pqc_live_strings()))

	pub, sec, ok := strings.Cut(cString(unsafe.Pointer(out)), ":")
	require.True(t, ok)
	assert.Len(t, pub, 2*bridge.Signer().PublicKeySize())
	assert.Len(t, sec, 2*bridge.Signer().SecretKeySize())

	assert.Equal(t, 0, int(pqc_free_string(out)))
	assert.Equal(t, int(boundary.StatusUnknownHandle), int(pqc_free_string(out)))
	assert.Equal(t, 0, int(pqc_live_strings()))
}

func TestFreeNull(t *testing.T) {
	requireBridge(t)
	assert.Equal(t, 0, int(pqc_free_string(nil)))
}

func TestFreeStaticString(t *testing.T) {
	requireBridge(t)
	assert.Equal(t, int(boundary.StatusUnknownHandle), int(pqc_free_string(versionText)))
}

func TestMessageLen(t *testing.T) {
	tests := []struct {
		n       uint64
		want    int
		wantErr bool
	}{
		{0, 0, false},
		{5, 5, false},
		{math.MaxInt32, math.MaxInt32, false},
		{math.MaxInt32 + 1, 0, true},
		{1<<32 + 5, 0, true},
	}
	for _, tt := range tests {
		got, err := messageLen(tt.n)
		if tt.wantErr {
			assert.ErrorIs(t, err, boundary.ErrInputTooLarge, "n=%d", tt.n)
			continue
		}
		assert.NoError(t, err, "n=%d", tt.n)
		assert.Equal(t, tt.want, got, "n=%d", tt.n)
	}
}

func TestGoBytes(t *testing.T) {
	buf := []byte("abc")
	b, st := goBytes(unsafe.Pointer(&buf[0]), 3)
	require.Equal(t, boundary.StatusOK, st)
	require.NotNil(t, b)
	assert.Equal(t, []byte("abc"), *b)
	buf[0] = 'x'
	assert.Equal(t, []byte("abc"), *b, "result must be a copy")

	b, st = goBytes(nil, 0)
	assert.Equal(t, boundary.StatusOK, st)
	require.NotNil(t, b)
	assert.Empty(t, *b)

	b, st = goBytes(nil, 3)
	assert.Equal(t, boundary.StatusOK, st)
	assert.Nil(t, b)

	b, st = goBytes(unsafe.Pointer(&buf[0]), 1<<31)
	assert.Equal(t, boundary.StatusInputTooLarge, st)
	assert.Nil(t, b)
}

func TestBytesExportsRejectOversizedLength(t *testing.T) {
	requireBridge(t)
	buf := []byte{1}

	out := versionText
	st := pqc_sign_bytes(nil, unsafe.Pointer(&buf[0]), 1<<31, &out)
	assert.Equal(t, int(boundary.StatusInputTooLarge), int(st))
	assert.Nil(t, out)

	st = pqc_verify_bytes(nil, unsafe.Pointer(&buf[0]), 1<<31, nil)
	assert.Equal(t, int(boundary.StatusInputTooLarge), int(st))
	assert.Equal(t, 0, int(pqc_live_strings()))
}

func TestInitFailureReportedByEveryExport(t *testing.T) {
	withoutBridge(t, boundary.StatusUnsupportedAlgorithm)
	want := int(boundary.StatusUnsupportedAlgorithm)

	out := versionText
	assert.Equal(t, want, int(pqc_sign_keypair(&out)))
	assert.Nil(t, out)

	out = versionText
	assert.Equal(t, want, int(pqc_sign(nil, nil, &out)))
	assert.Nil(t, out)

	assert.Equal(t, want, int(pqc_sign_bytes(nil, nil, 0, &out)))
	assert.Equal(t, want, int(pqc_verify(nil, nil, nil)))
	assert.Equal(t, want, int(pqc_verify_bytes(nil, nil, 0, nil)))
	assert.Equal(t, want, int(pqc_kem_keypair(&out)))
	assert.Equal(t, want, int(pqc_kem_encapsulate(nil, &out)))
	assert.Equal(t, want, int(pqc_kem_decapsulate(nil, nil, &out)))
	assert.Nil(t, out)

	assert.Equal(t, int(boundary.StatusNullArgument), int(pqc_sign_keypair(nil)))
	assert.Equal(t, 0, int(pqc_free_string(nil)))
	assert.Equal(t, int(boundary.StatusUnknownHandle), int(pqc_free_string(versionText)))
	assert.Equal(t, 0, int(pqc_live_strings()))
}

func TestLoadBridgeRejectsUnknownScheme(t *testing.T) {
	b, st := loadBridge(func(key string) string {
		if key == boundary.EnvSignScheme {
			return "Falcon-1024"
		}
		return ""
	})
	assert.Nil(t, b)
	assert.Equal(t, boundary.StatusUnsupportedAlgorithm, st)

	b, st = loadBridge(func(string) string { return "" })
	assert.NotNil(t, b)
	assert.Equal(t, boundary.StatusOK, st)
}

func TestStaticStrings(t *testing.T) {
	text := pqc_status_text(-7)
	assert.Same(t, text, pqc_status_text(-7), "status text must be a stable static string")
	assert.Equal(t, boundary.StatusNullArgument.String(), cString(unsafe.Pointer(text)))

	for _, st := range boundary.Statuses() {
		assert.Equal(t, st.String(), cString(unsafe.Pointer(statusText(st))))
	}

	assert.Same(t, unknownText, pqc_status_text(-99))
	assert.Same(t, unknownText, statusText(boundary.Status(-99)))
	assert.Equal(t, "unknown status", cString(unsafe.Pointer(unknownText)))

	assert.Same(t, versionText, pqc_version())
	assert.Equal(t, pqcbridge.Version, cString(unsafe.Pointer(pqc_version())))
}
