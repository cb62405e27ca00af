package pqcbridge

import (
	"bytes"
	"errors"
	"testing"
)

func TestJoinPair(t *testing.T) {
	if got := JoinPair([]byte{0x01, 0xab}, []byte{0xff}); got != "01ab:ff" {
		t.Errorf("JoinPair() = %q, want %q", got, "01ab:ff")
	}
}

func TestSplitPair(t *testing.T) {
	a, b, err := SplitPair("01AB:ff")
	if err != nil {
		t.Fatalf("SplitPair() error = %v", err)
	}
	if !bytes.Equal(a, []byte{0x01, 0xab}) || !bytes.Equal(b, []byte{0xff}) {
		t.Errorf("SplitPair() = %x, %x", a, b)
	}
}

func TestSplitPair_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "", ErrMalformedPair},
		{"no separator", "0011", ErrMalformedPair},
		{"two separators", "00:11:22", ErrMalformedPair},
		{"empty first", ":11", ErrMalformedPair},
		{"empty second", "00:", ErrMalformedPair},
		{"bad hex first", "0g:11", ErrMalformedHex},
		{"odd hex second", "00:1", ErrMalformedHex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := SplitPair(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("SplitPair(%q) error = %v, want %v", tt.in, err, tt.want)
			}
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("SplitPair(%q) error does not match ErrMalformedInput", tt.in)
			}
		})
	}
}

func TestKeypairString(t *testing.T) {
	kp := &Keypair{PublicKey: []byte{0xaa}, SecretKey: []byte{0xbb, 0xcc}}
	if kp.String() != "aa:bbcc" {
		t.Errorf("String() = %q", kp.String())
	}

	parsed, err := ParseKeypair(kp.String())
	if err != nil {
		t.Fatalf("ParseKeypair() error = %v", err)
	}
	if !bytes.Equal(parsed.PublicKey, kp.PublicKey) || !bytes.Equal(parsed.SecretKey, kp.SecretKey) {
		t.Errorf("ParseKeypair() = %+v", parsed)
	}

	kp.Wipe()
	if !bytes.Equal(kp.SecretKey, []byte{0, 0}) {
		t.Errorf("Wipe() left %x", kp.SecretKey)
	}
	var nilKP *Keypair
	nilKP.Wipe()
}

func TestEncapsulationString(t *testing.T) {
	enc := &Encapsulation{SharedSecret: []byte{0x01}, Ciphertext: []byte{0x02, 0x03}}
	if enc.String() != "01:0203" {
		t.Errorf("String() = %q", enc.String())
	}
	if enc.SharedSecretHex() != "01" || enc.CiphertextHex() != "0203" {
		t.Errorf("hex accessors = %q, %q", enc.SharedSecretHex(), enc.CiphertextHex())
	}

	parsed, err := ParseEncapsulation("01:0203")
	if err != nil {
		t.Fatalf("ParseEncapsulation() error = %v", err)
	}
	if !bytes.Equal(parsed.Ciphertext, enc.Ciphertext) {
		t.Errorf("Ciphertext = %x", parsed.Ciphertext)
	}

	if _, err := ParseEncapsulation("0102"); !errors.Is(err, ErrMalformedPair) {
		t.Errorf("ParseEncapsulation(no sep) error = %v", err)
	}
}
