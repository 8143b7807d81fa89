package common

import (
	"errors"
	"testing"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte("secret-password")
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestMakeRandHexString(t *testing.T) {
	a, err := MakeRandHexString(16)
	if err != nil {
		t.Fatal(err)
	}
	b, err := MakeRandHexString(16)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 32 || len(b) != 32 {
		t.Fatalf("want 32 hex chars, got %d and %d", len(a), len(b))
	}
	if a == b {
		t.Fatalf("two random strings are equal: %s", a)
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	all := []error{ErrInvalidToken, ErrTokenExpired}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Fatalf("%v must not match %v", a, b)
			}
		}
	}
}
