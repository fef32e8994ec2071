package utils

import (
	"errors"
	"testing"
	"time"
)

const key32 = "0123456789abcdef0123456789abcdef"

func TestEncryptDecrypt(t *testing.T) {
	ct, err := Encrypt(key32, []byte("JBSWY3DPEHPK3PXP"))
	if err != nil {
		t.Fatal(err)
	}
	if ct == "JBSWY3DPEHPK3PXP" {
		t.Fatal("ciphertext equals plaintext")
	}

	pt, err := Decrypt(key32, ct)
	if err != nil {
		t.Fatal(err)
	}
	if string(pt) != "JBSWY3DPEHPK3PXP" {
		t.Errorf("round trip = %q", pt)
	}

	if _, err := Decrypt("ffffffffffffffffffffffffffffffff", ct); err == nil {
		t.Error("decrypt with another key should fail")
	}
	if _, err := Decrypt(key32, "AAAA"); err == nil {
		t.Error("short ciphertext should fail")
	}
}

func TestEncryptRejectsBadKey(t *testing.T) {
	if _, err := Encrypt("short", []byte("x")); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("err = %v, want ErrInvalidKey", err)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword("hunter22", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("hunter23", hash) {
		t.Error("wrong password accepted")
	}
}

func TestSessionToken(t *testing.T) {
	tok, err := GenerateSessionToken("s3cret", "user-1", true, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ParseSessionToken("s3cret", tok)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "user-1" || !claims.IsAdmin {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := ParseSessionToken("other", tok); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("wrong secret err = %v", err)
	}

	expired, _ := GenerateSessionToken("s3cret", "user-1", false, -time.Minute)
	if _, err := ParseSessionToken("s3cret", expired); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expired token err = %v", err)
	}

	if _, err := ParseSessionToken("s3cret", "not.a.jwt"); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("garbage token err = %v", err)
	}
}
