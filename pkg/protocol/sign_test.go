package protocol

import "testing"

func TestSignVerify(t *testing.T) {
	key, err := DeriveKey("s3cret")
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("key length = %d", len(key))
	}

	again, _ := DeriveKey("s3cret")
	if string(again) != string(key) {
		t.Error("DeriveKey should be deterministic")
	}

	body := []byte(`{"jsonrpc":"2.0","method":"invoke"}`)
	sig := Sign(key, body)
	if !Verify(key, body, sig) {
		t.Error("signature should verify")
	}
	if Verify(key, append(body, ' '), sig) {
		t.Error("tampered body should not verify")
	}
	other, _ := DeriveKey("other")
	if Verify(other, body, sig) {
		t.Error("wrong key should not verify")
	}
	if Verify(key, body, "zz") {
		t.Error("non-hex signature should not verify")
	}
}

func TestDeriveKeyEmpty(t *testing.T) {
	if _, err := DeriveKey(""); err == nil {
		t.Error("expected error for empty secret")
	}
}
