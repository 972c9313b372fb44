package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	kv := sanitizeKVs([]interface{}{
		"access_token", "abc",
		"username", "ana@example.com",
		"course_id", "c-1",
		"header", "Bearer abc.def.ghi",
	})
	if len(kv) != 8 {
		t.Fatalf("unexpected length: %d", len(kv))
	}
	if kv[1] != redacted {
		t.Fatalf("access_token not redacted: %v", kv[1])
	}
	if kv[3] != redacted {
		t.Fatalf("username not redacted: %v", kv[3])
	}
	if kv[5] != "c-1" {
		t.Fatalf("course_id should pass through, got %v", kv[5])
	}
	if kv[7] != redacted {
		t.Fatalf("bearer header not redacted: %v", kv[7])
	}
}

func TestSanitizeKVsHashesUserIDs(t *testing.T) {
	kv := sanitizeKVs([]interface{}{"user_id", "0b6f6c9e-2f55-4a4e-9d55-4a8c1d2f9a01"})
	got, _ := kv[1].(string)
	if !strings.HasPrefix(got, "hash:") || len(got) != len("hash:")+12 {
		t.Fatalf("unexpected hashed value: %q", got)
	}
}

func TestSanitizeKVsKeepsDanglingKey(t *testing.T) {
	kv := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	if len(kv) != 3 || kv[2] != "dangling" {
		t.Fatalf("unexpected output: %#v", kv)
	}
}

func TestLooksLikeJWT(t *testing.T) {
	if !looksLikeJWT("eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NSJ9.sig") {
		t.Fatalf("expected jwt detection")
	}
	if looksLikeJWT("not.a.jwt") {
		t.Fatalf("short segments should not count as jwt")
	}
}
