package auth

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

func testCodec() *CookieCodec {
	return NewCookieCodec("test-secret", false, 720*time.Hour)
}

func TestCookieRoundTrip(t *testing.T) {
	codec := testCodec()
	value := codec.Encode("session-abc123")

	got, err := codec.Decode(value)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "session-abc123" {
		t.Errorf("decoded %q, want session-abc123", got)
	}
}

func TestCookieTamperRejected(t *testing.T) {
	codec := testCodec()
	value := codec.Encode("session-abc123")

	tampered := strings.Replace(value, "session-abc123", "session-evil99", 1)
	if _, err := codec.Decode(tampered); err == nil {
		t.Error("tampered session ID should be rejected")
	}
}

func TestCookieWrongSecretRejected(t *testing.T) {
	value := testCodec().Encode("session-abc123")
	other := NewCookieCodec("different-secret", false, time.Hour)
	if _, err := other.Decode(value); err != nil {
		return
	}
	t.Error("cookie signed with another secret should be rejected")
}

func TestCookieGarbageRejected(t *testing.T) {
	codec := testCodec()
	for _, v := range []string{"", "nodot", ".", "a.!!!not-base64!!!"} {
		if _, err := codec.Decode(v); err == nil {
			t.Errorf("Decode(%q) should fail", v)
		}
	}
}

func TestNewCookieHeader(t *testing.T) {
	codec := NewCookieCodec("test-secret", true, time.Hour)
	header := codec.NewCookieHeader("session-abc123")

	for _, want := range []string{"sid=", "HttpOnly", "Secure", "Path=/", "SameSite=Lax"} {
		if !strings.Contains(header, want) {
			t.Errorf("header missing %q: %s", want, header)
		}
	}
}

func TestClearCookieHeader(t *testing.T) {
	header := testCodec().ClearCookieHeader()
	if !strings.Contains(header, "Max-Age=0") {
		t.Errorf("clear header should expire the cookie: %s", header)
	}
}

func TestSessionCookieSameSite(t *testing.T) {
	// The cookie must survive http.Cookie serialization rules.
	codec := testCodec()
	cookie := &http.Cookie{Name: SessionCookieName, Value: codec.Encode("s-1")}
	if err := cookie.Valid(); err != nil {
		t.Errorf("cookie value not serializable: %v", err)
	}
}

func TestCSRFTokenVerify(t *testing.T) {
	c := NewCSRF("csrf-secret")

	token := c.Token("session-1")
	if !c.Verify("session-1", token) {
		t.Error("token should verify for its own session")
	}
	if c.Verify("session-2", token) {
		t.Error("token should not verify for another session")
	}
	if c.Verify("session-1", "bogus") {
		t.Error("bogus token should not verify")
	}
	if c.Verify("", "") {
		t.Error("empty inputs should not verify")
	}
}

func TestCSRFTokenStable(t *testing.T) {
	c := NewCSRF("csrf-secret")
	if c.Token("session-1") != c.Token("session-1") {
		t.Error("token should be deterministic per session")
	}
	if c.Token("session-1") == c.Token("session-2") {
		t.Error("tokens for different sessions should differ")
	}
}
