package form

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

func init() { Configure(strings.Repeat("k", 32)) }

func TestTokenRoundTrip(t *testing.T) {
	tok, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if !VerifyToken(tok) {
		t.Fatalf("fresh token rejected")
	}
}

func TestTokenTampered(t *testing.T) {
	tok, _ := GenerateToken()
	bad := []byte(tok)
	if bad[len(bad)-1] == 'A' {
		bad[len(bad)-1] = 'B'
	} else {
		bad[len(bad)-1] = 'A'
	}
	if VerifyToken(string(bad)) {
		t.Fatalf("tampered token accepted")
	}
	if VerifyToken("") || VerifyToken("not-base64!") {
		t.Fatalf("garbage accepted")
	}
}

func TestCheckPublicTiming(t *testing.T) {
	tok, _ := GenerateToken()
	old := strconv.FormatInt(time.Now().Add(-10*time.Second).UnixMicro(), 10)
	now := strconv.FormatInt(time.Now().UnixMicro(), 10)

	ok := url.Values{FieldCSRF: {tok}, FieldRenderTS: {old}}
	if err := CheckPublic(ok); err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}

	fast := url.Values{FieldCSRF: {tok}, FieldRenderTS: {now}}
	err := CheckPublic(fast)
	if !IsValidationError(err) {
		t.Fatalf("fast submission: err = %v, want validation error", err)
	}

	noTok := url.Values{FieldRenderTS: {old}}
	if !IsValidationError(CheckPublic(noTok)) {
		t.Fatalf("missing token accepted")
	}
}

func TestValidationErrorFor(t *testing.T) {
	ve := ValidationError{Fields: []ErrorField{{Name: "age", Message: "too young"}}}
	if got := ve.For("age"); got != "too young" {
		t.Fatalf("For(age) = %q", got)
	}
	if got := ve.For("name"); got != "" {
		t.Fatalf("For(name) = %q, want empty", got)
	}
}
