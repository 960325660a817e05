// internal/form/csrf.go
//
// Stateless CSRF tokens for the public and admin forms.
//
// Context
//   Every rendered form embeds a hidden `csrf_token` input.  The token is
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – issue time, 8 bytes, big-endian.
//   •  HMAC – keyed with the `csrf.secret` config value.
//
//   Verification checks the signature and that the token is younger than
//   MaxAge, so several instances behind a balancer accept each other's
//   tokens without shared state.
//
// Workflow
//   •  Configure(secret)  → called once from `escortd serve`.
//   •  GenerateToken()    → token string for the template.
//   •  VerifyToken(tok)   → constant-time verify; false on any failure.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	tokenBytes   = 16 + 8 + sha256.Size // nonce + ts + sig
	MaxAge       = 2 * time.Hour        // token valid window
	secretEnvKey = "ESCORTDE_CSRF_KEY"  // fallback when config is empty
)

var (
	secretMu  sync.RWMutex
	secretKey []byte
)

// Configure installs the HMAC secret.  Secrets shorter than 32 bytes are
// ignored and the env / random fallback is used instead.
func Configure(secret string) {
	if len(secret) < 32 {
		return
	}
	secretMu.Lock()
	secretKey = []byte(secret)
	secretMu.Unlock()
}

// GenerateToken creates a new CSRF token.  Call once per form render.
func GenerateToken() (string, error) {
	sec := fetchSecret()

	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(time.Now().UnixMicro()))

	mac := hmac.New(sha256.New, sec)
	mac.Write(nonce)
	mac.Write(ts)

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, mac.Sum(nil)...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// VerifyToken returns true if tok passes HMAC and age checks.
func VerifyToken(tok string) bool {
	if tok == "" {
		return false
	}
	sec := fetchSecret()

	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	nonce, tsBytes, sig := raw[:16], raw[16:24], raw[24:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	if time.Since(issued) > MaxAge || time.Until(issued) > time.Minute {
		return false
	}

	mac := hmac.New(sha256.New, sec)
	mac.Write(nonce)
	mac.Write(tsBytes)
	return hmac.Equal(sig, mac.Sum(nil))
}

// fetchSecret returns the configured key, falling back to ESCORTDE_CSRF_KEY
// and finally to a random per-process key.
func fetchSecret() []byte {
	secretMu.RLock()
	k := secretKey
	secretMu.RUnlock()
	if k != nil {
		return k
	}

	secretMu.Lock()
	defer secretMu.Unlock()
	if secretKey != nil {
		return secretKey
	}
	if env := os.Getenv(secretEnvKey); len(env) >= 32 {
		secretKey = []byte(env)
		return secretKey
	}
	secretKey = make([]byte, 32)
	_, _ = rand.Read(secretKey)
	zap.L().Warn("csrf secret not configured, using a random per-process key")
	return secretKey
}
