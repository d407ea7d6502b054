package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/env"
)

// ResumeClaims carry a flow across a login detour: either a plan selection
// or a plain return path.
type ResumeClaims struct {
	Plan      string `json:"plan,omitempty"`
	Provider  string `json:"provider,omitempty"`
	Return    string `json:"ret,omitempty"`
	ExpiresAt int64  `json:"exp"`
}

func GenerateResumeToken(claims ResumeClaims, ttl time.Duration, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("secret is required for token generation")
	}
	claims.ExpiresAt = time.Now().Add(ttl).Unix()
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	sig := mac.Sum(nil)
	token := fmt.Sprintf("%s.%s", base64.RawURLEncoding.EncodeToString(payload), base64.RawURLEncoding.EncodeToString(sig))
	return token, nil
}

func VerifyResumeToken(token, secret string) (*ResumeClaims, error) {
	if secret == "" {
		return nil, errors.New("secret is required for token verification")
	}
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return nil, errors.New("invalid token format")
	}
	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, errors.New("invalid payload encoding")
	}
	sigBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, errors.New("invalid signature encoding")
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payloadBytes)
	if !hmac.Equal(sigBytes, mac.Sum(nil)) {
		return nil, errors.New("invalid token signature")
	}
	var claims ResumeClaims
	if err := json.Unmarshal(payloadBytes, &claims); err != nil {
		return nil, errors.New("invalid payload")
	}
	if time.Now().Unix() > claims.ExpiresAt {
		return nil, errors.New("token expired")
	}
	if claims.Return != "" && !IsLocalPath(claims.Return) {
		return nil, errors.New("invalid return path")
	}
	return &claims, nil
}

// IsLocalPath rejects anything that could redirect off-site.
func IsLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, `\`)
}

var (
	secretOnce     sync.Once
	fallbackSecret string
)

// ResumeSecret reads RESUME_TOKEN_SECRET. Without it a per-process secret
// is used, so pending resume links die with a restart.
func ResumeSecret() string {
	if s := strings.TrimSpace(env.GetEnv("RESUME_TOKEN_SECRET", "")); s != "" {
		return s
	}
	secretOnce.Do(func() {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			panic(err)
		}
		fallbackSecret = hex.EncodeToString(b)
		log.Warn("[Security] RESUME_TOKEN_SECRET not set, using a random per-process secret")
	})
	return fallbackSecret
}
