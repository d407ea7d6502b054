package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/models"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/cache"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/env"
)

// Keys persisted per browser. ClearSession removes all of them at once.
const (
	KeyAccessToken   = "access_token"
	KeyRefreshToken  = "refresh_token"
	KeyUser          = "user"
	KeyPendingIntent = "pending_intent"
	KeyComposerTier  = "composer_tier"
)

// CookieName carries the session id.
const CookieName = "session_id"

var ErrNotInitialized = errors.New("session store not initialized")

var sessionStore *session.Store

func NewSessionStore() *session.Store {
	sessionStore = session.New(session.Config{
		Storage:        cache.NewStorage(cache.DBSession),
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     env.GetDuration("SESSION_TTL", 24*time.Hour),
		KeyLookup:      "cookie:" + CookieName,
	})

	return sessionStore
}

// NewMemorySessionStore installs a store backed by fiber's in-memory storage.
func NewMemorySessionStore() *session.Store {
	sessionStore = session.New(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		Expiration:     time.Hour,
		KeyLookup:      "cookie:" + CookieName,
	})

	return sessionStore
}

func GetSessionStore() *session.Store {
	return sessionStore
}

type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type Session struct {
	Tokens Tokens
	User   *models.User
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Tokens.Access != ""
}

// SetSession stores the token pair and the cached user record. An existing
// record moves to a fresh id, keeping its data.
func SetSession(c *fiber.Ctx, tokens Tokens, user *models.User) error {
	sess, err := get(c)
	if err != nil {
		return err
	}
	if !sess.Fresh() {
		if err := sess.Regenerate(); err != nil {
			return fmt.Errorf("failed to regenerate session: %w", err)
		}
	}

	sess.Set(KeyAccessToken, tokens.Access)
	sess.Set(KeyRefreshToken, tokens.Refresh)
	if user != nil {
		raw, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		sess.Set(KeyUser, string(raw))
	} else {
		sess.Delete(KeyUser)
	}

	id := sess.ID()
	if err := sess.Save(); err != nil {
		return err
	}
	// later lookups in this request read the request cookie
	c.Request().Header.SetCookie(CookieName, id)
	return nil
}

// GetSession returns the session when an access token is present.
func GetSession(c *fiber.Ctx) (*Session, bool) {
	sess, err := get(c)
	if err != nil {
		return nil, false
	}

	access, _ := sess.Get(KeyAccessToken).(string)
	if access == "" {
		return nil, false
	}
	refresh, _ := sess.Get(KeyRefreshToken).(string)

	out := &Session{Tokens: Tokens{Access: access, Refresh: refresh}}
	if raw, ok := sess.Get(KeyUser).(string); ok && raw != "" {
		var u models.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			log.Warnf("[Session] dropping unreadable user record: %v", err)
		} else {
			out.User = &u
		}
	}
	return out, true
}

// ClearSession destroys the whole record: tokens, user, pending intent and
// composer tier go in a single storage delete.
func ClearSession(c *fiber.Ctx) error {
	sess, err := get(c)
	if err != nil {
		return err
	}
	if err := sess.Destroy(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// SetSessionValue stores a key-value pair in the user's individual session
func SetSessionValue(c *fiber.Ctx, key string, value string) error {
	sess, err := get(c)
	if err != nil {
		return err
	}

	sess.Set(key, value)
	return sess.Save()
}

// GetSessionValue retrieves a value by key from the user's individual session
func GetSessionValue(c *fiber.Ctx, key string) string {
	sess, err := get(c)
	if err != nil {
		return ""
	}

	if v, ok := sess.Get(key).(string); ok {
		return v
	}
	return ""
}

// DeleteSessionValue removes a key. Removing a missing key is a no-op.
func DeleteSessionValue(c *fiber.Ctx, key string) error {
	sess, err := get(c)
	if err != nil {
		return err
	}

	sess.Delete(key)
	return sess.Save()
}

func get(c *fiber.Ctx) (*session.Session, error) {
	if sessionStore == nil {
		return nil, ErrNotInitialized
	}
	sess, err := sessionStore.Get(c)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}
