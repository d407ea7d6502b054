package session

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/models"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/entitlements"
)

// IntentStore keeps the single pending subscription intent of a browser.
type IntentStore struct {
	c *fiber.Ctx
}

func Intents(c *fiber.Ctx) *IntentStore {
	return &IntentStore{c: c}
}

func (s *IntentStore) Save(intent *models.SubscriptionIntent) error {
	raw, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("encode intent: %w", err)
	}
	return SetSessionValue(s.c, KeyPendingIntent, string(raw))
}

// Load returns nil without error when no intent is pending.
func (s *IntentStore) Load() (*models.SubscriptionIntent, error) {
	raw := GetSessionValue(s.c, KeyPendingIntent)
	if raw == "" {
		return nil, nil
	}

	var intent models.SubscriptionIntent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		log.Warnf("[Session] discarding unreadable intent: %v", err)
		_ = s.Clear()
		return nil, nil
	}
	return &intent, nil
}

func (s *IntentStore) Clear() error {
	return DeleteSessionValue(s.c, KeyPendingIntent)
}

// SetComposerTier remembers the server-confirmed tier the composer opens with.
func SetComposerTier(c *fiber.Ctx, tier entitlements.Tier) error {
	return SetSessionValue(c, KeyComposerTier, string(tier))
}

// ComposerTier defaults to free when nothing was confirmed.
func ComposerTier(c *fiber.Ctx) entitlements.Tier {
	tier, _ := ConfirmedComposerTier(c)
	return tier
}

// ConfirmedComposerTier reports whether a tier was stored for this browser.
func ConfirmedComposerTier(c *fiber.Ctx) (entitlements.Tier, bool) {
	raw := GetSessionValue(c, KeyComposerTier)
	if raw == "" {
		return entitlements.TierFree, false
	}
	tier, err := entitlements.ParseTier(raw)
	if err != nil {
		return entitlements.TierFree, false
	}
	return tier, true
}

func ClearComposerTier(c *fiber.Ctx) error {
	return DeleteSessionValue(c, KeyComposerTier)
}
