package billing

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/singleflight"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/models"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/backend"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/constants"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/entitlements"
)

// VerifyTimeout bounds one shared verification call.
const VerifyTimeout = 30 * time.Second

type State string

const (
	StateStart             State = "start"
	StateVerifying         State = "verifying"
	StateConfirmingProfile State = "confirming_profile"
	StateDone              State = "done"
	StateFailed            State = "failed"
	StateError             State = "error"
)

func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed || s == StateError
}

// Return is a parsed provider redirect.
type Return struct {
	Provider models.Provider
	Ref      string
	// ProviderSuccess is the explicit success flag of the source shape,
	// nil when the provider did not send one.
	ProviderSuccess *bool
}

// ParseReturn recognises the two provider shapes:
//   - ?session_id=cs_...                 card checkout, confirmed server side
//   - ?source_id=src_...&success=true    e-wallet, flag set by the provider
func ParseReturn(q url.Values) (Return, error) {
	if id := strings.TrimSpace(q.Get("session_id")); id != "" {
		return Return{Provider: models.ProviderStripe, Ref: id}, nil
	}
	if id := strings.TrimSpace(q.Get("source_id")); id != "" {
		return Return{Provider: models.ProviderGCash, Ref: id, ProviderSuccess: parseFlag(q.Get("success"))}, nil
	}
	return Return{}, ErrUnrecognizedReturn
}

// Outcome is the terminal result of one resolution.
type Outcome struct {
	State State
	// Destination is the route to send the browser to on Done.
	Destination string
	// Tier is the server-confirmed subscription type.
	Tier            entitlements.Tier
	HasProfile      bool
	Retryable       bool
	AlreadyResolved bool
	Trace           []State
	Err             error
}

func (o *Outcome) enter(s State) {
	o.State = s
	o.Trace = append(o.Trace, s)
}

// Resolver turns a payment provider redirect into an activated
// subscription and the next screen. Every return URL shape goes through it.
type Resolver struct {
	api    API
	ledger Ledger
	group  singleflight.Group
	now    func() time.Time
}

func NewResolver(api API, ledger Ledger) *Resolver {
	if ledger == nil {
		ledger = NewMemoryLedger()
	}
	return &Resolver{api: api, ledger: ledger, now: time.Now}
}

type verification struct {
	res        *backend.VerifyResponse
	tier       entitlements.Tier
	hasProfile bool
}

// Resolve runs the state machine for one return. user scopes the ledger.
// The intent is cleared only when a terminal state is reached and only when
// it belongs to this return.
func (r *Resolver) Resolve(ctx context.Context, token, user string, q url.Values, intents IntentStore) *Outcome {
	out := &Outcome{}
	out.enter(StateStart)

	ret, err := ParseReturn(q)
	if err != nil {
		log.Warnf("[Payment] unrecognized return: %s", q.Encode())
		return r.fail(out, StateError, err, intents, nil)
	}

	intent, err := intents.Load()
	if err != nil {
		log.Warnf("[Payment] could not load intent: %v", err)
		intent = nil
	}
	if intent != nil && !intentMatches(intent, ret) {
		// another checkout's intent, leave it alone
		log.Infof("[Payment] intent %s does not match %s %s", intent.ID, ret.Provider, ret.Ref)
		intent = nil
	}

	if ret.ProviderSuccess != nil && !*ret.ProviderSuccess {
		log.Infof("[Payment] provider reported failure for %s %s", ret.Provider, ret.Ref)
		return r.fail(out, StateFailed, ErrPaymentNotConfirmed, intents, intent)
	}

	if prior, err := r.ledger.Lookup(ctx, user, ret.Provider, ret.Ref); err != nil {
		log.Warnf("[Payment] ledger lookup failed, verifying again: %v", err)
	} else if prior != nil {
		log.Infof("[Payment] %s %s already resolved to %s", ret.Provider, ret.Ref, prior.Tier)
		out.AlreadyResolved = true
		out.Tier = prior.Tier
		return r.confirmProfile(ctx, out, token, prior.HasProfile, intents, intent)
	}

	out.enter(StateVerifying)
	req := backend.VerifyRequest{}
	switch ret.Provider {
	case models.ProviderStripe:
		req.SessionID = ret.Ref
	case models.ProviderGCash:
		req.SourceID = ret.Ref
	}
	if intent != nil {
		req.SubscriptionType = intent.Tier
	}

	key := fmt.Sprintf(LedgerKeyFormat, user, ret.Provider, ret.Ref)
	v, err, shared := r.group.Do(key, func() (any, error) {
		// waiters share this call, so it must not die with the first request
		vctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), VerifyTimeout)
		defer cancel()

		res, err := r.api.VerifyPayment(vctx, token, req)
		if err != nil {
			return nil, err
		}
		if !res.Success {
			return &verification{res: res}, nil
		}

		tier, err := entitlements.ParseTier(res.SubscriptionType)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrContractViolation, res.SubscriptionType)
		}
		if err := r.ledger.Record(vctx, user, ret.Provider, ret.Ref, Resolution{
			Tier:       tier,
			HasProfile: res.HasProfile,
			ResolvedAt: r.now(),
		}); err != nil {
			log.Warnf("[Payment] ledger record failed: %v", err)
		}
		return &verification{res: res, tier: tier, hasProfile: res.HasProfile}, nil
	})
	if err != nil {
		log.Errorf("[Payment] verification of %s %s failed: %v", ret.Provider, ret.Ref, err)
		return r.fail(out, StateError, err, intents, intent)
	}

	ver := v.(*verification)
	if !ver.res.Success {
		out.Retryable = ver.res.Retryable
		log.Infof("[Payment] backend declined %s %s (retryable=%t)", ret.Provider, ret.Ref, out.Retryable)
		return r.fail(out, StateFailed, ErrPaymentNotConfirmed, intents, intent)
	}

	out.Tier = ver.tier
	// a shared flight means a concurrent request did the activation
	out.AlreadyResolved = shared || intent == nil
	if intent != nil && intent.Tier != ver.tier {
		log.Infof("[Payment] backend confirmed %s, intent said %s", ver.tier, intent.Tier)
	}
	return r.confirmProfile(ctx, out, token, ver.hasProfile, intents, intent)
}

func (r *Resolver) confirmProfile(ctx context.Context, out *Outcome, token string, fallback bool, intents IntentStore, intent *models.SubscriptionIntent) *Outcome {
	out.enter(StateConfirmingProfile)

	out.HasProfile = fallback
	status, err := r.api.ProfileStatus(ctx, token)
	if err != nil {
		log.Warnf("[Payment] profile status failed, using verify answer has_profile=%t: %v", fallback, err)
	} else {
		out.HasProfile = status.HasProfile
	}

	out.Destination = constants.RouteProfileCreate
	if out.HasProfile {
		out.Destination = constants.RouteProfile
	}

	clearIntent(intents, intent)
	out.enter(StateDone)
	return out
}

func (r *Resolver) fail(out *Outcome, state State, err error, intents IntentStore, intent *models.SubscriptionIntent) *Outcome {
	out.Err = err
	out.Destination = constants.RouteSubscription
	if state == StateFailed && out.Retryable && intent != nil {
		// same reference can be paid again
		out.enter(state)
		return out
	}
	if state == StateError && errors.Is(err, ErrUnrecognizedReturn) {
		// nothing to tie the return to; drop whatever is pending
		_ = intents.Clear()
	} else {
		clearIntent(intents, intent)
	}
	out.enter(state)
	return out
}

func clearIntent(intents IntentStore, intent *models.SubscriptionIntent) {
	if intent == nil {
		return
	}
	if err := intents.Clear(); err != nil {
		log.Warnf("[Payment] could not clear intent %s: %v", intent.ID, err)
	}
}

// intentMatches ties an intent to a return. An intent without a recorded
// reference matches any return of its provider.
func intentMatches(intent *models.SubscriptionIntent, ret Return) bool {
	if intent.Provider != ret.Provider {
		return false
	}
	return intent.ProviderRef == "" || intent.ProviderRef == ret.Ref
}
