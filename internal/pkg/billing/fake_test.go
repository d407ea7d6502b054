package billing

import (
	"context"
	"sync"

	"github.com/SuriyaPasupathi/proven-pro-frontend/app/models"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/backend"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/entitlements"
)

// fakeAPI is an idempotent stand-in for the backend: a reference is
// activated once, later verifications return the stored answer.
type fakeAPI struct {
	mu sync.Mutex

	verifyAnswer *backend.VerifyResponse
	verifyErr    error
	statusErr    error
	updateErr    error
	checkout     *backend.Checkout
	checkoutErr  error
	hasProfile   bool

	verifyCalls    []backend.VerifyRequest
	activations    map[string]int
	statusCalls    int
	updateCalls    []entitlements.Tier
	checkoutCalls  []backend.CheckoutRequest
	checkoutByProv []models.Provider
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{activations: map[string]int{}}
}

func (f *fakeAPI) UpdateSubscription(_ context.Context, _ string, tier entitlements.Tier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls = append(f.updateCalls, tier)
	return f.updateErr
}

func (f *fakeAPI) ProfileStatus(context.Context, string) (*models.ProfileStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &models.ProfileStatus{HasProfile: f.hasProfile}, nil
}

func (f *fakeAPI) CreateCheckout(_ context.Context, _ string, provider models.Provider, in backend.CheckoutRequest) (*backend.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkoutCalls = append(f.checkoutCalls, in)
	f.checkoutByProv = append(f.checkoutByProv, provider)
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}
	return f.checkout, nil
}

func (f *fakeAPI) VerifyPayment(ctx context.Context, _ string, in backend.VerifyRequest) (*backend.VerifyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyCalls = append(f.verifyCalls, in)
	// like an HTTP call, a cancelled context never reaches the backend
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	ans := *f.verifyAnswer
	if ans.Success {
		ref := in.SessionID + in.SourceID
		if f.activations[ref] == 0 {
			f.activations[ref]++
		}
	}
	return &ans, nil
}

// memoryIntents mirrors the session intent store.
type memoryIntents struct {
	intent *models.SubscriptionIntent
	saves  int
	clears int
}

func (m *memoryIntents) Save(intent *models.SubscriptionIntent) error {
	cp := *intent
	m.intent = &cp
	m.saves++
	return nil
}

func (m *memoryIntents) Load() (*models.SubscriptionIntent, error) {
	if m.intent == nil {
		return nil, nil
	}
	cp := *m.intent
	return &cp, nil
}

func (m *memoryIntents) Clear() error {
	m.intent = nil
	m.clears++
	return nil
}
