package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deliverypro/deliverypro-backend/internal/cart"
	"github.com/deliverypro/deliverypro-backend/internal/checkout"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/redis"
)

// Session binds one storefront visitor to their cart and checkout wizard.
// The state containers live in process memory; the token is also tracked in
// the key-value store so TTL handling survives a shared Redis deployment.
type Session struct {
	Token      string
	Cart       *cart.Cart
	Checkout   *checkout.Checkout
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// Registry owns all active storefront sessions. Each session holds exclusive
// ownership of its cart and checkout; two tokens never share state.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	store             *redis.Client
	ttl               time.Duration
	deliveryFeeCents  int
	freeDeliveryCents int
	submitter         checkout.Submitter

	now func() time.Time
}

// NewRegistry wires the session registry.
func NewRegistry(store *redis.Client, ttl time.Duration, deliveryFeeCents, freeDeliveryCents int, submitter checkout.Submitter) (*Registry, error) {
	if store == nil {
		return nil, errors.New("session store required")
	}
	if submitter == nil {
		return nil, errors.New("order submitter required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid session ttl %s", ttl)
	}

	return &Registry{
		sessions:          make(map[string]*Session),
		store:             store,
		ttl:               ttl,
		deliveryFeeCents:  deliveryFeeCents,
		freeDeliveryCents: freeDeliveryCents,
		submitter:         submitter,
		now:               time.Now,
	}, nil
}

// Start creates a fresh session with an empty cart and a checkout at step 1,
// returning the opaque token the storefront sends back on every call.
func (r *Registry) Start(ctx context.Context) (*Session, error) {
	newCart, err := cart.New(r.deliveryFeeCents, r.freeDeliveryCents)
	if err != nil {
		return nil, err
	}
	newCheckout, err := checkout.New(r.submitter)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	now := r.now()
	session := &Session{
		Token:      token,
		Cart:       newCart,
		Checkout:   newCheckout,
		CreatedAt:  now,
		LastSeenAt: now,
	}

	if err := r.store.Set(ctx, r.store.SessionKey(token), "1", r.ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist session token")
	}

	r.mu.Lock()
	r.sessions[token] = session
	r.mu.Unlock()

	return session, nil
}

// Get resolves a token to its session, refreshing the TTL. Unknown or expired
// tokens yield NOT_FOUND so the storefront can transparently start over.
func (r *Registry) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session token required")
	}

	r.mu.Lock()
	session, ok := r.sessions[token]
	if ok && r.expired(session) {
		delete(r.sessions, token)
		ok = false
	}
	if ok {
		session.LastSeenAt = r.now()
	}
	r.mu.Unlock()

	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found or expired")
	}

	// Refresh the external record; failures here must not break the request.
	_ = r.store.Set(ctx, r.store.SessionKey(token), "1", r.ttl)
	return session, nil
}

// End discards the session and its token record.
func (r *Registry) End(ctx context.Context, token string) error {
	r.mu.Lock()
	_, ok := r.sessions[token]
	delete(r.sessions, token)
	r.mu.Unlock()

	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	if err := r.store.Del(ctx, r.store.SessionKey(token)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete session token")
	}
	return nil
}

// ResetCheckout replaces the session's wizard with a fresh one at step 1.
// Used after a successful submission so the next order starts clean.
func (r *Registry) ResetCheckout(token string) error {
	fresh, err := checkout.New(r.submitter)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[token]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	session.Checkout = fresh
	return nil
}

// ActiveCount reports how many unexpired sessions are held.
func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, session := range r.sessions {
		if !r.expired(session) {
			count++
		}
	}
	return count
}

// Sweep drops expired sessions. Intended to run periodically from main.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token, session := range r.sessions {
		if r.expired(session) {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed
}

func (r *Registry) expired(session *Session) bool {
	return r.now().Sub(session.LastSeenAt) > r.ttl
}
