// Package testutil holds helpers shared by the integration suites.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/openbiz/backend/internal/domain/identity"
	"github.com/openbiz/backend/internal/domain/shared"
)

// Actor returns an internal user of tenantID holding perms. With no perms the
// actor is granted everything.
func Actor(tenantID uuid.UUID, perms ...string) identity.Actor {
	if len(perms) == 0 {
		perms = []string{"*"}
	}
	return identity.Actor{
		TenantID:    tenantID,
		UserID:      uuid.New(),
		Language:    "fr-FR",
		Permissions: perms,
	}
}

// External returns an actor bound to a third party
func External(tenantID uuid.UUID, perms ...string) identity.Actor {
	a := Actor(tenantID, perms...)
	tp := uuid.New()
	a.ThirdPartyID = &tp
	return a
}

// EventRecorder is a shared.EventHandler keeping every event it receives
type EventRecorder struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
}

// NewEventRecorder records the given event types, or every type when none is given
func NewEventRecorder(eventTypes ...string) *EventRecorder {
	return &EventRecorder{types: eventTypes}
}

func (r *EventRecorder) EventTypes() []string { return r.types }

func (r *EventRecorder) Handle(_ context.Context, evt shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

// Types returns the type of every recorded event, in order
func (r *EventRecorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

// Events returns a copy of the recorded events
func (r *EventRecorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shared.DomainEvent(nil), r.events...)
}

// Context returns a context cancelled when the test ends or after timeout
func Context(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// RequireDomainCode asserts that err is a domain error carrying code
func RequireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, shared.NewDomainError(code, ""))
}
