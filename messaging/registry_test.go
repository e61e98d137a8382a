package messaging

import (
	"testing"

	"github.com/framelink/framelink-go/contracts"
	"github.com/stretchr/testify/assert"
)

func TestSubscriptionRegistry(t *testing.T) {
	t.Run("Notify invokes every registered callback", func(t *testing.T) {
		r := NewSubscriptionRegistry()
		var got []string
		r.Subscribe(contracts.EventTheme, func(payload any) {
			got = append(got, "a")
		})
		r.Subscribe(contracts.EventTheme, func(payload any) {
			got = append(got, "b")
		})

		r.Notify(contracts.EventTheme, contracts.ThemePayload{Theme: contracts.ThemeLight})

		assert.ElementsMatch(t, []string{"a", "b"}, got)
	})

	t.Run("Notify passes the payload through", func(t *testing.T) {
		r := NewSubscriptionRegistry()
		var got any
		r.Subscribe(contracts.EventRedirect, func(payload any) {
			got = payload
		})

		r.Notify(contracts.EventRedirect, contracts.RedirectPayload{Path: "/x"})

		assert.Equal(t, contracts.RedirectPayload{Path: "/x"}, got)
	})

	t.Run("subscribe then unsubscribe yields zero notifications", func(t *testing.T) {
		r := NewSubscriptionRegistry()
		calls := 0
		unsub := r.Subscribe(contracts.EventTheme, func(payload any) {
			calls++
		})

		unsub()
		r.Notify(contracts.EventTheme, nil)

		assert.Zero(t, calls)
		assert.Zero(t, r.Count(contracts.EventTheme))
	})

	t.Run("unsubscribe closure is idempotent", func(t *testing.T) {
		r := NewSubscriptionRegistry()
		unsubA := r.Subscribe(contracts.EventTheme, func(payload any) {})
		calls := 0
		r.Subscribe(contracts.EventTheme, func(payload any) {
			calls++
		})

		unsubA()
		unsubA()
		unsubA()
		r.Notify(contracts.EventTheme, nil)

		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, r.Count(contracts.EventTheme))
	})

	t.Run("callback unsubscribing itself is not invoked again and siblings run once", func(t *testing.T) {
		r := NewSubscriptionRegistry()
		selfCalls := 0
		siblingCalls := 0

		var unsubSelf func()
		unsubSelf = r.Subscribe(contracts.EventTheme, func(payload any) {
			selfCalls++
			unsubSelf()
		})
		r.Subscribe(contracts.EventTheme, func(payload any) {
			siblingCalls++
		})

		r.Notify(contracts.EventTheme, nil)
		assert.Equal(t, 1, selfCalls)
		assert.Equal(t, 1, siblingCalls)

		r.Notify(contracts.EventTheme, nil)
		assert.Equal(t, 1, selfCalls, "self-removed callback must stay removed")
		assert.Equal(t, 2, siblingCalls)
	})

	t.Run("callback adding a subscriber mid-pass does not corrupt the pass", func(t *testing.T) {
		r := NewSubscriptionRegistry()
		lateCalls := 0
		r.Subscribe(contracts.EventTheme, func(payload any) {
			r.Subscribe(contracts.EventTheme, func(payload any) {
				lateCalls++
			})
		})

		r.Notify(contracts.EventTheme, nil)
		assert.Zero(t, lateCalls, "subscriber added during the pass waits for the next one")

		r.Notify(contracts.EventTheme, nil)
		assert.Equal(t, 1, lateCalls)
	})

	t.Run("UnsubscribeAll with a type clears only that bucket", func(t *testing.T) {
		r := NewSubscriptionRegistry()
		themeCalls := 0
		redirectCalls := 0
		r.Subscribe(contracts.EventTheme, func(payload any) { themeCalls++ })
		r.Subscribe(contracts.EventRedirect, func(payload any) { redirectCalls++ })

		r.UnsubscribeAll(contracts.EventTheme)
		r.Notify(contracts.EventTheme, nil)
		r.Notify(contracts.EventRedirect, nil)

		assert.Zero(t, themeCalls)
		assert.Equal(t, 1, redirectCalls)
	})

	t.Run("UnsubscribeAll without arguments clears every bucket", func(t *testing.T) {
		r := NewSubscriptionRegistry()
		calls := 0
		r.Subscribe(contracts.EventTheme, func(payload any) { calls++ })
		r.Subscribe(contracts.EventHandshake, func(payload any) { calls++ })

		r.UnsubscribeAll()
		r.Notify(contracts.EventTheme, nil)
		r.Notify(contracts.EventHandshake, nil)

		assert.Zero(t, calls)
	})

	t.Run("UnsubscribeAll on an empty registry is a no-op", func(t *testing.T) {
		r := NewSubscriptionRegistry()

		assert.NotPanics(t, func() {
			r.UnsubscribeAll()
			r.UnsubscribeAll(contracts.EventTheme)
		})
	})

	t.Run("notification for one type does not reach other types", func(t *testing.T) {
		r := NewSubscriptionRegistry()
		calls := 0
		r.Subscribe(contracts.EventRedirect, func(payload any) { calls++ })

		r.Notify(contracts.EventTheme, nil)

		assert.Zero(t, calls)
	})
}
