//go:build integration

package settings_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formdesk/internal/settings"
	"formdesk/pkg/testutil/containers"
)

func TestCachedStore(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()

	t.Run("read-through populates the cache", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		inner := settings.NewMemory(map[string]string{settings.OptionLabelField: "topic"})
		cached := settings.NewCached(inner, rc.Client, time.Minute, nil)

		value, err := cached.GetOption(ctx, settings.OptionLabelField)
		require.NoError(t, err)
		assert.Equal(t, "topic", value)

		// Subsequent reads come from the cache, not the inner store.
		inner.SetOption(settings.OptionLabelField, "changed-behind-the-cache")
		value, err = cached.GetOption(ctx, settings.OptionLabelField)
		require.NoError(t, err)
		assert.Equal(t, "topic", value)
	})

	t.Run("invalidate forces a re-read", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		inner := settings.NewMemory(map[string]string{settings.OptionEmailField: "your-email"})
		cached := settings.NewCached(inner, rc.Client, time.Minute, nil)

		_, err := cached.GetOption(ctx, settings.OptionEmailField)
		require.NoError(t, err)

		inner.SetOption(settings.OptionEmailField, "contact-email")
		cached.Invalidate(ctx, settings.OptionEmailField)

		value, err := cached.GetOption(ctx, settings.OptionEmailField)
		require.NoError(t, err)
		assert.Equal(t, "contact-email", value)
	})

	t.Run("unset option stays uncached", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		inner := settings.NewMemory(nil)
		cached := settings.NewCached(inner, rc.Client, time.Minute, nil)

		_, err := cached.GetOption(ctx, "reply_email")
		require.Error(t, err)

		inner.SetOption("reply_email", "desk@example.com")
		value, err := cached.GetOption(ctx, "reply_email")
		require.NoError(t, err)
		assert.Equal(t, "desk@example.com", value)
	})
}
