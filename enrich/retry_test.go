package enrich_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/enrich"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	noDelay := []time.Duration{0, 0, 0}

	t.Run("returns first success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(context.Context, string) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("connection reset")
			}
			return "<html>ok</html>", nil
		}

		var logged []string
		logger := func(format string, _ ...any) { logged = append(logged, format) }

		html, err := enrich.FetchWithRetryDelays(context.Background(), "https://www.antwiki.org/wiki/Lasius_niger", fetch, logger, noDelay)

		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", html)
		assert.Equal(t, 3, calls)
		assert.Len(t, logged, 2)
	})

	t.Run("gives up after all attempts", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(context.Context, string) (string, error) {
			calls++
			return "", antmaster.Errorf(antmaster.EUNAVAILABLE, "HTTP 503")
		}

		_, err := enrich.FetchWithRetryDelays(context.Background(), "u", fetch, nil, noDelay)

		require.Error(t, err)
		assert.Equal(t, 4, calls)
	})

	t.Run("does not retry missing pages", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(context.Context, string) (string, error) {
			calls++
			return "", antmaster.Errorf(antmaster.ENOTFOUND, "HTTP 404")
		}

		_, err := enrich.FetchWithRetryDelays(context.Background(), "u", fetch, nil, noDelay)

		assert.Equal(t, antmaster.ENOTFOUND, antmaster.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("stops waiting when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(context.Context, string) (string, error) {
			cancel()
			return "", errors.New("timeout")
		}

		_, err := enrich.FetchWithRetryDelays(ctx, "u", fetch, nil, []time.Duration{time.Hour})

		assert.ErrorIs(t, err, context.Canceled)
	})
}
