package anthropic_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleter_Complete(t *testing.T) {
	t.Parallel()

	t.Run("sends system prompt and returns text", func(t *testing.T) {
		t.Parallel()

		var body struct {
			Model     string `json:"model"`
			System    string `json:"system"`
			MaxTokens int    `json:"max_tokens"`
		}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude","content":[{"type":"text","text":"Messor barbarus almacena semillas."}],"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":5}}`)
		}))
		t.Cleanup(srv.Close)

		answer, err := anthropic.NewCompleter("key", "", srv.URL).Complete(context.Background(), "Eres un mirmecólogo.", "¿Qué come Messor?")

		require.NoError(t, err)
		assert.Equal(t, "Messor barbarus almacena semillas.", answer)
		assert.Equal(t, anthropic.DefaultModel, body.Model)
		assert.Equal(t, "Eres un mirmecólogo.", body.System)
		assert.Equal(t, anthropic.DefaultMaxTokens, body.MaxTokens)
	})

	t.Run("server error is unavailable", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"boom"}}`)
		}))
		t.Cleanup(srv.Close)

		_, err := anthropic.NewCompleter("key", "", srv.URL).Complete(context.Background(), "", "hola")

		assert.Equal(t, antmaster.EUNAVAILABLE, antmaster.ErrorCode(err))
	})

	t.Run("empty prompt is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := anthropic.NewCompleter("key", "", "").Complete(context.Background(), "sys", "")

		assert.Equal(t, antmaster.EINVALID, antmaster.ErrorCode(err))
	})
}
