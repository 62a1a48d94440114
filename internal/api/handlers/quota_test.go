package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/reddit-top/internal/api/handlers"
	"github.com/donaldgifford/reddit-top/internal/transport"
)

func TestGetQuota(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	observed := transport.NewRateLimiter(100, 10,
		transport.WithRateLimiterNowFunc(func() time.Time { return now }),
	)
	observed.Observe(http.Header{
		"X-Ratelimit-Used":      []string{"42"},
		"X-Ratelimit-Remaining": []string{"558.0"},
		"X-Ratelimit-Reset":     []string{"300"},
	})

	tests := []struct {
		name      string
		rl        *transport.RateLimiter
		wantKnown bool
		wantUsed  int
		wantLeft  int
		wantReset *time.Time
	}{
		{name: "nil rate limiter returns zeroes"},
		{name: "no window observed yet", rl: transport.NewRateLimiter(100, 10)},
		{
			name:      "observed window",
			rl:        observed,
			wantKnown: true,
			wantUsed:  42,
			wantLeft:  558,
			wantReset: func() *time.Time { r := now.Add(5 * time.Minute); return &r }(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterQuotaRoutes(api, handlers.NewQuotaHandler(tt.rl))

			resp := api.Get("/api/v1/quota")
			require.Equal(t, http.StatusOK, resp.Code)

			var body struct {
				Known     bool       `json:"known"`
				Used      int        `json:"used"`
				Remaining int        `json:"remaining"`
				ResetAt   *time.Time `json:"reset_at"`
			}
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

			assert.Equal(t, tt.wantKnown, body.Known)
			assert.Equal(t, tt.wantUsed, body.Used)
			assert.Equal(t, tt.wantLeft, body.Remaining)
			if tt.wantReset == nil {
				assert.Nil(t, body.ResetAt)
				return
			}
			require.NotNil(t, body.ResetAt)
			assert.True(t, tt.wantReset.Equal(*body.ResetAt))
		})
	}
}
