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
	"github.com/donaldgifford/reddit-top/internal/engine"
)

func TestGetStatus(t *testing.T) {
	t.Parallel()

	expires := time.Date(2025, 6, 15, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		coord         *fakeCoordinator
		wantAuth      bool
		wantInFlight  []string
		wantExpiresAt bool
	}{
		{
			name:         "idle and unauthenticated",
			coord:        &fakeCoordinator{},
			wantInFlight: []string{},
		},
		{
			name: "authenticated with work in flight",
			coord: &fakeCoordinator{
				authenticated: true,
				inFlight:      []engine.Kind{engine.KindFetchPage, engine.KindDownloadAsset},
			},
			wantAuth:      true,
			wantInFlight:  []string{"fetch_page", "download_asset"},
			wantExpiresAt: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			h := handlers.NewStatusHandler(tt.coord, fakeSession{deviceID: "device-1", expiresAt: expires})
			handlers.RegisterStatusRoutes(api, h)

			resp := api.Get("/api/v1/status")
			require.Equal(t, http.StatusOK, resp.Code)

			var body struct {
				Authenticated  bool       `json:"authenticated"`
				DeviceID       string     `json:"device_id"`
				TokenExpiresAt *time.Time `json:"token_expires_at"`
				InFlight       []string   `json:"in_flight"`
			}
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))

			assert.Equal(t, tt.wantAuth, body.Authenticated)
			assert.Equal(t, "device-1", body.DeviceID)
			assert.Equal(t, tt.wantInFlight, body.InFlight)
			if tt.wantExpiresAt {
				require.NotNil(t, body.TokenExpiresAt)
				assert.True(t, expires.Equal(*body.TokenExpiresAt))
			} else {
				assert.Nil(t, body.TokenExpiresAt)
			}
		})
	}
}
