package handlers_test

import (
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/reddit-top/internal/api/handlers"
)

func TestDownloadRoutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantDir    string
	}{
		{
			name:       "default directory",
			body:       map[string]any{"url": "https://i.redd.it/cat.jpg"},
			wantStatus: http.StatusAccepted,
			wantDir:    "/srv/pictures",
		},
		{
			name:       "relative subdirectory",
			body:       map[string]any{"url": "https://i.redd.it/cat.jpg", "dir": "cats"},
			wantStatus: http.StatusAccepted,
			wantDir:    "/srv/pictures/cats",
		},
		{
			name:       "absolute subdirectory",
			body:       map[string]any{"url": "https://i.redd.it/cat.jpg", "dir": "/srv/pictures/cats/"},
			wantStatus: http.StatusAccepted,
			wantDir:    "/srv/pictures/cats",
		},
		{
			name:       "absolute directory elsewhere",
			body:       map[string]any{"url": "https://i.redd.it/cat.jpg", "dir": "/home/user/.ssh"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "sibling with shared prefix",
			body:       map[string]any{"url": "https://i.redd.it/cat.jpg", "dir": "/srv/pictures-private"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "relative escape",
			body:       map[string]any{"url": "https://i.redd.it/cat.jpg", "dir": "cats/../../etc"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "non http url",
			body:       map[string]any{"url": "file:///etc/passwd"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "missing url",
			body:       map[string]any{"dir": "/tmp"},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			coord := &fakeCoordinator{}

			_, api := humatest.New(t)
			handlers.RegisterDownloadRoutes(api, handlers.NewDownloadsHandler(coord, "/srv/pictures"))

			resp := api.Post("/api/v1/downloads", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())

			if tt.wantStatus != http.StatusAccepted {
				assert.Empty(t, coord.recorded())
				return
			}

			require.Len(t, coord.downloads, 1)
			assert.Equal(t, "https://i.redd.it/cat.jpg", coord.downloads[0][0])
			assert.Equal(t, tt.wantDir, coord.downloads[0][1])
			assert.Contains(t, resp.Body.String(), `"status":"download started"`)
		})
	}
}
