package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscordIndexer_MediaAdded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		media      Media
		statusCode int
		wantErr    bool
		errMsg     string
		wantImage  bool
	}{
		{
			name:       "image embeds source",
			media:      Media{Path: "/pics/cat.jpg", SourceURL: "https://i.redd.it/cat.jpg"},
			statusCode: http.StatusNoContent,
			wantImage:  true,
		},
		{
			name:       "non image has no preview",
			media:      Media{Path: "/pics/clip.mp4", SourceURL: "https://v.redd.it/clip.mp4"},
			statusCode: http.StatusNoContent,
		},
		{
			name:       "upper case extension",
			media:      Media{Path: "/pics/DOG.PNG", SourceURL: "https://i.redd.it/DOG.PNG"},
			statusCode: http.StatusOK,
			wantImage:  true,
		},
		{
			name:       "discord returns 429 rate limited",
			media:      Media{Path: "/pics/cat.jpg"},
			statusCode: http.StatusTooManyRequests,
			wantErr:    true,
			errMsg:     "rate limited",
		},
		{
			name:       "discord returns 400 error",
			media:      Media{Path: "/pics/cat.jpg"},
			statusCode: http.StatusBadRequest,
			wantErr:    true,
			errMsg:     "discord returned 400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			received := make(chan discordWebhookPayload, 1)

			srv := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
					assert.Equal(t, http.MethodPost, r.Method)

					var p discordWebhookPayload
					assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))
					received <- p

					w.WriteHeader(tt.statusCode)
				}),
			)
			defer srv.Close()

			d := NewDiscordIndexer(srv.URL, WithHTTPClient(srv.Client()))
			err := d.MediaAdded(context.Background(), tt.media)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}

			require.NoError(t, err)
			payload := <-received
			require.Len(t, payload.Embeds, 1)

			embed := payload.Embeds[0]
			assert.Equal(t, colorBlue, embed.Color)
			assert.Contains(t, embed.Title, "Media added")
			assert.Equal(t, tt.media.SourceURL, embed.URL)
			require.Len(t, embed.Fields, 1)
			assert.Equal(t, tt.media.Path, embed.Fields[0].Value)

			if tt.wantImage {
				require.NotNil(t, embed.Image)
				assert.Equal(t, tt.media.SourceURL, embed.Image.URL)
			} else {
				assert.Nil(t, embed.Image)
			}
		})
	}
}

func TestDiscordIndexer_NetworkError(t *testing.T) {
	t.Parallel()

	d := NewDiscordIndexer("http://127.0.0.1:1") // nothing listening
	err := d.MediaAdded(context.Background(), Media{Path: "/pics/a.jpg"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending discord webhook")
}

func TestDiscordIndexer_InvalidWebhookURL(t *testing.T) {
	t.Parallel()

	d := NewDiscordIndexer("://not-a-valid-url")
	err := d.MediaAdded(context.Background(), Media{Path: "/pics/a.jpg"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating discord request")
}
