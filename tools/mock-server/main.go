// Package main implements a mock Reddit API server for local development.
// It serves the installed-client token endpoint, a paginated top listing of
// generated posts, and PNG thumbnails, so reddit-top can run with
// reddit.base_url and reddit.oauth_url pointed at it.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	installedClientGrant = "https://oauth.reddit.com/grants/installed_client"
	defaultPageSize      = 25
	maxPageSize          = 100
	windowRequests       = 600
)

type listing struct {
	Kind string      `json:"kind"`
	Data listingData `json:"data"`
}

type listingData struct {
	Modhash  string  `json:"modhash"`
	After    *string `json:"after"`
	Before   *string `json:"before"`
	Children []child `json:"children"`
}

type child struct {
	Kind string `json:"kind"`
	Data post   `json:"data"`
}

type post struct {
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Thumbnail   string  `json:"thumbnail"`
	CreatedUTC  float64 `json:"created_utc"`
	NumComments int     `json:"num_comments"`
	URL         string  `json:"url"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	posts := flag.Int("posts", 60, "number of posts in the top listing")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	addr := fmt.Sprintf(":%d", *port)
	baseURL := fmt.Sprintf("http://localhost:%d", *port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, newMux(logger, generatePosts(*posts, baseURL, time.Now()))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Info("starting mock reddit server", "addr", addr, "posts", *posts)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newMux(logger *slog.Logger, posts []post) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/access_token", tokenHandler(logger))
	mux.HandleFunc("GET /top", topHandler(logger, posts))
	mux.HandleFunc("GET /img/{name}", imageHandler())
	return mux
}

// generatePosts builds n posts, newest first. Every third post is a text
// post without a thumbnail.
func generatePosts(n int, baseURL string, now time.Time) []post {
	posts := make([]post, n)
	for i := range posts {
		p := post{
			Name:        fmt.Sprintf("t3_mock%d", i),
			Title:       fmt.Sprintf("Mock post number %d", i+1),
			Author:      fmt.Sprintf("mock_user_%d", i%7),
			Thumbnail:   "self",
			CreatedUTC:  float64(now.Add(-time.Duration(i) * 17 * time.Minute).Unix()),
			NumComments: (i * 37) % 500,
		}
		if i%3 != 2 {
			img := fmt.Sprintf("%s/img/mock%d.png", baseURL, i)
			p.Thumbnail = img
			p.URL = img
		}
		posts[i] = p
	}
	return posts
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func tokenHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Reddit accepts an empty secret for installed apps.
		if clientID, _, ok := r.BasicAuth(); !ok || clientID == "" {
			logger.Warn("token request missing Basic Auth header")
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"message": "Unauthorized",
				"error":   401,
			})
			return
		}

		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
			return
		}
		if r.PostForm.Get("grant_type") != installedClientGrant {
			writeJSON(w, http.StatusOK, map[string]string{"error": "unsupported_grant_type"})
			return
		}
		deviceID := r.PostForm.Get("device_id")
		if deviceID == "" {
			writeJSON(w, http.StatusOK, map[string]string{"error": "invalid_request"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "mock-token-" + deviceID,
			"token_type":   "bearer",
			"expires_in":   3600,
			"scope":        "*",
		})
		logger.Info("issued mock token", "device_id", deviceID)
	}
}

func topHandler(logger *slog.Logger, posts []post) http.HandlerFunc {
	index := make(map[string]int, len(posts))
	for i, p := range posts {
		index[p.Name] = i
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(strings.ToLower(r.Header.Get("Authorization")), "bearer ") {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"message": "Unauthorized",
				"error":   401,
			})
			return
		}

		q := r.URL.Query()

		limit := defaultPageSize
		if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
			limit = min(v, maxPageSize)
		}

		start := 0
		if after := q.Get("after"); after != "" {
			i, ok := index[after]
			if !ok {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown cursor"})
				return
			}
			start = i + 1
		}
		end := min(start+limit, len(posts))

		resp := listing{Kind: "Listing", Data: listingData{Children: []child{}}}
		for _, p := range posts[start:end] {
			resp.Data.Children = append(resp.Data.Children, child{Kind: "t3", Data: p})
		}
		if end < len(posts) {
			after := posts[end-1].Name
			resp.Data.After = &after
		}
		if start > 0 {
			before := posts[start].Name
			resp.Data.Before = &before
		}

		w.Header().Set("X-Ratelimit-Used", "1")
		w.Header().Set("X-Ratelimit-Remaining", strconv.Itoa(windowRequests-1))
		w.Header().Set("X-Ratelimit-Reset", "600")
		writeJSON(w, http.StatusOK, resp)

		logger.Info("top", "t", q.Get("t"), "start", start, "returned", end-start)
	}
}

func imageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		if !strings.HasSuffix(name, ".png") {
			http.NotFound(w, r)
			return
		}

		img := image.NewRGBA(image.Rect(0, 0, 16, 16))
		shade := uint8(len(name) * 16)
		for y := range 16 {
			for x := range 16 {
				img.Set(x, y, color.RGBA{R: shade, G: uint8(x * 16), B: uint8(y * 16), A: 0xff})
			}
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		w.Write(buf.Bytes())
	}
}
