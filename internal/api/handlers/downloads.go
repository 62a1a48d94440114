package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

var (
	errOutsideDownloadDir = errors.New("dir must stay inside the download directory")
	errUnsupportedScheme  = errors.New("url must use http or https")
)

// DownloadsHandler starts asset downloads.
type DownloadsHandler struct {
	engine     Coordinator
	defaultDir string
}

// NewDownloadsHandler creates a new DownloadsHandler writing to defaultDir or
// to a subdirectory of it named by the request.
func NewDownloadsHandler(c Coordinator, defaultDir string) *DownloadsHandler {
	return &DownloadsHandler{engine: c, defaultDir: defaultDir}
}

// DownloadInput is the request body for starting a download.
type DownloadInput struct {
	Body struct {
		URL string `json:"url"           doc:"Asset URL"                          format:"uri" minLength:"1"`
		Dir string `json:"dir,omitempty" doc:"Subdirectory of the server's download directory" required:"false"`
	}
}

// DownloadOutput is the response body for a started download.
type DownloadOutput struct {
	Body struct {
		Status string `json:"status" example:"download started"`
		URL    string `json:"url"`
		Dir    string `json:"dir"`
	}
}

// Download starts a download, replacing one already in flight.
func (h *DownloadsHandler) Download(_ context.Context, input *DownloadInput) (*DownloadOutput, error) {
	if u, err := url.Parse(input.Body.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, huma.Error422UnprocessableEntity(errUnsupportedScheme.Error())
	}

	dir, err := h.resolveDir(input.Body.Dir)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	h.engine.DownloadAsset(input.Body.URL, dir)

	resp := &DownloadOutput{}
	resp.Body.Status = "download started"
	resp.Body.URL = input.Body.URL
	resp.Body.Dir = dir
	return resp, nil
}

// resolveDir confines dir to the download directory. Relative paths are
// taken from it; absolute ones must lie under it.
func (h *DownloadsHandler) resolveDir(dir string) (string, error) {
	base := filepath.Clean(h.defaultDir)
	if dir == "" {
		return base, nil
	}

	target := filepath.Clean(dir)
	if !filepath.IsAbs(target) {
		target = filepath.Join(base, target)
	}

	rel, err := filepath.Rel(base, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errOutsideDownloadDir
	}
	return target, nil
}

// RegisterDownloadRoutes registers the download endpoint with the Huma API.
func RegisterDownloadRoutes(api huma.API, h *DownloadsHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "start-download",
		Method:        http.MethodPost,
		Path:          "/api/v1/downloads",
		Summary:       "Download an asset",
		Description:   "Streams the asset into the download directory in the background.",
		Tags:          []string{"downloads"},
		DefaultStatus: http.StatusAccepted,
	}, h.Download)
}
