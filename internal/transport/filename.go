package transport

import (
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

const defaultFileName = "download"

// FileName derives the local file name for a download. The filename
// parameter of the Content-Disposition header wins; otherwise the last path
// segment of rawURL is used. The result is always a bare base name.
func FileName(disposition, rawURL string) string {
	name := dispositionName(disposition)
	if name == "" {
		name = urlName(rawURL)
	}

	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || name == ".." || name == "" {
		return defaultFileName
	}
	return name
}

func dispositionName(disposition string) string {
	if disposition == "" {
		return ""
	}

	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}

	// Lenient fallback for headers mime rejects, e.g. unquoted spaces.
	i := strings.Index(disposition, "filename=")
	if i < 0 {
		return ""
	}
	value := disposition[i+len("filename="):]
	if j := strings.IndexByte(value, ';'); j >= 0 {
		value = value[:j]
	}
	return strings.Trim(strings.TrimSpace(value), `"`)
}

func urlName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return path.Base(u.Path)
	}
	return rawURL[strings.LastIndex(rawURL, "/")+1:]
}
