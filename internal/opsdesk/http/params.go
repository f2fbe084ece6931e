package http

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/service"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
)

// maxImageUploadBytes caps a whole multipart image batch.
const maxImageUploadBytes = 32 << 20

// pageSpecFromQuery reads page/pageSize/sortBy/order and validates
// them against the resource's sort whitelist. Malformed numbers clamp
// rather than fail; the builder owns the clamping rules.
func pageSpecFromQuery(q url.Values, whitelist []string) store.PageSpec {
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	return store.BuildPageSpec(q.Get("sortBy"), q.Get("order"), page, pageSize, whitelist)
}

// parseTimeParam accepts RFC 3339 timestamps or bare dates.
func parseTimeParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid time %q, want RFC 3339 or YYYY-MM-DD", raw)
}

func parseBoolParam(raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid boolean %q", raw)
	}
	return &b, nil
}

// imageFilesFromRequest collects the "files" parts of a multipart
// upload in submission order.
func imageFilesFromRequest(r *http.Request) ([]service.ImageFile, error) {
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		return nil, fmt.Errorf("no files provided")
	}

	headers := r.MultipartForm.File["files"]
	files := make([]service.ImageFile, 0, len(headers))
	for _, hdr := range headers {
		f, err := hdr.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %q: %w", hdr.Filename, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %q: %w", hdr.Filename, err)
		}

		contentType := hdr.Header.Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		files = append(files, service.ImageFile{Data: data, ContentType: contentType})
	}
	return files, nil
}
