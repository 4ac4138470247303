package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/extract"
	"github.com/joseph-ayodele/docsum/internal/pipeline"
)

const maxFormMemory = 8 << 20

// readUpload parses the multipart request and stages the file under
// UploadDir. The returned Document's Release removes the staged copy; cleanup
// must always be called.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (doc extract.Document, req pipeline.Request, cleanup func(), err error) {
	cleanup = func() {}
	limit := int64(s.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit+maxFormMemory)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return doc, req, cleanup, common.TooLargeError(s.cfg.MaxUploadMB, err)
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			return doc, req, cleanup, common.NewAppError(common.CodeBadRequest, "Malformed upload.", err)
		}
	}
	if r.MultipartForm != nil {
		form := r.MultipartForm
		cleanup = func() { _ = form.RemoveAll() }
	}

	req = pipeline.Request{
		Length: formValue(r, "length"),
		Mode:   formValue(r, "modelType", "mode"),
	}

	fh := formFile(r, "file")
	if fh == nil {
		return doc, req, cleanup, nil
	}
	if fh.Size > limit {
		return doc, req, cleanup, common.TooLargeError(s.cfg.MaxUploadMB, nil)
	}

	path, data, err := s.stage(fh)
	if err != nil {
		return doc, req, cleanup, common.InternalAppError(err)
	}
	var once sync.Once
	release := func() {
		once.Do(func() {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				s.logger.Warn("upload.cleanup_failed", "path", path, "error", err)
			}
		})
	}
	prev := cleanup
	cleanup = func() { release(); prev() }

	doc = extract.Document{
		Filename:  fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Data:      data,
		Release:   release,
	}
	return doc, req, cleanup, nil
}

// stage copies the upload to a temp file and returns its path and bytes.
func (s *Server) stage(fh *multipart.FileHeader) (string, []byte, error) {
	src, err := fh.Open()
	if err != nil {
		return "", nil, fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = src.Close() }()

	dir := s.cfg.UploadDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create upload dir: %w", err)
	}
	dst, err := os.CreateTemp(dir, "upload-*")
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	path := dst.Name()
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		_ = os.Remove(path)
		return "", nil, fmt.Errorf("read temp file: %w", err)
	}
	return path, data, nil
}

// formValue returns the first non-empty value among names, matched case-insensitively.
func formValue(r *http.Request, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(r.FormValue(name)); v != "" {
			return v
		}
		if r.MultipartForm == nil {
			continue
		}
		for k, vs := range r.MultipartForm.Value {
			if strings.EqualFold(k, name) && len(vs) > 0 && strings.TrimSpace(vs[0]) != "" {
				return strings.TrimSpace(vs[0])
			}
		}
	}
	return ""
}

func formFile(r *http.Request, name string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	for k, fhs := range r.MultipartForm.File {
		if strings.EqualFold(k, name) && len(fhs) > 0 {
			return fhs[0]
		}
	}
	return nil
}
