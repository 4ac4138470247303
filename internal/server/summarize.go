package server

import (
	"fmt"
	"net/http"

	"github.com/joseph-ayodele/docsum/internal/common"
	"github.com/joseph-ayodele/docsum/internal/export"
)

// handleSummarize serves POST /api/summarize.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	doc, req, cleanup, err := s.readUpload(w, r)
	defer cleanup()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.pipe.Run(r.Context(), doc, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleExport serves POST /api/summarize/export?format=txt|xlsx|json.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, ok := export.ParseFormat(r.URL.Query().Get("format"))
	if !ok {
		s.writeError(w, r, common.NewAppError(common.CodeBadRequest, "Invalid format. Must be 'txt', 'xlsx', or 'json'.", nil))
		return
	}

	doc, req, cleanup, err := s.readUpload(w, r)
	defer cleanup()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.pipe.Run(r.Context(), doc, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := s.exporter.Render(r.Context(), format, []export.Row{{Source: doc.Filename, Result: res}})
	if err != nil {
		s.writeError(w, r, common.InternalAppError(err))
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
