package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"docquiz"

	"github.com/go-chi/chi/v5"
)

// multipart overhead allowed on top of the document itself
const formOverhead = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		docquiz.Logger().Warnw("Failed to encode response", "error", err)
	}
}

func statusFor(err error) int {
	switch docquiz.KindOf(err) {
	case docquiz.KindInvalidInput:
		return http.StatusBadRequest
	case docquiz.KindNotFound:
		return http.StatusNotFound
	case docquiz.KindStateConflict:
		return http.StatusConflict
	case docquiz.KindParse, docquiz.KindGeneration:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		docquiz.Logger().Errorw("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	} else {
		docquiz.Logger().Infow("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{
		"error": msg,
		"kind":  string(docquiz.KindOf(err)),
	})
}

func badRequest(format string, args ...interface{}) error {
	return docquiz.Errorf(docquiz.KindInvalidInput, "request", format, args...)
}

func (s *Server) handleCreateQuestionSet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, docquiz.MaxUploadSize+formOverhead)
	if err := r.ParseMultipartForm(formOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, badRequest("upload exceeds %d bytes", docquiz.MaxUploadSize))
			return
		}
		writeError(w, r, badRequest("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, badRequest("file is required"))
		return
	}
	defer file.Close()

	// one byte past the limit lets ExtractText report the oversize
	data, err := io.ReadAll(io.LimitReader(file, docquiz.MaxUploadSize+1))
	if err != nil {
		writeError(w, r, badRequest("failed to read upload: %v", err))
		return
	}

	count := 10
	if v := r.FormValue("questionCount"); v != "" {
		count, err = strconv.Atoi(v)
		if err != nil {
			writeError(w, r, badRequest("questionCount must be a number"))
			return
		}
	}

	types, err := docquiz.ParseQuestionTypes(r.MultipartForm.Value["questionTypes"]...)
	if err != nil {
		writeError(w, r, err)
		return
	}

	subject := strings.TrimSpace(r.FormValue("subject"))
	if subject == "" {
		writeError(w, r, badRequest("subject is required"))
		return
	}

	set, err := s.generator.CreateQuestionSet(r.Context(), docquiz.UploadRequest{
		Filename:      header.Filename,
		MediaType:     uploadMediaType(header.Header.Get("Content-Type"), header.Filename),
		Data:          data,
		Subject:       subject,
		QuestionCount: count,
		QuestionTypes: types,
		Tone:          r.FormValue("tone"),
		Difficulty:    r.FormValue("difficulty"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, set)
}

// uploadMediaType trusts the part header unless the browser sent a generic type
func uploadMediaType(contentType, filename string) string {
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return docquiz.MediaTypePDF
	case ".txt", ".md", ".text":
		return docquiz.MediaTypeText
	}
	return contentType
}

func (s *Server) handleListQuestionSets(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, badRequest("limit must be a non-negative number"))
			return
		}
		limit = n
	}

	sets, err := s.db.ListQuestionSets(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if sets == nil {
		sets = []docquiz.QuestionSet{}
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleGetQuestionSet(w http.ResponseWriter, r *http.Request) {
	set, err := s.db.GetQuestionSet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleDeleteQuestionSet(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteQuestionSet(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportQuestionSet(w http.ResponseWriter, r *http.Request) {
	set, err := s.db.GetQuestionSet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	answers := r.URL.Query().Get("answers") != "false"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "questions-"+set.ID+".pdf"))
	if err := docquiz.ExportPDF(w, set, docquiz.ExportOptions{FontPath: s.fontPath, IncludeAnswers: answers}); err != nil {
		// headers are already out, only log
		docquiz.Logger().Errorw("PDF export failed", "set", set.ID, "error", err)
	}
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	learner, err := s.learnerID(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	session, err := s.practice.StartSession(r.Context(), chi.URLParam(r, "id"), learner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	learner, err := s.learnerID(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sessions, err := s.practice.ListSessions(r.Context(), learner)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []docquiz.PracticeSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.practice.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type submitAnswerRequest struct {
	QuestionID string              `json:"questionId"`
	Selected   docquiz.AnswerList `json:"selected"`
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, r, badRequest("invalid JSON body: %v", err))
		return
	}
	if req.QuestionID == "" {
		writeError(w, r, badRequest("questionId is required"))
		return
	}

	result, err := s.practice.SubmitAnswer(r.Context(), chi.URLParam(r, "id"), req.QuestionID, req.Selected)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.practice.CompleteSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
