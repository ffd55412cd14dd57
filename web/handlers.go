package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"docanalyzer/llm/parser"
	"docanalyzer/llm/pipeline"
	"docanalyzer/llm/processor"
	"docanalyzer/report"
)

// analyzeResponse is returned by the analyze endpoints. Text is the
// extracted document text, sent back by clients with their questions.
type analyzeResponse struct {
	Report report.Report `json:"report"`
	Text   string        `json:"text"`
}

type analyzeTextRequest struct {
	Text string `json:"text"`
}

type askRequest struct {
	Text     string `json:"text"`
	Question string `json:"question"`
}

type indexData struct {
	Formats         []string
	Accept          string
	Capabilities    processor.Status
	SampleQuestions []string
	MaxUploadMB     int64
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	formats := s.extractor.SupportedFormats()
	accept := make([]string, len(formats))
	for i, f := range formats {
		accept[i] = "." + f
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := s.index.Execute(w, indexData{
		Formats:         formats,
		Accept:          strings.Join(accept, ","),
		Capabilities:    s.processor.Capabilities(),
		SampleQuestions: processor.SampleQuestions,
		MaxUploadMB:     s.extractor.MaxFileSize() >> 20,
	})
	if err != nil {
		s.logger.Error("render index", "error", err)
	}
}

// handleAnalyze reads a multipart upload in the "file" field.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.extractor.MaxFileSize()+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errors.New("upload too large"))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid upload: %w", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New(`missing "file" field`))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
		return
	}
	if int64(len(data)) > s.extractor.MaxFileSize() {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Errorf("upload too large: %d bytes (max %d)", len(data), s.extractor.MaxFileSize()))
		return
	}

	doc, err := s.extractor.ExtractBytes(r.Context(), data, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		s.logger.Debug("upload rejected", "file", header.Filename, "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	s.writeAnalysis(w, r, doc)
}

// handleAnalyzeText analyzes pasted text without a file.
func (s *Server) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req analyzeTextRequest
	if err := decodeJSON(w, r, &req, s.extractor.MaxFileSize()); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, errors.New("text is required"))
		return
	}

	s.writeAnalysis(w, r, &parser.ExtractedDocument{
		Text:     strings.TrimSpace(req.Text),
		Metadata: parser.Metadata{Pages: 1},
		Format:   parser.FileTypeTXT,
	})
}

func (s *Server) writeAnalysis(w http.ResponseWriter, r *http.Request, doc *parser.ExtractedDocument) {
	res := &pipeline.Result{
		Document: doc,
		Analysis: s.processor.AnalyzeDocument(r.Context(), doc.Text),
	}
	writeJSON(w, http.StatusOK, analyzeResponse{
		Report: report.New(res, nil),
		Text:   doc.Text,
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decodeJSON(w, r, &req, s.extractor.MaxFileSize()); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.processor.AnswerQuestion(r.Context(), req.Text, req.Question))
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"formats": s.extractor.SupportedFormats()})
}

func (s *Server) handleCapabilities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.processor.Capabilities())
}

// statusFor maps extraction errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, parser.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, parser.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, parser.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, parser.ErrExtraction):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
