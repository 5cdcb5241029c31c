package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/RyanBlaney/dance-advisor/internal/style"
	"github.com/RyanBlaney/dance-advisor/internal/tempo"
	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/xeipuuv/gojsonschema"
)

const (
	maxSuggestBody     = 64 << 10
	multipartOverhead  = 1 << 20
	multipartMemoryMax = 32 << 20
)

var suggestSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"bpm"},
	"properties": map[string]interface{}{
		"bpm": map[string]interface{}{
			"type":    "number",
			"minimum": 0,
		},
		"genre": map[string]interface{}{
			"type":      "string",
			"maxLength": 64,
		},
	},
	"additionalProperties": false,
}

// SuggestRequest is the body of POST /v1/suggest
type SuggestRequest struct {
	BPM   float64 `json:"bpm"`
	Genre string  `json:"genre,omitempty"`
}

// AnalyzeResponse is the body returned by POST /v1/analyze
type AnalyzeResponse struct {
	RequestID  string           `json:"request_id"`
	BPM        float64          `json:"bpm"`
	BPMDisplay string           `json:"bpm_display"`
	Analysis   *tempo.Result    `json:"analysis"`
	Suggestion style.Suggestion `json:"suggestion"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	RequestID string   `json:"request_id"`
	Error     string   `json:"error"`
	Code      string   `json:"code,omitempty"`
	Details   []string `json:"details,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"genres":  style.Labels(),
		"default": string(style.AutoDetect),
	})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSuggestBody))
	if err != nil {
		s.writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large", "", nil)
		return
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid JSON body", "", nil)
		return
	}

	if details, err := validateSuggest(doc); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error(), "", details)
		return
	}

	var req SuggestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid JSON body", "", nil)
		return
	}

	s.writeJSON(w, http.StatusOK, s.resolver.Resolve(req.BPM, style.NormalizeGenre(req.Genre)))
}

func validateSuggest(doc interface{}) ([]string, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(suggestSchema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return errs, fmt.Errorf("request validation failed")
	}

	return nil, nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemoryMax); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, "upload exceeds size limit", tempo.CodeTooLarge, nil)
			return
		}
		s.writeError(w, r, http.StatusBadRequest, "parse form: "+err.Error(), "", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("audio")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "multipart field \"audio\" is required", "", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "failed to read upload", "", nil)
		return
	}

	genre := style.NormalizeGenre(r.FormValue("genre"))
	requestID := RequestIDFrom(r.Context())

	result, err := s.extractor.Extract(r.Context(), header.Filename, data)
	if err != nil {
		var de *tempo.DecodingError
		if errors.As(err, &de) {
			s.logger.Warn("Could not analyze upload", logging.Fields{
				"request_id": requestID,
				"filename":   header.Filename,
				"code":       de.Code,
				"error":      err.Error(),
			})
			if de.Code == tempo.CodeTooLarge {
				s.writeError(w, r, http.StatusRequestEntityTooLarge, "upload exceeds size limit", de.Code, []string{err.Error()})
				return
			}
			s.writeError(w, r, http.StatusUnprocessableEntity,
				"could not determine the tempo of this audio; try a different MP3, WAV or FLAC file", de.Code, []string{err.Error()})
			return
		}

		s.logger.Error(err, "Tempo extraction failed", logging.Fields{
			"request_id": requestID,
			"filename":   header.Filename,
		})
		s.writeError(w, r, http.StatusInternalServerError, "tempo extraction failed", "", nil)
		return
	}

	s.writeJSON(w, http.StatusOK, AnalyzeResponse{
		RequestID:  requestID,
		BPM:        result.BPM,
		BPMDisplay: fmt.Sprintf("%.2f", result.BPM),
		Analysis:   result,
		Suggestion: s.resolver.Resolve(result.BPM, genre),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(err, "Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg, code string, details []string) {
	s.writeJSON(w, status, ErrorResponse{
		RequestID: RequestIDFrom(r.Context()),
		Error:     msg,
		Code:      code,
		Details:   details,
	})
}
