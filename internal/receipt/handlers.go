package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/zombor/receipt-splitter/internal/parsing"
	"github.com/zombor/receipt-splitter/internal/splitting"
)

const (
	maxUploadSize = int64(50 << 20) // high-resolution phone photos
	maxBodySize   = int64(1 << 20)
)

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes an error response as {"error": message}
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps service errors to a status code and a message safe to
// show to the client
func errorStatus(err error) (int, string) {
	var verr *splitting.ValidationError
	var scanErr *ScanError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound, "Session not found"
	case errors.Is(err, ErrItemNotFound):
		return http.StatusNotFound, "Item not found"
	case errors.Is(err, ErrImageNotFound):
		return http.StatusNotFound, "Receipt image not found"
	case errors.Is(err, ErrNoScanner):
		return http.StatusServiceUnavailable, "Image scanning is not configured"
	case errors.Is(err, ErrNoItemsFound):
		return http.StatusUnprocessableEntity, noItemsMessage
	case errors.As(err, &scanErr):
		return http.StatusBadGateway, "Receipt scanner failed"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// handleServiceError logs unexpected errors and writes the mapped response
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("Error handling request", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, message)
}

// decodeBody reads a small JSON request body into v
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// respondSession writes the session or the mapped error
func respondSession(w http.ResponseWriter, r *http.Request, session splitting.Session, err error) {
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type textRequest struct {
	Text string `json:"text"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type stepRequest struct {
	Step splitting.Step `json:"step"`
}

// processingFailure is returned when a receipt could not be turned into
// items; the session carries the message to display.
type processingFailure struct {
	Error   string            `json:"error"`
	Session splitting.Session `json:"session"`
}

// handleParse parses receipt text without a session
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string][]parsing.Item{"items": s.service.Parse(req.Text)})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions()
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.CreateSession()
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.GetSession(r.PathValue("id"))
	respondSession(w, r, session, err)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteSession(r.PathValue("id")); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddParticipant(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	session, err := s.service.AddParticipant(r.PathValue("id"), req.Name)
	respondSession(w, r, session, err)
}

func (s *Server) handleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.RemoveParticipant(r.PathValue("id"), r.PathValue("name"))
	respondSession(w, r, session, err)
}

// handleUploadReceipt scans an uploaded receipt image into the session
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorMsg = "File is too large. Maximum size is 50MB. Please compress or resize your image."
		}
		writeError(w, http.StatusBadRequest, errorMsg)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		errorMsg := "No file provided"
		if errors.Is(err, http.ErrMissingFile) {
			errorMsg = "No file was selected. Please choose a file to upload."
		}
		writeError(w, http.StatusBadRequest, errorMsg)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	contentType := uploadContentType(header.Header.Get("Content-Type"), header.Filename)

	id := r.PathValue("id")
	session, err := s.service.ProcessReceiptImage(r.Context(), id, data, contentType)
	if err == nil {
		writeJSON(w, http.StatusOK, session)
		return
	}

	status, message := errorStatus(err)
	switch {
	case errors.Is(err, ErrNoItemsFound):
		writeJSON(w, status, processingFailure{Error: message, Session: session})
	case session.ID != "":
		// the session holds the message to show
		if status == http.StatusInternalServerError {
			slog.Error("Error processing receipt", "session_id", id, "error", err)
		}
		writeJSON(w, status, processingFailure{Error: session.ErrorMessage, Session: session})
	default:
		handleServiceError(w, r, err)
	}
}

// uploadContentType normalizes the declared content type of an upload,
// guessing from the file extension when none was sent
func uploadContentType(declared, filename string) string {
	contentType := strings.ToLower(strings.TrimSpace(declared))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

func (s *Server) handleGetReceiptImage(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.ReceiptImage(r.PathValue("id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleReceiptText parses OCR text into the session
func (s *Server) handleReceiptText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decodeBody(w, r, &req) {
		return
	}
	session, err := s.service.ProcessReceiptText(r.PathValue("id"), req.Text)
	if errors.Is(err, ErrNoItemsFound) {
		status, message := errorStatus(err)
		writeJSON(w, status, processingFailure{Error: message, Session: session})
		return
	}
	respondSession(w, r, session, err)
}

func (s *Server) handleToggleAssignment(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	session, err := s.service.ToggleAssignment(r.PathValue("id"), r.PathValue("itemID"), req.Name)
	respondSession(w, r, session, err)
}

func (s *Server) handleGoToStep(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if !decodeBody(w, r, &req) {
		return
	}
	session, err := s.service.GoToStep(r.PathValue("id"), req.Step)
	respondSession(w, r, session, err)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.Reset(r.PathValue("id"))
	respondSession(w, r, session, err)
}

func (s *Server) handleClearError(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.ClearError(r.PathValue("id"))
	respondSession(w, r, session, err)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.service.Results(r.PathValue("id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleResultsCSV(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data, err := s.service.ExportResultsCSV(id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%s.csv"`, id))
	w.Write(data)
}
