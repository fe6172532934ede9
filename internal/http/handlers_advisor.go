package http

import (
	"io"
	"net/http"
	"time"
)

const maxReceiptSize = 10 << 20 // 10 MiB

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	suggestions, err := s.advisor.GenerateSuggestions(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, suggestions)
}

type receiptScanResponse struct {
	Amount       string `json:"amount"`
	Date         string `json:"date"`
	Description  string `json:"description"`
	MerchantName string `json:"merchantName"`
	Category     string `json:"category"`
}

// handleReceiptScan accepts a multipart upload under the "receipt"
// field and returns the extracted transaction fields.
func (s *Server) handleReceiptScan(w http.ResponseWriter, r *http.Request) {
	if _, err := s.currentUser(r); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form: " + err.Error()})
		return
	}
	file, header, err := r.FormFile("receipt")
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing receipt file"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxReceiptSize))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "reading receipt file: " + err.Error()})
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}

	data, err := s.advisor.ExtractReceipt(r.Context(), image, mimeType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, receiptScanResponse{
		Amount:       data.Amount.StringFixed(2),
		Date:         data.Date.UTC().Format(time.RFC3339),
		Description:  data.Description,
		MerchantName: data.MerchantName,
		Category:     data.Category,
	})
}
