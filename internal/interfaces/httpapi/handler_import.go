package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/riskibarqy/bet-tracker/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const maxImportBodyBytes = 8 << 20

// ImportBets accepts CSV either as a multipart upload under the "file" field
// or as the raw request body.
func (h *Handler) ImportBets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportBets")
	defer span.End()

	reader, err := importBodyReader(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(reader, maxImportBodyBytes+1)); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read import body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if buf.Len() > maxImportBodyBytes {
		writeError(ctx, w, fmt.Errorf("%w: import body exceeds %d bytes", usecase.ErrInvalidInput, maxImportBodyBytes))
		return
	}

	userID := requestUserID(r)
	result, err := h.importService.ImportCSV(ctx, bytes.NewReader(buf.B), userID)
	if err != nil {
		h.logger.WarnContext(ctx, "csv import failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func importBodyReader(r *http.Request) (io.Reader, error) {
	contentType := strings.TrimSpace(r.Header.Get("Content-Type"))
	if contentType == "" {
		return r.Body, nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid Content-Type: %v", usecase.ErrInvalidInput, err)
	}
	if mediaType != "multipart/form-data" {
		return r.Body, nil
	}

	if err := r.ParseMultipartForm(maxImportBodyBytes); err != nil {
		return nil, fmt.Errorf("%w: parse multipart form: %v", usecase.ErrInvalidInput, err)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("%w: missing file field: %v", usecase.ErrInvalidInput, err)
	}

	return file, nil
}
