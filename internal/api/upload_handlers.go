package api

import (
	"encoding/json/v2"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/readwellapp/readwell-server/internal/domain"
	domainerrors "github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/objstore"
)

// The upload endpoints are plain chi handlers because huma does not handle
// multipart forms well. They still produce the standard envelopes by hand.
func (s *Server) registerUploadRoutes() {
	s.router.Post("/api/upload/font", s.assetUploadHandler(objstore.KindFont))
	s.router.Post("/api/upload/sound", s.assetUploadHandler(objstore.KindSound))
	s.router.Post("/api/upload/image", s.assetUploadHandler(objstore.KindImage))
	s.router.Post("/api/upload/book", s.handleUploadBook)
}

// UploadedAsset is the success body for asset uploads.
type UploadedAsset struct {
	URL string `json:"url"`
}

// UploadedBook is the success body for book file uploads.
type UploadedBook struct {
	Book     *domain.Book      `json:"book"`
	Chapters []*domain.Chapter `json:"chapters"`
}

func (s *Server) assetUploadHandler(kind objstore.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := GetUserID(r.Context()); err != nil {
			writeError(w, r, domainerrors.CodeUnauthorized, "authentication required")
			return
		}

		file, header, err := openFormFile(w, r)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		defer file.Close()

		url, err := s.services.Uploads.UploadAsset(r.Context(), kind,
			header.Filename, header.Header.Get("Content-Type"), header.Size, file)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		writeData(w, r, http.StatusCreated, &UploadedAsset{URL: url})
	}
}

func (s *Server) handleUploadBook(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserID(r.Context())
	if err != nil {
		writeError(w, r, domainerrors.CodeUnauthorized, "authentication required")
		return
	}

	file, header, err := openFormFile(w, r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	defer file.Close()

	book, chapters, err := s.services.Uploads.UploadBook(r.Context(), userID,
		header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeData(w, r, http.StatusCreated, &UploadedBook{Book: book, Chapters: chapters})
}

// openFormFile parses the multipart form and returns the "file" field. The
// per-kind size policies run in the service; this only bounds form parsing.
func openFormFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(uploadBodyLimit); err != nil {
		return nil, nil, domainerrors.PayloadTooLarge("could not parse form data, the upload may exceed the size limit")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, domainerrors.Validation("no file uploaded, use the 'file' field in a multipart form")
	}
	return file, header, nil
}

// writeData renders the success envelope for the chi-native handlers.
func writeData(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.MarshalWrite(w, &Envelope{Data: v})
}

// writeServiceError renders a domain error the same way the huma error
// handler would.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *domainerrors.Error
	if domainerrors.As(err, &domainErr) {
		status := domainErr.HTTPStatus()
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.MarshalWrite(w, &APIError{
			status:     status,
			ErrorCode:  string(domainErr.Code),
			Message:    domainErr.Message,
			StatusCode: status,
			RequestID:  middleware.GetReqID(r.Context()),
			Details:    domainErr.Details,
		})
		return
	}

	s.log.Error("upload failed", "error", err, "path", r.URL.Path)
	writeError(w, r, domainerrors.CodeInternal, "upload failed")
}
