package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cinevault/cinevault-server/internal/domain"
	domainerrors "github.com/cinevault/cinevault-server/internal/errors"
	"github.com/cinevault/cinevault-server/internal/http/response"
	"github.com/cinevault/cinevault-server/internal/service"
)

// posterField is the multipart field carrying the image.
const posterField = "poster"

// multipartOverhead is the allowance for multipart framing on top of the poster limit.
const multipartOverhead = 64 << 10

// registerPosterRoutes mounts the poster routes directly on chi so bodies
// stream in and out without JSON encoding.
func (s *Server) registerPosterRoutes() {
	s.router.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/posters/{imdbID}", s.handleGetPoster)
		r.Post("/posters/add/{imdbID}", s.handleUploadPoster)
	})
}

func (s *Server) handleGetPoster(w http.ResponseWriter, r *http.Request) {
	rc, err := s.services.Poster.Fetch(r.Context(), chi.URLParam(r, "imdbID"), identityFrom(r.Context()), queryKeys(r))
	if err != nil {
		s.writePosterError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", domain.PosterContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("Poster stream interrupted", "error", err)
	}
}

func (s *Server) handleUploadPoster(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.services.Poster.Limit()+multipartOverhead)

	var poster io.Reader
	part, err := posterPart(r)
	if err != nil {
		s.writePosterError(w, err)
		return
	}
	if part != nil {
		defer part.Close()
		poster = part
	}

	resp, err := s.services.Poster.Store(r.Context(), chi.URLParam(r, "imdbID"), identityFrom(r.Context()), poster, queryKeys(r))
	if err != nil {
		s.writePosterError(w, err)
		return
	}
	response.Success(w, resp, s.logger)
}

// posterPart advances the multipart body to the poster field. A request that
// is not multipart, or has no poster field, yields a nil part.
func posterPart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, nil
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return nil, domainerrors.Validation(service.MsgPosterRequired).WithCause(err)
		}
		if part.FormName() == posterField {
			return part, nil
		}
		part.Close()
	}
}

// writePosterError applies the poster-specific status rules before rendering.
func (s *Server) writePosterError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		err = domainerrors.PayloadTooLarge(service.MsgPosterTooLarge).WithCause(err)
	case errors.Is(err, domainerrors.ErrNotFound) && s.opts.PosterMissingStatus != http.StatusNotFound:
		err = domainerrors.Internal(service.MsgPosterNotFound).WithCause(err)
	}
	s.writeError(w, err)
}
