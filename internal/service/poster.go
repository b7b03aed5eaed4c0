package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cinevault/cinevault-server/internal/domain"
	domainerrors "github.com/cinevault/cinevault-server/internal/errors"
	"github.com/cinevault/cinevault-server/internal/media/posters"
	"github.com/cinevault/cinevault-server/internal/validation"
)

// Messages returned by PosterService.
const (
	MsgPosterUploaded = "Poster Uploaded Successfully"
	MsgPosterNotFound = "Poster not found"
	MsgPosterRequired = "Poster file is required"
	MsgPosterTooLarge = "Poster exceeds the maximum upload size"
	MsgPosterStorage  = "Poster storage failed"
	MsgInvalidIMDbID  = "Invalid imdbID"
	MsgNoIdentity     = "Authentication required"
)

// PosterService stores and serves one poster per (imdbID, user) pair.
type PosterService struct {
	storage   posters.Storage
	limit     int64
	validator *validation.Validator
	logger    *slog.Logger
}

// NewPosterService creates a poster service. A non-positive limit falls back
// to domain.DefaultPosterLimit.
func NewPosterService(storage posters.Storage, limit int64, logger *slog.Logger) *PosterService {
	if logger == nil {
		logger = slog.Default()
	}
	if limit <= 0 {
		limit = domain.DefaultPosterLimit
	}
	return &PosterService{
		storage:   storage,
		limit:     limit,
		validator: validation.New(),
		logger:    logger,
	}
}

// Limit returns the maximum accepted poster size in bytes.
func (s *PosterService) Limit() int64 {
	return s.limit
}

// UploadResponse is returned by a successful Store.
type UploadResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// posterRef is the validated pair a poster key is derived from.
type posterRef struct {
	IMDbID string `json:"imdbID" validate:"required,imdbid"`
	Email  string `json:"email" validate:"required,nopath"`
}

func (s *PosterService) key(imdbID string, identity domain.Identity, queryKeys []string) (string, error) {
	if len(queryKeys) > 0 {
		return "", domainerrors.Validation(MsgQueryNotPermitted)
	}
	if identity.Email == "" {
		return "", domainerrors.Unauthorized(MsgNoIdentity)
	}

	ref := posterRef{IMDbID: imdbID, Email: identity.Email}
	if failed := s.validator.Check(ref); failed != nil {
		if _, ok := failed["imdbID"]; ok {
			return "", domainerrors.Validation(MsgInvalidIMDbID)
		}
		return "", domainerrors.Unauthorized(MsgTokenInvalid)
	}
	return domain.PosterKey(ref.IMDbID, ref.Email), nil
}

// Fetch opens the caller's poster for imdbID. The caller closes the reader.
func (s *PosterService) Fetch(ctx context.Context, imdbID string, identity domain.Identity, queryKeys []string) (io.ReadCloser, error) {
	key, err := s.key(imdbID, identity, queryKeys)
	if err != nil {
		return nil, err
	}

	rc, err := s.storage.Open(ctx, key)
	if errors.Is(err, posters.ErrNotFound) {
		return nil, domainerrors.NotFound(MsgPosterNotFound).WithCause(err)
	}
	if err != nil {
		s.logger.Error("poster read failed", "key", key, "error", err)
		return nil, domainerrors.Storage(MsgPosterStorage).WithCause(err)
	}
	return rc, nil
}

// Store replaces the caller's poster for imdbID with the content of r. At
// most limit bytes are accepted; nothing is written when r is larger.
func (s *PosterService) Store(ctx context.Context, imdbID string, identity domain.Identity, r io.Reader, queryKeys []string) (*UploadResponse, error) {
	key, err := s.key(imdbID, identity, queryKeys)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domainerrors.Validation(MsgPosterRequired)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, s.limit+1))
	if err != nil {
		return nil, domainerrors.Validation("failed to read poster").WithCause(err)
	}
	if n > s.limit {
		return nil, domainerrors.PayloadTooLarge(MsgPosterTooLarge).WithDetails(map[string]int64{"limit": s.limit})
	}
	if n == 0 {
		return nil, domainerrors.Validation(MsgPosterRequired)
	}

	if err := s.storage.Put(ctx, key, buf.Bytes()); err != nil {
		s.logger.Error("poster write failed", "key", key, "error", err)
		return nil, domainerrors.Storage(MsgPosterStorage).WithCause(fmt.Errorf("put %s: %w", key, err))
	}

	s.logger.Info("poster stored", "imdb_id", imdbID, "email", identity.Email, "bytes", n)
	return &UploadResponse{Error: false, Message: MsgPosterUploaded}, nil
}
