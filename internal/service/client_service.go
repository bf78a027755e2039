package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
	"github.com/MinkyAI/reviews-platform-sub001/internal/media"
	"github.com/MinkyAI/reviews-platform-sub001/internal/repository/ports"
)

var ErrLogoValidation = errors.New("logo validation failed")

const defaultMaxLogoBytes = int64(2 * 1024 * 1024)

var allowedLogoMIMEs = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

type ClientService struct {
	clients   ports.ClientRepository
	users     ports.UserRepository
	storage   ports.ObjectStorage
	processor media.Processor

	bucket       string
	maxLogoBytes int64
	maxDimension int
	now          func() time.Time
}

type LogoUpload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

func NewClientService(clients ports.ClientRepository, users ports.UserRepository, storage ports.ObjectStorage, processor media.Processor, bucket string, maxLogoBytes int64, maxDimension int) *ClientService {
	if maxLogoBytes <= 0 {
		maxLogoBytes = defaultMaxLogoBytes
	}
	if maxDimension <= 0 {
		maxDimension = media.DefaultLogoDimension
	}
	return &ClientService{
		clients:      clients,
		users:        users,
		storage:      storage,
		processor:    processor,
		bucket:       strings.TrimSpace(bucket),
		maxLogoBytes: maxLogoBytes,
		maxDimension: maxDimension,
		now:          time.Now,
	}
}

func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

func (s *ClientService) GetBySlug(ctx context.Context, slug string) (*domain.Client, error) {
	client, err := s.clients.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// ListUsers returns the tenant's team roster, paginated.
func (s *ClientService) ListUsers(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]domain.User, error) {
	limit, offset = normalizePagination(limit, offset)
	return s.users.ListByClient(ctx, clientID, limit, offset)
}

// UploadLogo downscales the image and stores it under a timestamped key, so
// stale CDN caches never shadow a newer logo.
func (s *ClientService) UploadLogo(ctx context.Context, clientID uuid.UUID, upload LogoUpload) (*domain.Client, error) {
	if upload.Reader == nil || upload.Size <= 0 {
		return nil, fmt.Errorf("%w: empty upload", ErrLogoValidation)
	}
	if upload.Size > s.maxLogoBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrLogoValidation, s.maxLogoBytes)
	}
	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if _, ok := allowedLogoMIMEs[contentType]; !ok {
		return nil, fmt.Errorf("%w: unsupported content type %s", ErrLogoValidation, contentType)
	}

	if _, err := s.Get(ctx, clientID); err != nil {
		return nil, err
	}

	result, err := s.processor.Process(ctx, media.Upload{
		Reader:      upload.Reader,
		Size:        upload.Size,
		FileName:    upload.FileName,
		ContentType: contentType,
	}, s.maxDimension)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogoValidation, err)
	}

	ext := strings.ToLower(filepath.Ext(upload.FileName))
	if ext == "" {
		ext = ".png"
	}
	objectName := fmt.Sprintf("logos/%s/%d%s", clientID, s.now().UnixNano(), ext)

	url, err := s.storage.Upload(ctx, s.bucket, objectName, result.ContentType, bytes.NewReader(result.Bytes), int64(len(result.Bytes)))
	if err != nil {
		return nil, err
	}

	client, err := s.clients.UpdateLogoURL(ctx, clientID, url)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}
