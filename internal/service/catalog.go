package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"docmarket/internal/model"
	"docmarket/internal/repository"
	"docmarket/internal/storage"
)

const (
	defaultAuthor  = "Unknown"
	pdfContentType = "application/pdf"
)

// UploadInput carries a new document's content and metadata.
type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	Title       string
	Author      string
	Category    string
	Description string
	Price       model.Money
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// CatalogService manages documents and their blobs.
type CatalogService interface {
	// Upload stores the blob, then the metadata, and removes the blob again if the metadata write fails.
	Upload(ctx context.Context, in UploadInput) (*model.Document, error)

	// List returns documents newest first, optionally filtered by category (case-insensitive).
	List(ctx context.Context, category string, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// Delete removes the document row. A blob that cannot be removed is logged and left behind.
	Delete(ctx context.Context, id string) error

	// ResolveURL returns a time-limited URL for the document's content.
	ResolveURL(ctx context.Context, doc *model.Document) (string, error)

	// Open streams the document's content.
	Open(ctx context.Context, doc *model.Document) (io.ReadCloser, storage.ObjectInfo, error)
}

type catalogService struct {
	store  storage.Storage
	repo   repository.DocumentRepository
	urlTTL time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewCatalogService constructs a new CatalogService.
func NewCatalogService(store storage.Storage, repo repository.DocumentRepository, urlTTL time.Duration, logger *slog.Logger) CatalogService {
	return &catalogService{store: store, repo: repo, urlTTL: urlTTL, logger: logger, now: time.Now}
}

func validateUpload(in *UploadInput) error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Reader, validation.NotNil),
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Category, validation.Required, validation.Length(1, 64)),
		validation.Field(&in.Author, validation.Length(0, 120)),
		validation.Field(&in.Description, validation.Length(0, 2000)),
		validation.Field(&in.Filename, validation.Required, validation.By(isPDF(in.ContentType))),
		validation.Field(&in.Price, validation.By(func(v any) error {
			if v.(model.Money).Amount < 0 {
				return errors.New("must not be negative")
			}
			return nil
		})),
	)
}

func isPDF(contentType string) validation.RuleFunc {
	return func(v any) error {
		name, _ := v.(string)
		ct, _, _ := strings.Cut(contentType, ";")
		if strings.EqualFold(path.Ext(name), ".pdf") || strings.EqualFold(strings.TrimSpace(ct), pdfContentType) {
			return nil
		}
		return errors.New("must be a PDF document")
	}
}

func (s *catalogService) Upload(ctx context.Context, in UploadInput) (*model.Document, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	in.Author = strings.TrimSpace(in.Author)
	if err := validateUpload(&in); err != nil {
		return nil, validationErr(err)
	}
	if in.Author == "" {
		in.Author = defaultAuthor
	}

	id := uuid.New().String()
	key := path.Join("documents", id+".pdf")

	objInfo, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: pdfContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: upload to storage: %w", ErrStorageFailure, err)
	}

	doc := &model.Document{
		ID:          id,
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		BlobRef:     objInfo.Key,
		Filename:    path.Base(in.Filename),
		Size:        objInfo.Size,
		ContentType: pdfContentType,
		CreatedAt:   s.now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		if delErr := s.store.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			return nil, fmt.Errorf("%w: db save failed: %v; rollback delete failed: %v", ErrStorageFailure, err, delErr)
		}
		return nil, fmt.Errorf("%w: db save failed: %w", ErrStorageFailure, err)
	}

	s.logger.Info("document uploaded", "document_id", stored.ID, "price", stored.Price.String(), "size", stored.Size)
	return stored, nil
}

func (s *catalogService) List(ctx context.Context, category string, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.DocumentFilter{Category: strings.TrimSpace(category)}, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, storageErr(err)
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *catalogService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, validationErr(errors.New("id: cannot be blank"))
	}
	return findDocument(ctx, s.repo, id)
}

func (s *catalogService) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, doc.BlobRef); err != nil {
		s.logger.Warn("blob delete failed, removing metadata anyway",
			"document_id", doc.ID,
			"blob_ref", doc.BlobRef,
			"error", err.Error(),
		)
	}
	if err := s.repo.Delete(ctx, doc.ID); err != nil {
		return storageErr(err)
	}
	s.logger.Info("document deleted", "document_id", doc.ID)
	return nil
}

func (s *catalogService) ResolveURL(ctx context.Context, doc *model.Document) (string, error) {
	u, err := s.store.PresignGet(ctx, doc.BlobRef, s.urlTTL)
	if err != nil {
		if errors.Is(err, storage.ErrPresignUnsupported) {
			return "", err
		}
		return "", fmt.Errorf("%w: presign: %w", ErrStorageFailure, err)
	}
	return u, nil
}

func (s *catalogService) Open(ctx context.Context, doc *model.Document) (io.ReadCloser, storage.ObjectInfo, error) {
	rc, info, err := s.store.Get(ctx, doc.BlobRef)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.ObjectInfo{}, ErrNotFound
		}
		return nil, storage.ObjectInfo{}, fmt.Errorf("%w: open blob: %w", ErrStorageFailure, err)
	}
	return rc, info, nil
}
