package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/projecthub-api/internal/apperr"
	"github.com/noah-isme/projecthub-api/internal/authz"
	"github.com/noah-isme/projecthub-api/internal/dto"
	"github.com/noah-isme/projecthub-api/internal/models"
	"github.com/noah-isme/projecthub-api/internal/repository"
)

var (
	// ErrAttachmentNotFound indicates the attachment does not exist.
	ErrAttachmentNotFound = errors.New("attachment not found")
	// ErrAttachmentTooLarge indicates the payload exceeded the configured limit.
	ErrAttachmentTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrAttachmentTypeNotAllowed indicates the MIME type is not permitted.
	ErrAttachmentTypeNotAllowed = errors.New("file type not allowed")
)

var allowedAttachmentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/zip":    {},
	"image/png":          {},
	"image/jpeg":         {},
	"image/gif":          {},
	"text/plain":         {},
	"text/csv":           {},
	"text/markdown":      {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// AttachmentService validates, stores and records file attachments.
type AttachmentService interface {
	Upload(ctx context.Context, identity *authz.Identity, projectID uint, taskID *uint, file *multipart.FileHeader) (dto.AttachmentResponse, error)
	ListByProject(ctx context.Context, projectID uint) ([]dto.AttachmentResponse, error)
	Delete(ctx context.Context, identity *authz.Identity, id uint) error
}

type attachmentService struct {
	storage  FileStorage
	repo     repository.AttachmentRepository
	projects repository.ProjectRepository
	logger   zerolog.Logger
	maxSize  int64
	tracer   trace.Tracer
}

// NewAttachmentService constructs the attachment service.
func NewAttachmentService(storage FileStorage, repo repository.AttachmentRepository, projects repository.ProjectRepository, maxSizeMB int, logger zerolog.Logger) AttachmentService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &attachmentService{
		storage:  storage,
		repo:     repo,
		projects: projects,
		logger:   logger.With().Str("component", "attachment_service").Logger(),
		maxSize:  int64(maxSizeMB) * 1024 * 1024,
		tracer:   otel.Tracer("github.com/noah-isme/projecthub-api/internal/service/attachment"),
	}
}

func (s *attachmentService) Upload(ctx context.Context, identity *authz.Identity, projectID uint, taskID *uint, file *multipart.FileHeader) (dto.AttachmentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "attachment.upload")
	defer span.End()

	if identity == nil {
		return dto.AttachmentResponse{}, apperr.Unauthenticated("authentication required")
	}

	if file == nil {
		err := errors.New("file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.AttachmentResponse{}, err
	}

	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttachmentResponse{}, ErrProjectNotFound
		}
		return dto.AttachmentResponse{}, err
	}

	span.SetAttributes(
		attribute.String("attachment.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("attachment.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		span.RecordError(ErrAttachmentTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.AttachmentResponse{}, ErrAttachmentTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.AttachmentResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.AttachmentResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		span.RecordError(ErrAttachmentTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.AttachmentResponse{}, ErrAttachmentTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	contentType := normalizeMime(mime.String())
	span.SetAttributes(attribute.String("attachment.detected_mime", contentType))
	if _, ok := allowedAttachmentTypes[contentType]; !ok {
		span.RecordError(ErrAttachmentTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.AttachmentResponse{}, ErrAttachmentTypeNotAllowed
	}

	checksum := sha256.Sum256(buf.Bytes())
	sanitizedName := sanitizeFileName(file.Filename)

	url, err := s.storage.Upload(ctx, sanitizedName, bytes.NewReader(buf.Bytes()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.AttachmentResponse{}, err
	}

	attachment := models.Attachment{
		ProjectID:   projectID,
		TaskID:      taskID,
		FileName:    sanitizedName,
		FileURL:     url,
		ContentType: contentType,
		SizeBytes:   int64(buf.Len()),
		Checksum:    hex.EncodeToString(checksum[:]),
		UploadedBy:  identity.Subject,
	}

	if err := s.repo.Create(ctx, &attachment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		s.logger.Error().Err(err).Uint("project_id", projectID).Msg("failed to persist attachment")
		return dto.AttachmentResponse{}, err
	}

	span.SetStatus(codes.Ok, "stored")
	return dto.NewAttachmentResponse(attachment), nil
}

func (s *attachmentService) ListByProject(ctx context.Context, projectID uint) ([]dto.AttachmentResponse, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	attachments, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return dto.NewAttachmentResponses(attachments), nil
}

// Delete removes an attachment record. Uploaders may remove their own;
// admins may remove any attachment inside their scope.
func (s *attachmentService) Delete(ctx context.Context, identity *authz.Identity, id uint) error {
	if identity == nil {
		return apperr.Unauthenticated("authentication required")
	}

	attachment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return err
	}

	if attachment.UploadedBy != identity.Subject {
		project, err := s.projects.GetByID(ctx, attachment.ProjectID)
		if err != nil {
			return err
		}
		if !identity.IsAdminFor(project.CollegeID, project.Department) {
			return apperr.Forbidden("not allowed to delete this attachment")
		}
	}

	return s.repo.Delete(ctx, id)
}

func normalizeMime(value string) string {
	if idx := strings.Index(value, ";"); idx >= 0 {
		value = value[:idx]
	}
	return strings.ToLower(strings.TrimSpace(value))
}

func sanitizeFileName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}, base)

	if base == "" || base == "." {
		base = "attachment"
	}
	return base
}
