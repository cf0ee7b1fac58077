package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/projecthub-api/internal/dto"
	"github.com/noah-isme/projecthub-api/internal/models"
	"github.com/noah-isme/projecthub-api/internal/observability"
	"github.com/noah-isme/projecthub-api/internal/repository"
)

// AuditEntry captures the details of one moderation action.
type AuditEntry struct {
	ActorID    string
	ActorName  string
	Action     string
	EntityType string
	EntityID   *uint
	OldValues  map[string]interface{}
	NewValues  map[string]interface{}
	Reason     string
	ScopeID    string
}

// AuditRecorder records moderation actions without ever failing the caller.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// AuditService records and queries the moderation audit trail.
type AuditService interface {
	AuditRecorder
	List(ctx context.Context, req dto.AuditListRequest) ([]dto.AuditEntryResponse, int64, error)
}

type auditService struct {
	repo    repository.AuditLogRepository
	nats    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewAuditService constructs the audit service. The NATS connection is
// optional; when present, every recorded entry is also published as a
// best-effort event.
func NewAuditService(repo repository.AuditLogRepository, natsConn *nats.Conn, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:    repo,
		nats:    natsConn,
		subject: "projecthub.moderation.audit",
		logger:  logger.With().Str("component", "audit_service").Logger(),
	}
}

// Record persists the entry and publishes it to the event side channel. Every
// failure is swallowed after logging: an audit-trail outage must not block
// the moderation action it describes.
func (s *auditService) Record(ctx context.Context, entry AuditEntry) {
	action := strings.ToLower(strings.TrimSpace(entry.Action))
	entityType := strings.ToLower(strings.TrimSpace(entry.EntityType))
	if entry.ActorID == "" || action == "" || entityType == "" {
		s.logger.Warn().
			Str("actor_id", entry.ActorID).
			Str("action", action).
			Msg("dropping incomplete audit entry")
		return
	}

	model := models.AuditLog{
		ActorID:    entry.ActorID,
		ActorName:  entry.ActorName,
		Action:     action,
		EntityType: entityType,
		EntityID:   entry.EntityID,
		OldValues:  datatypes.JSONMap(entry.OldValues),
		NewValues:  datatypes.JSONMap(entry.NewValues),
		Reason:     strings.TrimSpace(entry.Reason),
		ScopeID:    entry.ScopeID,
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		observability.AuditFailures().Inc()
		s.logger.Error().Err(err).
			Str("actor_id", entry.ActorID).
			Str("action", action).
			Msg("failed to persist audit entry")
		return
	}

	s.publish(model)
}

func (s *auditService) publish(model models.AuditLog) {
	if s.nats == nil {
		return
	}

	payload, err := json.Marshal(dto.NewAuditEntryResponse(model))
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode audit event")
		return
	}

	if err := s.nats.Publish(s.subject, payload); err != nil {
		s.logger.Warn().Err(err).Str("subject", s.subject).Msg("failed to publish audit event")
	}
}

func (s *auditService) List(ctx context.Context, req dto.AuditListRequest) ([]dto.AuditEntryResponse, int64, error) {
	filter := repository.AuditLogFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		ActorID:    strings.TrimSpace(req.ActorID),
		Action:     strings.ToLower(strings.TrimSpace(req.Action)),
		EntityType: strings.ToLower(strings.TrimSpace(req.EntityType)),
		ScopeID:    strings.TrimSpace(req.ScopeID),
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return dto.NewAuditEntryResponses(entries), total, nil
}
