package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/projecthub-api/internal/apperr"
	"github.com/noah-isme/projecthub-api/internal/authz"
	"github.com/noah-isme/projecthub-api/internal/dto"
	"github.com/noah-isme/projecthub-api/internal/models"
	"github.com/noah-isme/projecthub-api/internal/repository"
)

func stringPtr(v string) *string {
	return &v
}

func headAdminIdentity(college string) *authz.Identity {
	return &authz.Identity{
		Subject: "admin-1",
		Name:    "Morgan",
		Roles:   []authz.Role{authz.RoleHeadAdmin},
		Scope:   authz.Scope{CollegeID: stringPtr(college)},
	}
}

func newModerationFixture(t *testing.T) (ModerationService, *gorm.DB) {
	t.Helper()

	db := newServiceTestDB(t)
	audit := NewAuditService(repository.NewAuditLogRepository(db), nil, zerolog.Nop())
	svc := NewModerationService(
		repository.NewProjectRepository(db),
		repository.NewCommentRepository(db),
		audit,
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
	)
	return svc, db
}

func seedProject(t *testing.T, db *gorm.DB, college, department string) models.Project {
	t.Helper()

	project := models.Project{
		Title:      "Robotics Lab",
		Status:     models.ProjectStatusOpen,
		CollegeID:  college,
		Department: department,
		OwnerID:    "f-1",
		Capacity:   3,
	}
	require.NoError(t, db.Create(&project).Error)
	return project
}

func auditCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&count).Error)
	return count
}

func TestFlagProjectInsideScope(t *testing.T) {
	svc, db := newModerationFixture(t)
	project := seedProject(t, db, "C1", "cs")

	resp, err := svc.FlagProject(context.Background(), headAdminIdentity("C1"), project.ID, dto.ModerationRequest{Reason: "plagiarism report"})
	require.NoError(t, err)
	require.True(t, resp.Flagged)
	require.Equal(t, "plagiarism report", resp.FlagReason)

	require.EqualValues(t, 1, auditCount(t, db))

	var entry models.AuditLog
	require.NoError(t, db.First(&entry).Error)
	require.Equal(t, "flag_project", entry.Action)
	require.Equal(t, "admin-1", entry.ActorID)
	require.Equal(t, "C1", entry.ScopeID)
	require.Equal(t, false, entry.OldValues["flagged"])
	require.Equal(t, true, entry.NewValues["flagged"])
}

func TestFlagProjectOutsideScopeIsForbiddenWithoutAudit(t *testing.T) {
	svc, db := newModerationFixture(t)
	project := seedProject(t, db, "C2", "cs")

	_, err := svc.FlagProject(context.Background(), headAdminIdentity("C1"), project.ID, dto.ModerationRequest{Reason: "report"})
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.From(err).Kind)

	// Authorization failed before the action, so no audit entry exists.
	require.Zero(t, auditCount(t, db))

	var reloaded models.Project
	require.NoError(t, db.First(&reloaded, project.ID).Error)
	require.False(t, reloaded.Flagged)
}

func TestModerationRequiresAdminRole(t *testing.T) {
	svc, db := newModerationFixture(t)
	project := seedProject(t, db, "C1", "cs")

	student := &authz.Identity{Subject: "s-1", Roles: []authz.Role{authz.RoleStudent}}
	_, err := svc.FlagProject(context.Background(), student, project.ID, dto.ModerationRequest{Reason: "report"})
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.From(err).Kind)
	require.Zero(t, auditCount(t, db))
}

func TestSuperAdminModeratesAnyCollege(t *testing.T) {
	svc, db := newModerationFixture(t)
	project := seedProject(t, db, "C7", "physics")

	super := &authz.Identity{Subject: "root-1", Name: "Sam", Roles: []authz.Role{authz.RoleSuperAdmin}}
	resp, err := svc.ArchiveProject(context.Background(), super, project.ID, dto.ModerationRequest{Reason: "semester ended"})
	require.NoError(t, err)
	require.Equal(t, models.ProjectStatusArchived, resp.Status)
	require.EqualValues(t, 1, auditCount(t, db))
}

func TestUnflagProjectClearsReason(t *testing.T) {
	svc, db := newModerationFixture(t)
	project := seedProject(t, db, "C1", "cs")
	ctx := context.Background()
	admin := headAdminIdentity("C1")

	_, err := svc.FlagProject(ctx, admin, project.ID, dto.ModerationRequest{Reason: "report"})
	require.NoError(t, err)

	resp, err := svc.UnflagProject(ctx, admin, project.ID, dto.ModerationRequest{Reason: "resolved"})
	require.NoError(t, err)
	require.False(t, resp.Flagged)
	require.Empty(t, resp.FlagReason)
	require.EqualValues(t, 2, auditCount(t, db))
}

func TestRemoveCommentInsideScope(t *testing.T) {
	svc, db := newModerationFixture(t)
	project := seedProject(t, db, "C1", "cs")

	comment := models.Comment{ProjectID: project.ID, AuthorID: "s-1", Body: "off topic"}
	require.NoError(t, db.Create(&comment).Error)

	err := svc.RemoveComment(context.Background(), headAdminIdentity("C1"), comment.ID, dto.ModerationRequest{Reason: "off topic"})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	require.Zero(t, count)

	require.EqualValues(t, 1, auditCount(t, db))

	var entry models.AuditLog
	require.NoError(t, db.First(&entry).Error)
	require.Equal(t, "remove_comment", entry.Action)
	require.Equal(t, "off topic", entry.OldValues["body"])
}

func TestRemoveCommentOutsideScope(t *testing.T) {
	svc, db := newModerationFixture(t)
	project := seedProject(t, db, "C2", "cs")

	comment := models.Comment{ProjectID: project.ID, AuthorID: "s-1", Body: "spam"}
	require.NoError(t, db.Create(&comment).Error)

	err := svc.RemoveComment(context.Background(), headAdminIdentity("C1"), comment.ID, dto.ModerationRequest{Reason: "spam"})
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.From(err).Kind)
	require.Zero(t, auditCount(t, db))
}

func TestModerationUnknownProject(t *testing.T) {
	svc, _ := newModerationFixture(t)

	_, err := svc.FlagProject(context.Background(), headAdminIdentity("C1"), 999, dto.ModerationRequest{Reason: "report"})
	require.ErrorIs(t, err, ErrProjectNotFound)
}
