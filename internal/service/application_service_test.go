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

func newApplicationFixture(t *testing.T) (ApplicationService, *gorm.DB) {
	t.Helper()

	db := newServiceTestDB(t)
	svc := NewApplicationService(
		repository.NewApplicationRepository(db),
		repository.NewProjectRepository(db),
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
	)
	return svc, db
}

func ownerIdentity() *authz.Identity {
	return &authz.Identity{Subject: "f-1", Name: "Dr. Lee", Roles: []authz.Role{authz.RoleFaculty}}
}

func TestApplyToOpenProject(t *testing.T) {
	svc, db := newApplicationFixture(t)
	project := seedProject(t, db, "C1", "cs")

	resp, err := svc.Apply(context.Background(), studentIdentity(), dto.ApplicationCreateRequest{
		ProjectID: project.ID,
		Statement: "I built a robot last summer.",
	})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusPending, resp.Status)
	require.Equal(t, "s-1", resp.StudentID)
}

func TestApplyToClosedProject(t *testing.T) {
	svc, db := newApplicationFixture(t)

	project := models.Project{Title: "Closed", Status: models.ProjectStatusDraft, CollegeID: "C1", Department: "cs", OwnerID: "f-1", Capacity: 1}
	require.NoError(t, db.Create(&project).Error)

	_, err := svc.Apply(context.Background(), studentIdentity(), dto.ApplicationCreateRequest{ProjectID: project.ID})
	require.ErrorIs(t, err, ErrProjectNotOpen)
}

func TestDecideByOwnerAndCapacity(t *testing.T) {
	svc, db := newApplicationFixture(t)
	ctx := context.Background()

	project := models.Project{Title: "Tiny", Status: models.ProjectStatusOpen, CollegeID: "C1", Department: "cs", OwnerID: "f-1", Capacity: 1}
	require.NoError(t, db.Create(&project).Error)

	first, err := svc.Apply(ctx, studentIdentity(), dto.ApplicationCreateRequest{ProjectID: project.ID})
	require.NoError(t, err)

	second, err := svc.Apply(ctx, &authz.Identity{Subject: "s-2", Roles: []authz.Role{authz.RoleStudent}}, dto.ApplicationCreateRequest{ProjectID: project.ID})
	require.NoError(t, err)

	decided, err := svc.Decide(ctx, ownerIdentity(), first.ID, dto.ApplicationDecisionRequest{Status: models.ApplicationStatusAccepted})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusAccepted, decided.Status)
	require.Equal(t, "f-1", decided.DecidedBy)
	require.NotNil(t, decided.DecidedAt)

	// The project is now full; accepting another application fails.
	_, err = svc.Decide(ctx, ownerIdentity(), second.ID, dto.ApplicationDecisionRequest{Status: models.ApplicationStatusAccepted})
	require.ErrorIs(t, err, ErrProjectFull)

	rejected, err := svc.Decide(ctx, ownerIdentity(), second.ID, dto.ApplicationDecisionRequest{Status: models.ApplicationStatusRejected})
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusRejected, rejected.Status)
}

func TestDecideByStrangerIsForbidden(t *testing.T) {
	svc, db := newApplicationFixture(t)
	project := seedProject(t, db, "C1", "cs")
	ctx := context.Background()

	application, err := svc.Apply(ctx, studentIdentity(), dto.ApplicationCreateRequest{ProjectID: project.ID})
	require.NoError(t, err)

	stranger := &authz.Identity{Subject: "f-9", Roles: []authz.Role{authz.RoleFaculty}}
	_, err = svc.Decide(ctx, stranger, application.ID, dto.ApplicationDecisionRequest{Status: models.ApplicationStatusAccepted})
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.From(err).Kind)
}

func TestWithdrawOwnPendingApplication(t *testing.T) {
	svc, db := newApplicationFixture(t)
	project := seedProject(t, db, "C1", "cs")
	ctx := context.Background()

	application, err := svc.Apply(ctx, studentIdentity(), dto.ApplicationCreateRequest{ProjectID: project.ID})
	require.NoError(t, err)

	withdrawn, err := svc.Withdraw(ctx, studentIdentity(), application.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusWithdrawn, withdrawn.Status)

	_, err = svc.Withdraw(ctx, studentIdentity(), application.ID)
	require.ErrorIs(t, err, ErrApplicationDecided)
}

func TestListOwnApplications(t *testing.T) {
	svc, db := newApplicationFixture(t)
	project := seedProject(t, db, "C1", "cs")
	ctx := context.Background()

	_, err := svc.Apply(ctx, studentIdentity(), dto.ApplicationCreateRequest{ProjectID: project.ID})
	require.NoError(t, err)

	items, total, err := svc.List(ctx, studentIdentity(), dto.ApplicationListRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "s-1", items[0].StudentID)

	// A stranger cannot list another project's applications.
	stranger := &authz.Identity{Subject: "f-9", Roles: []authz.Role{authz.RoleFaculty}}
	_, _, err = svc.List(ctx, stranger, dto.ApplicationListRequest{ProjectID: &project.ID})
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.From(err).Kind)
}
