package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/projecthub-api/internal/apperr"
	"github.com/noah-isme/projecthub-api/internal/authz"
	"github.com/noah-isme/projecthub-api/internal/dto"
	"github.com/noah-isme/projecthub-api/internal/models"
	"github.com/noah-isme/projecthub-api/internal/repository"
)

func newProjectFixture(t *testing.T) (ProjectService, *gorm.DB, *redis.Client) {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	db := newServiceTestDB(t)

	svc := NewProjectService(
		repository.NewProjectRepository(db),
		client,
		time.Minute,
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
	)
	return svc, db, client
}

func facultyIdentity() *authz.Identity {
	return &authz.Identity{
		Subject: "f-1",
		Name:    "Dr. Lee",
		Roles:   []authz.Role{authz.RoleFaculty},
		Scope:   authz.Scope{CollegeID: stringPtr("C1"), Department: stringPtr("cs")},
	}
}

func TestProjectCreateRequiresFaculty(t *testing.T) {
	svc, _, _ := newProjectFixture(t)

	student := &authz.Identity{Subject: "s-1", Roles: []authz.Role{authz.RoleStudent}}
	_, err := svc.Create(context.Background(), student, dto.ProjectCreateRequest{
		Title:      "Solar Car",
		CollegeID:  "C1",
		Department: "engineering",
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.From(err).Kind)
}

func TestProjectCreateAndGet(t *testing.T) {
	svc, _, _ := newProjectFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, facultyIdentity(), dto.ProjectCreateRequest{
		Title:      "Campus Compiler",
		CollegeID:  "C1",
		Department: "cs",
		Capacity:   3,
	})
	require.NoError(t, err)
	require.Equal(t, models.ProjectStatusDraft, created.Status)
	require.Equal(t, "f-1", created.OwnerID)

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID)

	_, err = svc.Get(ctx, 999)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectListCachesOpenPage(t *testing.T) {
	svc, db, _ := newProjectFixture(t)
	ctx := context.Background()

	project := models.Project{Title: "Bio Sensors", Status: models.ProjectStatusOpen, CollegeID: "C1", Department: "biology", OwnerID: "f-2", Capacity: 2}
	require.NoError(t, db.Create(&project).Error)

	first, total, err := svc.List(ctx, dto.ProjectListRequest{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, first, 1)

	// A database change is invisible until the cached page expires.
	require.NoError(t, db.Model(&models.Project{}).Where("id = ?", project.ID).Update("title", "Renamed").Error)

	second, _, err := svc.List(ctx, dto.ProjectListRequest{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Equal(t, first[0].Title, second[0].Title)
}

func TestProjectListScopedAppliesFilters(t *testing.T) {
	svc, db, _ := newProjectFixture(t)
	ctx := context.Background()

	projects := []models.Project{
		{Title: "A", Status: models.ProjectStatusOpen, CollegeID: "C1", Department: "cs", OwnerID: "f-1", Capacity: 1},
		{Title: "B", Status: models.ProjectStatusOpen, CollegeID: "C1", Department: "math", OwnerID: "f-2", Capacity: 1},
		{Title: "C", Status: models.ProjectStatusOpen, CollegeID: "C2", Department: "cs", OwnerID: "f-3", Capacity: 1},
	}
	for i := range projects {
		require.NoError(t, db.Create(&projects[i]).Error)
	}

	deptAdmin := &authz.Identity{
		Subject: "admin-1",
		Roles:   []authz.Role{authz.RoleDeptAdmin},
		Scope:   authz.Scope{CollegeID: stringPtr("C1"), Department: stringPtr("cs")},
	}
	items, total, err := svc.ListScoped(ctx, deptAdmin, dto.ProjectListRequest{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "A", items[0].Title)

	super := &authz.Identity{Subject: "root", Roles: []authz.Role{authz.RoleSuperAdmin}}
	_, total, err = svc.ListScoped(ctx, super, dto.ProjectListRequest{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
}

func TestProjectListScopedDeniesScopelessAdmin(t *testing.T) {
	svc, db, _ := newProjectFixture(t)
	ctx := context.Background()

	for _, college := range []string{"C1", "C2", "C3"} {
		project := models.Project{Title: "P-" + college, Status: models.ProjectStatusOpen, CollegeID: college, Department: "cs", OwnerID: "f-1", Capacity: 1}
		require.NoError(t, db.Create(&project).Error)
	}

	// A head admin whose profile lookup failed carries no scope; that must
	// not widen the listing to every college.
	scopeless := &authz.Identity{Subject: "admin-8", Roles: []authz.Role{authz.RoleHeadAdmin}}
	items, total, err := svc.ListScoped(ctx, scopeless, dto.ProjectListRequest{Page: 1, PageSize: 20})
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.From(err).Kind)
	require.Empty(t, items)
	require.Zero(t, total)

	deptNoDepartment := &authz.Identity{Subject: "admin-9", Roles: []authz.Role{authz.RoleDeptAdmin}, Scope: authz.Scope{CollegeID: stringPtr("C1")}}
	_, _, err = svc.ListScoped(ctx, deptNoDepartment, dto.ProjectListRequest{Page: 1, PageSize: 20})
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.From(err).Kind)
}

func TestProjectCreateAllowsAdmins(t *testing.T) {
	svc, _, _ := newProjectFixture(t)

	admin := &authz.Identity{
		Subject: "admin-1",
		Roles:   []authz.Role{authz.RoleDeptAdmin},
		Scope:   authz.Scope{CollegeID: stringPtr("C1"), Department: stringPtr("cs")},
	}
	created, err := svc.Create(context.Background(), admin, dto.ProjectCreateRequest{
		Title:      "Dept Showcase",
		CollegeID:  "C1",
		Department: "cs",
	})
	require.NoError(t, err)
	require.Equal(t, "admin-1", created.OwnerID)
}

func TestProjectUpdateByOwnerAndStranger(t *testing.T) {
	svc, _, _ := newProjectFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, facultyIdentity(), dto.ProjectCreateRequest{
		Title:      "Campus Compiler",
		CollegeID:  "C1",
		Department: "cs",
	})
	require.NoError(t, err)

	status := models.ProjectStatusOpen
	updated, err := svc.Update(ctx, facultyIdentity(), created.ID, dto.ProjectUpdateRequest{Status: &status})
	require.NoError(t, err)
	require.Equal(t, models.ProjectStatusOpen, updated.Status)

	stranger := &authz.Identity{Subject: "f-9", Roles: []authz.Role{authz.RoleFaculty}}
	title := "Hijacked"
	_, err = svc.Update(ctx, stranger, created.ID, dto.ProjectUpdateRequest{Title: &title})
	require.Error(t, err)
	require.Equal(t, apperr.KindForbidden, apperr.From(err).Kind)
}
