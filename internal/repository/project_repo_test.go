package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/projecthub-api/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Project{},
		&models.Application{},
		&models.Task{},
		&models.Attachment{},
		&models.Comment{},
		&models.AuditLog{},
	))

	return db
}

func stringPtr(v string) *string {
	return &v
}

func seedProjects(t *testing.T, db *gorm.DB) {
	t.Helper()

	projects := []models.Project{
		{Title: "Solar Car", Status: models.ProjectStatusOpen, CollegeID: "C1", Department: "engineering", OwnerID: "f-1", Capacity: 4},
		{Title: "Campus Compiler", Status: models.ProjectStatusOpen, CollegeID: "C1", Department: "cs", OwnerID: "f-2", Capacity: 3},
		{Title: "Bio Sensors", Status: models.ProjectStatusDraft, CollegeID: "C2", Department: "biology", OwnerID: "f-3", Capacity: 2},
	}
	for i := range projects {
		require.NoError(t, db.Create(&projects[i]).Error)
	}
}

func TestProjectListScopeFilters(t *testing.T) {
	db := newTestDB(t)
	seedProjects(t, db)

	repo := NewProjectRepository(db)
	ctx := context.Background()

	unrestricted, total, err := repo.List(ctx, ProjectFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, unrestricted, 3)

	college, total, err := repo.List(ctx, ProjectFilter{CollegeID: stringPtr("C1")})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	for _, project := range college {
		require.Equal(t, "C1", project.CollegeID)
	}

	department, total, err := repo.List(ctx, ProjectFilter{
		CollegeID:  stringPtr("C1"),
		Department: stringPtr("cs"),
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Campus Compiler", department[0].Title)
}

func TestProjectListPagination(t *testing.T) {
	db := newTestDB(t)
	seedProjects(t, db)

	repo := NewProjectRepository(db)

	page, total, err := repo.List(context.Background(), ProjectFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, page, 1)
}

func TestProjectSoftDelete(t *testing.T) {
	db := newTestDB(t)
	seedProjects(t, db)

	repo := NewProjectRepository(db)
	ctx := context.Background()

	projects, _, err := repo.List(ctx, ProjectFilter{})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, projects[0].ID))

	_, err = repo.GetByID(ctx, projects[0].ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, total, err := repo.List(ctx, ProjectFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
}
