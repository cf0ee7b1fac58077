package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/projecthub-api/internal/authz"
	"github.com/noah-isme/projecthub-api/internal/dto"
	"github.com/noah-isme/projecthub-api/internal/handler"
	"github.com/noah-isme/projecthub-api/internal/router"
	"github.com/noah-isme/projecthub-api/internal/service"
)

type mockProjectService struct {
	listResponse []dto.ProjectResponse
	listTotal    int64
	getResponse  dto.ProjectResponse
	err          error
	lastRequest  dto.ProjectListRequest
}

func (m *mockProjectService) List(_ context.Context, req dto.ProjectListRequest) ([]dto.ProjectResponse, int64, error) {
	m.lastRequest = req
	return m.listResponse, m.listTotal, m.err
}

func (m *mockProjectService) ListScoped(_ context.Context, _ *authz.Identity, req dto.ProjectListRequest) ([]dto.ProjectResponse, int64, error) {
	m.lastRequest = req
	return m.listResponse, m.listTotal, m.err
}

func (m *mockProjectService) Get(_ context.Context, _ uint) (dto.ProjectResponse, error) {
	return m.getResponse, m.err
}

func (m *mockProjectService) Create(_ context.Context, _ *authz.Identity, _ dto.ProjectCreateRequest) (dto.ProjectResponse, error) {
	return m.getResponse, m.err
}

func (m *mockProjectService) Update(_ context.Context, _ *authz.Identity, _ uint, _ dto.ProjectUpdateRequest) (dto.ProjectResponse, error) {
	return m.getResponse, m.err
}

func (m *mockProjectService) Delete(_ context.Context, _ *authz.Identity, _ uint) error {
	return m.err
}

func newHandlerApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: router.ErrorHandler(zerolog.Nop(), false)})
}

func noAuth(c *fiber.Ctx) error {
	return c.Next()
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target))
}

func TestProjectHandlerListPaginates(t *testing.T) {
	svc := &mockProjectService{
		listResponse: []dto.ProjectResponse{{ID: 1, Title: "Compiler Study"}},
		listTotal:    45,
	}
	app := newHandlerApp()
	handler.NewProjectHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/projects"), noAuth)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects?page=2&limit=20&status=open", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success    bool                  `json:"success"`
		Data       []dto.ProjectResponse `json:"data"`
		Pagination struct {
			Page       int   `json:"page"`
			TotalPages int   `json:"total_pages"`
			Total      int64 `json:"total"`
			HasNext    bool  `json:"has_next"`
			HasPrev    bool  `json:"has_prev"`
		} `json:"pagination"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Len(t, response.Data, 1)
	require.Equal(t, 2, response.Pagination.Page)
	require.Equal(t, 3, response.Pagination.TotalPages)
	require.True(t, response.Pagination.HasNext)
	require.True(t, response.Pagination.HasPrev)
	require.Equal(t, "open", svc.lastRequest.Status)
}

func TestProjectHandlerGetNotFound(t *testing.T) {
	svc := &mockProjectService{err: service.ErrProjectNotFound}
	app := newHandlerApp()
	handler.NewProjectHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/projects"), noAuth)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/projects/99", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var response struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeResponse(t, resp, &response)
	require.False(t, response.Success)
	require.NotEmpty(t, response.Error.Code)
}

func TestProjectHandlerCreate(t *testing.T) {
	svc := &mockProjectService{getResponse: dto.ProjectResponse{ID: 7, Title: "New Project"}}
	app := newHandlerApp()
	handler.NewProjectHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/projects"), noAuth)

	body, err := json.Marshal(dto.ProjectCreateRequest{Title: "New Project", Description: "desc", CollegeID: "C1", Department: "CS"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestProjectHandlerInvalidIdentifier(t *testing.T) {
	svc := &mockProjectService{}
	app := newHandlerApp()
	handler.NewProjectHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/projects"), noAuth)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/projects/not-a-number", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
