package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/shotflow/internal/api/auth"
	"github.com/shotflow/internal/chat"
	"github.com/shotflow/internal/projects"
	"github.com/shotflow/internal/templates"
)

type createProjectRequest struct {
	Name     string `json:"name"`
	Template string `json:"template,omitempty"`
}

// createProject creates a project, seeding starter documents when a
// template key is given.
func (s *Server) createProject(c echo.Context) error {
	ownerID := auth.UserID(c)

	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}

	kind := req.Template
	var tmpl templates.Template
	if kind != "" {
		var err error
		tmpl, err = templates.Get(kind)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
	} else {
		kind = "blank"
	}

	project, err := s.store.CreateProject(c.Request().Context(), ownerID, req.Name, kind)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	for _, doc := range tmpl.Documents {
		if _, err := s.store.CreateDocument(c.Request().Context(), project.ID, doc.DocType, doc.Title, ""); err != nil {
			// The project exists; a failed seed document is recoverable by
			// the user, so report and continue
			log.Error().Err(err).
				Str("project_id", project.ID).
				Str("doc_type", string(doc.DocType)).
				Msg("Failed to seed template document")
		}
	}

	return c.JSON(http.StatusCreated, project)
}

func (s *Server) listProjects(c echo.Context) error {
	out, err := s.store.ListProjects(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if out == nil {
		out = []*projects.Project{}
	}
	return c.JSON(http.StatusOK, map[string]any{"projects": out})
}

func (s *Server) getProject(c echo.Context) error {
	project, err := s.store.GetProject(c.Request().Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		return projectErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, project)
}

type renameProjectRequest struct {
	Name string `json:"name"`
}

func (s *Server) renameProject(c echo.Context) error {
	var req renameProjectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}

	project, err := s.store.RenameProject(c.Request().Context(), auth.UserID(c), c.Param("id"), req.Name)
	if err != nil {
		return projectErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, project)
}

func (s *Server) deleteProject(c echo.Context) error {
	if err := s.store.DeleteProject(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return projectErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

type createDocumentRequest struct {
	DocType string `json:"doc_type"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

func (s *Server) createDocument(c echo.Context) error {
	// Ownership check before touching documents
	if _, err := s.store.GetProject(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return projectErrorResponse(c, err)
	}

	var req createDocumentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.DocType == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "doc_type is required"})
	}

	doc, err := s.store.CreateDocument(c.Request().Context(), c.Param("id"), chat.ToolType(req.DocType), req.Title, req.Content)
	if err != nil {
		var invalid *chat.InvalidToolTypeError
		if errors.As(err, &invalid) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": invalid.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, doc)
}

func (s *Server) listDocuments(c echo.Context) error {
	if _, err := s.store.GetProject(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return projectErrorResponse(c, err)
	}

	out, err := s.store.ListDocuments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if out == nil {
		out = []*projects.Document{}
	}
	return c.JSON(http.StatusOK, map[string]any{"documents": out})
}

func (s *Server) getDocument(c echo.Context) error {
	if _, err := s.store.GetProject(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return projectErrorResponse(c, err)
	}

	doc, err := s.store.GetDocument(c.Request().Context(), c.Param("id"), c.Param("docID"))
	if err != nil {
		return projectErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

type updateDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *Server) updateDocument(c echo.Context) error {
	if _, err := s.store.GetProject(c.Request().Context(), auth.UserID(c), c.Param("id")); err != nil {
		return projectErrorResponse(c, err)
	}

	var req updateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	doc, err := s.store.UpdateDocument(c.Request().Context(), c.Param("id"), c.Param("docID"), req.Title, req.Content)
	if err != nil {
		return projectErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

func (s *Server) listTemplates(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"templates": templates.List()})
}

func projectErrorResponse(c echo.Context, err error) error {
	if errors.Is(err, projects.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
