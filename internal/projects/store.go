package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shotflow/internal/chat"
)

// ErrNotFound is returned when a project or document doesn't exist (or
// isn't visible to the requesting owner).
var ErrNotFound = errors.New("not found")

// Store persists projects and documents in Postgres.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// CreateProject inserts a project and returns it with generated fields set.
func (s *Store) CreateProject(ctx context.Context, ownerID, name, kind string) (*Project, error) {
	p := &Project{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Name:    name,
		Kind:    kind,
	}
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO projects (id, owner_id, name, kind)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at, updated_at
    `, p.ID, p.OwnerID, p.Name, p.Kind).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

func (s *Store) GetProject(ctx context.Context, ownerID, id string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, owner_id, name, kind, created_at, updated_at
        FROM projects WHERE id=$1 AND owner_id=$2
    `, id, ownerID)
	return scanProject(row)
}

func (s *Store) ListProjects(ctx context.Context, ownerID string) ([]*Project, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, owner_id, name, kind, created_at, updated_at
        FROM projects WHERE owner_id=$1
        ORDER BY updated_at DESC
    `, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) RenameProject(ctx context.Context, ownerID, id, name string) (*Project, error) {
	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx, `
        UPDATE projects SET name=$1, updated_at=now()
        WHERE id=$2 AND owner_id=$3
        RETURNING updated_at
    `, name, id, ownerID).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetProject(ctx, ownerID, id)
}

func (s *Store) DeleteProject(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `
        DELETE FROM projects WHERE id=$1 AND owner_id=$2
    `, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateDocument inserts a document after validating its type against the
// closed tool set.
func (s *Store) CreateDocument(ctx context.Context, projectID string, docType chat.ToolType, title, content string) (*Document, error) {
	if _, err := chat.ParseToolType(string(docType)); err != nil {
		return nil, err
	}
	d := &Document{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		DocType:   docType,
		Title:     title,
		Content:   content,
	}
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO documents (id, project_id, doc_type, title, content)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at
    `, d.ID, d.ProjectID, string(d.DocType), d.Title, d.Content).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	return d, nil
}

func (s *Store) GetDocument(ctx context.Context, projectID, id string) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, project_id, doc_type, title, content, created_at, updated_at
        FROM documents WHERE id=$1 AND project_id=$2
    `, id, projectID)
	return scanDocument(row)
}

func (s *Store) ListDocuments(ctx context.Context, projectID string) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, project_id, doc_type, title, content, created_at, updated_at
        FROM documents WHERE project_id=$1
        ORDER BY created_at ASC
    `, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) UpdateDocument(ctx context.Context, projectID, id, title, content string) (*Document, error) {
	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx, `
        UPDATE documents SET title=$1, content=$2, updated_at=now()
        WHERE id=$3 AND project_id=$4
        RETURNING updated_at
    `, title, content, id, projectID).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetDocument(ctx, projectID, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Kind, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanDocument(row rowScanner) (*Document, error) {
	var d Document
	var docType string
	err := row.Scan(&d.ID, &d.ProjectID, &docType, &d.Title, &d.Content, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	d.DocType = chat.ToolType(docType)
	return &d, nil
}
