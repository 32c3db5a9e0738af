package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitref/packages/http"
	"github.com/google/uuid"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a request id matches no stored request.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS requests (
	id           TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL,
	name         TEXT NOT NULL DEFAULT '',
	method       TEXT NOT NULL,
	url          TEXT NOT NULL,
	headers      TEXT NOT NULL DEFAULT '[]',
	body         TEXT NOT NULL DEFAULT '',
	timeout_ms   INTEGER NOT NULL DEFAULT 0,
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS responses (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT NOT NULL UNIQUE,
	request_id   TEXT NOT NULL,
	workspace_id TEXT NOT NULL,
	status_code  INTEGER NOT NULL,
	status       TEXT NOT NULL DEFAULT '',
	headers      TEXT NOT NULL DEFAULT '[]',
	body_path    TEXT NOT NULL DEFAULT '',
	body_size    INTEGER NOT NULL DEFAULT 0,
	duration_ns  INTEGER NOT NULL DEFAULT 0,
	error        TEXT NOT NULL DEFAULT '',
	created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS responses_by_request ON responses (request_id, created_at DESC, seq DESC);
`

// Store is the SQLite-backed request and response store.
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
	now          func() time.Time
}

// Open opens or creates the database at path. Both a plain file path and the
// sqlite:// and sqlite: prefixed forms are accepted; ":memory:" opens a
// private in-memory database.
func Open(path string) (*Store, error) {
	dsn, err := parseDataSource(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{
		db:           db,
		queryTimeout: 30 * time.Second,
		now:          time.Now,
	}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

// SaveRequest inserts req, or replaces the stored request with the same id.
// An empty id is assigned and CreatedAt is kept across updates.
func (s *Store) SaveRequest(ctx context.Context, req *http.Request) error {
	if req.Method == "" || req.URL == "" {
		return fmt.Errorf("request requires a method and url")
	}
	if req.ID == "" {
		req.ID = NewRequestID()
	}
	if req.WorkspaceID == "" {
		req.WorkspaceID = http.DefaultWorkspace
	}
	now := s.now()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now

	headers, err := encodeHeaders(req.Headers)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO requests (id, workspace_id, name, method, url, headers, body, timeout_ms, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			workspace_id = excluded.workspace_id,
			name = excluded.name,
			method = excluded.method,
			url = excluded.url,
			headers = excluded.headers,
			body = excluded.body,
			timeout_ms = excluded.timeout_ms,
			updated_at = excluded.updated_at`,
		req.ID, req.WorkspaceID, req.Name, strings.ToUpper(req.Method), req.URL, headers, req.Body,
		req.Timeout.Milliseconds(), req.CreatedAt.UnixNano(), req.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save request %s: %w", req.ID, err)
	}
	return nil
}

// GetByID returns the request with id, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (*http.Request, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, workspace_id, name, method, url, headers, body, timeout_ms, created_at, updated_at
		FROM requests WHERE id = ?`, id)

	req, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("request %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load request %s: %w", id, err)
	}
	return req, nil
}

// ListRequests returns the requests of a workspace ordered by name, then id.
// An empty workspace lists every request.
func (s *Store) ListRequests(ctx context.Context, workspace string) ([]*http.Request, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT id, workspace_id, name, method, url, headers, body, timeout_ms, created_at, updated_at FROM requests`
	var args []any
	if workspace != "" {
		query += ` WHERE workspace_id = ?`
		args = append(args, workspace)
	}
	query += ` ORDER BY name, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var requests []*http.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return requests, nil
}

// DeleteRequest removes a request together with its response history and
// returns the body paths that belonged to the removed responses.
func (s *Store) DeleteRequest(ctx context.Context, id string) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete request %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("request %s: %w", id, ErrNotFound)
	}

	rows, err := tx.QueryContext(ctx, `SELECT body_path FROM responses WHERE request_id = ? AND body_path != ''`, id)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		paths = append(paths, p)
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx, `DELETE FROM responses WHERE request_id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete responses of %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return paths, nil
}

// SaveResponse appends resp to the history of its request.
func (s *Store) SaveResponse(ctx context.Context, resp *http.Response) error {
	if resp.RequestID == "" {
		return fmt.Errorf("response requires a request id")
	}
	if resp.ID == "" {
		resp.ID = NewResponseID()
	}
	if resp.WorkspaceID == "" {
		resp.WorkspaceID = http.DefaultWorkspace
	}
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = s.now()
	}

	headers, err := encodeHeaders(resp.Headers)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO responses (id, request_id, workspace_id, status_code, status, headers, body_path, body_size, duration_ns, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		resp.ID, resp.RequestID, resp.WorkspaceID, resp.StatusCode, resp.Status, headers, resp.BodyPath,
		resp.BodySize, int64(resp.Duration), resp.Error, resp.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save response %s: %w", resp.ID, err)
	}
	return nil
}

// FindByRequestID returns up to limit responses for requestID, most recent
// first. Responses recorded in the same instant keep insertion order. A
// limit below one returns the whole history.
func (s *Store) FindByRequestID(ctx context.Context, requestID string, limit int) ([]*http.Response, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if limit < 1 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request_id, workspace_id, status_code, status, headers, body_path, body_size, duration_ns, error, created_at
		FROM responses WHERE request_id = ?
		ORDER BY created_at DESC, seq DESC
		LIMIT ?`, requestID, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var responses []*http.Response
	for rows.Next() {
		var (
			resp       http.Response
			headers    string
			durationNs int64
			createdAt  int64
		)
		if err := rows.Scan(&resp.ID, &resp.RequestID, &resp.WorkspaceID, &resp.StatusCode, &resp.Status,
			&headers, &resp.BodyPath, &resp.BodySize, &durationNs, &resp.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if resp.Headers, err = decodeHeaders(headers); err != nil {
			return nil, err
		}
		resp.Duration = time.Duration(durationNs)
		resp.CreatedAt = time.Unix(0, createdAt)
		responses = append(responses, &resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return responses, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(row scanner) (*http.Request, error) {
	var (
		req       http.Request
		headers   string
		timeoutMs int64
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&req.ID, &req.WorkspaceID, &req.Name, &req.Method, &req.URL, &headers, &req.Body,
		&timeoutMs, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if req.Headers, err = decodeHeaders(headers); err != nil {
		return nil, err
	}
	req.Timeout = time.Duration(timeoutMs) * time.Millisecond
	req.CreatedAt = time.Unix(0, createdAt)
	req.UpdatedAt = time.Unix(0, updatedAt)
	return &req, nil
}

func encodeHeaders(headers []http.Header) (string, error) {
	if headers == nil {
		headers = []http.Header{}
	}
	b, err := json.Marshal(headers)
	if err != nil {
		return "", fmt.Errorf("failed to encode headers: %w", err)
	}
	return string(b), nil
}

func decodeHeaders(s string) ([]http.Header, error) {
	var headers []http.Header
	if s == "" {
		return headers, nil
	}
	if err := json.Unmarshal([]byte(s), &headers); err != nil {
		return nil, fmt.Errorf("failed to decode headers: %w", err)
	}
	return headers, nil
}

// NewRequestID returns a fresh request id.
func NewRequestID() string {
	return "rq_" + uuid.NewString()
}

// NewResponseID returns a fresh response id.
func NewResponseID() string {
	return "rs_" + uuid.NewString()
}

// parseDataSource accepts a file path or a sqlite URL.
func parseDataSource(path string) (string, error) {
	path = strings.TrimSpace(path)
	switch {
	case strings.HasPrefix(path, "sqlite://"):
		path = strings.TrimPrefix(path, "sqlite://")
	case strings.HasPrefix(path, "sqlite:"):
		path = strings.TrimPrefix(path, "sqlite:")
	}
	if path == "" {
		return "", fmt.Errorf("database path is empty")
	}
	return path, nil
}
