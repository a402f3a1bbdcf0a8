package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/graphcrawl/internal/model"
)

// CrawlDB provides SQLite-based storage for crawl results.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all scopes and origins
// rather than separate files per origin. This simplifies history queries
// across scopes and backup/restore operations.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, "graphcrawl.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; multiple connections buy nothing here.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // Best effort cleanup
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- Crawl records store complete crawl results as JSON plus summary columns
	CREATE TABLE IF NOT EXISTS crawls (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		origin TEXT NOT NULL,
		scope TEXT NOT NULL,
		status TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		duration_seconds REAL,
		node_count INTEGER,
		edge_count INTEGER,
		depth_reached INTEGER,
		circuit_breaker INTEGER DEFAULT 0,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_crawls_origin ON crawls(origin);
	CREATE INDEX IF NOT EXISTS idx_crawls_scope ON crawls(scope);
	CREATE INDEX IF NOT EXISTS idx_crawls_timestamp ON crawls(timestamp);

	-- Nodes of each crawl, for relational queries across crawls
	CREATE TABLE IF NOT EXISTS nodes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		crawl_id INTEGER NOT NULL REFERENCES crawls(id) ON DELETE CASCADE,
		node_id TEXT NOT NULL,
		node_type TEXT NOT NULL,
		depth INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_crawl ON nodes(crawl_id);
	CREATE INDEX IF NOT EXISTS idx_nodes_id ON nodes(node_id);

	-- Edges of each crawl
	CREATE TABLE IF NOT EXISTS edges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		crawl_id INTEGER NOT NULL REFERENCES crawls(id) ON DELETE CASCADE,
		from_id TEXT NOT NULL,
		to_id TEXT NOT NULL,
		relationship TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_edges_crawl ON edges(crawl_id);
	CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_id);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveCrawlResult stores a complete crawl result: one crawls row plus its
// nodes and edges, atomically.
func (cdb *CrawlDB) SaveCrawlResult(ctx context.Context, result *model.CrawlResult) (int64, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize result: %w", err)
	}

	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // No-op after commit
	}()

	breaker := 0
	if result.Safety.CircuitBreakerTriggered {
		breaker = 1
	}

	res, err := tx.ExecContext(ctx, `
	INSERT INTO crawls (origin, scope, status, timestamp, duration_seconds, node_count, edge_count, depth_reached, circuit_breaker, result_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.Origin,
		result.Scope.String(),
		result.Status.String(),
		result.Timestamp.UTC().Format(time.RFC3339),
		result.DurationSeconds,
		len(result.Nodes),
		len(result.Edges),
		result.Safety.DepthReached,
		breaker,
		string(resultJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert crawl: %w", err)
	}

	crawlID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read crawl id: %w", err)
	}

	for _, n := range result.Nodes {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO nodes (crawl_id, node_id, node_type, depth) VALUES (?, ?, ?, ?)",
			crawlID, n.ID, n.Type, n.Depth,
		); err != nil {
			return 0, fmt.Errorf("failed to insert node: %w", err)
		}
	}

	for _, e := range result.Edges {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO edges (crawl_id, from_id, to_id, relationship) VALUES (?, ?, ?, ?)",
			crawlID, e.From, e.To, e.Relationship,
		); err != nil {
			return 0, fmt.Errorf("failed to insert edge: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit crawl: %w", err)
	}

	return crawlID, nil
}

// GetLatestResult retrieves the most recent crawl result for an origin.
// Returns nil without error when no crawl is stored.
func (cdb *CrawlDB) GetLatestResult(ctx context.Context, origin string) (*model.CrawlResult, error) {
	query := `
	SELECT result_json FROM crawls
	WHERE origin = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var resultJSON string
	err := cdb.db.QueryRowContext(ctx, query, origin).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl result: %w", err)
	}

	var result model.CrawlResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse result: %w", err)
	}

	return &result, nil
}

// GetResultByID retrieves a crawl result by its database ID.
// Returns nil without error when the ID is unknown.
func (cdb *CrawlDB) GetResultByID(ctx context.Context, id int64) (*model.CrawlResult, error) {
	var resultJSON string
	err := cdb.db.QueryRowContext(ctx, "SELECT result_json FROM crawls WHERE id = ?", id).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl result: %w", err)
	}

	var result model.CrawlResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse result: %w", err)
	}

	return &result, nil
}

// CrawlMetadata contains summary information about a stored crawl.
// This is used for displaying history without loading the full result.
type CrawlMetadata struct {
	// ID is the unique identifier of the crawl in the database.
	ID int64

	// Origin is the crawl's starting node id.
	Origin string

	// Scope is the relationship graph kind that was explored.
	Scope string

	// Status is the terminal state of the crawl.
	Status string

	// Timestamp is when the crawl was performed.
	Timestamp time.Time

	// DurationSeconds is the wall-clock crawl duration.
	DurationSeconds float64

	// NodeCount and EdgeCount summarize the stored graph.
	NodeCount int
	EdgeCount int

	// DepthReached is the deepest emitted node.
	DepthReached int

	// CircuitBreakerTriggered reports whether a safety breaker stopped the crawl.
	CircuitBreakerTriggered bool
}

// GetHistory retrieves crawl metadata for an origin, newest first.
// This is more efficient than loading full results when only summaries are
// needed.
func (cdb *CrawlDB) GetHistory(ctx context.Context, origin string) ([]CrawlMetadata, error) {
	query := `
	SELECT id, origin, scope, status, timestamp, duration_seconds, node_count, edge_count, depth_reached, circuit_breaker
	FROM crawls
	WHERE origin = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := cdb.db.QueryContext(ctx, query, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl history: %w", err)
	}
	defer rows.Close()

	var results []CrawlMetadata
	for rows.Next() {
		var meta CrawlMetadata
		var timestamp string
		var breaker int

		if err := rows.Scan(
			&meta.ID,
			&meta.Origin,
			&meta.Scope,
			&meta.Status,
			&timestamp,
			&meta.DurationSeconds,
			&meta.NodeCount,
			&meta.EdgeCount,
			&meta.DepthReached,
			&breaker,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		meta.CircuitBreakerTriggered = breaker != 0
		results = append(results, meta)
	}

	return results, rows.Err()
}

// ListOrigins returns every origin with at least one stored crawl.
func (cdb *CrawlDB) ListOrigins(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT origin FROM crawls
	ORDER BY origin
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list origins: %w", err)
	}
	defer rows.Close()

	var origins []string
	for rows.Next() {
		var origin string
		if err := rows.Scan(&origin); err != nil {
			return nil, fmt.Errorf("failed to scan origin: %w", err)
		}
		origins = append(origins, origin)
	}

	return origins, rows.Err()
}

// QueryReferences returns the target ids a node pointed at in any stored
// crawl. Useful for asking "what did users.id reference last time we looked"
// without re-crawling.
func (cdb *CrawlDB) QueryReferences(ctx context.Context, fromID string) ([]string, error) {
	query := `
	SELECT DISTINCT to_id FROM edges
	WHERE from_id = ?
	ORDER BY to_id
	`

	rows, err := cdb.db.QueryContext(ctx, query, fromID)
	if err != nil {
		return nil, fmt.Errorf("failed to query references: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("failed to scan reference: %w", err)
		}
		targets = append(targets, target)
	}

	return targets, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
