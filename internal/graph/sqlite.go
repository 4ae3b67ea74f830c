package graph

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"golang.org/x/crypto/blake2b"
)

// dbFileName is the graph database file name inside the data directory.
const dbFileName = "wikigraph.db"

// DB is a SQLite-backed Store. It manages connection pooling and the
// graph schema.
//
// Design decision: A single database file holds both nodes and edges
// rather than one file per crawl. Graphs from repeated runs merge
// naturally because node registration is content-addressed.
type DB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures DB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// read performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the graph database under dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an
// error is returned instead of silently creating an empty graph.
func Open(dbDir string, opts Options) (*DB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("graph database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check graph database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create graph database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to forbid creation and mode=rwc
	// to allow it.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	gdb := &DB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := gdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return gdb, nil
}

// Close closes the database connection.
func (g *DB) Close() error {
	return g.db.Close()
}

// createTables creates the graph schema if it doesn't exist.
func (g *DB) createTables() error {
	schema := `
	-- Nodes are content-addressed: the hash of the property record is
	-- the identity, which is what makes AddNode idempotent.
	CREATE TABLE IF NOT EXISTS nodes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content_hash TEXT NOT NULL UNIQUE,
		properties TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_hash ON nodes(content_hash);

	-- Directed edges between node handles.
	CREATE TABLE IF NOT EXISTS edges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		from_node INTEGER NOT NULL REFERENCES nodes(id),
		to_node INTEGER NOT NULL REFERENCES nodes(id),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(from_node, to_node)
	);

	CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_node);
	CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_node);
	`

	_, err := g.db.ExecContext(context.Background(), schema)
	return err
}

// AddNode registers a node and returns its handle. Identical property
// records always resolve to the same handle, across calls and runs.
func (g *DB) AddNode(ctx context.Context, props map[string]string) (int64, error) {
	hash := contentHash(props)

	var id int64
	err := g.db.QueryRowContext(ctx,
		`SELECT id FROM nodes WHERE content_hash = ?`, hash).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up node: %w", err)
	}

	propsJSON, err := json.Marshal(props)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize node properties: %w", err)
	}

	res, err := g.db.ExecContext(ctx,
		`INSERT INTO nodes (content_hash, properties) VALUES (?, ?)
		 ON CONFLICT(content_hash) DO NOTHING`,
		hash, string(propsJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to insert node: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Lost a race with another writer; the node exists now.
		if err := g.db.QueryRowContext(ctx,
			`SELECT id FROM nodes WHERE content_hash = ?`, hash).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to re-look up node: %w", err)
		}
		return id, nil
	}

	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read node handle: %w", err)
	}
	return id, nil
}

// AddEdge registers a directed edge. Duplicate edges are ignored.
func (g *DB) AddEdge(ctx context.Context, from, to int64) error {
	_, err := g.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO edges (from_node, to_node) VALUES (?, ?)`,
		from, to)
	if err != nil {
		return fmt.Errorf("failed to insert edge %d->%d: %w", from, to, err)
	}
	return nil
}

// Stats holds graph-wide totals.
type Stats struct {
	// Nodes is the number of registered nodes.
	Nodes int64

	// Edges is the number of registered edges.
	Edges int64
}

// Stats returns graph-wide totals.
func (g *DB) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	if err := g.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes`).Scan(&s.Nodes); err != nil {
		return Stats{}, fmt.Errorf("failed to count nodes: %w", err)
	}
	if err := g.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM edges`).Scan(&s.Edges); err != nil {
		return Stats{}, fmt.Errorf("failed to count edges: %w", err)
	}
	return s, nil
}

// NodeDegree pairs a node with its out-degree.
type NodeDegree struct {
	// ID is the node handle.
	ID int64

	// Properties is the node's decoded property record.
	Properties map[string]string

	// OutDegree is the number of outgoing edges.
	OutDegree int64
}

// TopLinked returns the limit nodes with the highest out-degree,
// most-linked first.
func (g *DB) TopLinked(ctx context.Context, limit int) ([]NodeDegree, error) {
	rows, err := g.db.QueryContext(ctx, `
		SELECT n.id, n.properties, COUNT(e.id) AS degree
		FROM nodes n
		JOIN edges e ON e.from_node = n.id
		GROUP BY n.id, n.properties
		ORDER BY degree DESC, n.id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top linked nodes: %w", err)
	}
	defer rows.Close()

	var result []NodeDegree
	for rows.Next() {
		var nd NodeDegree
		var propsJSON string
		if err := rows.Scan(&nd.ID, &propsJSON, &nd.OutDegree); err != nil {
			return nil, fmt.Errorf("failed to scan node degree: %w", err)
		}
		if err := json.Unmarshal([]byte(propsJSON), &nd.Properties); err != nil {
			return nil, fmt.Errorf("failed to decode node properties: %w", err)
		}
		result = append(result, nd)
	}
	return result, rows.Err()
}

// contentHash derives the content address of a property record:
// BLAKE2b-256 over the keys and values in sorted key order, with NUL
// separators so adjacent fields cannot collide.
func contentHash(props map[string]string) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h, _ := blake2b.New256(nil) //nolint:errcheck // Keyless BLAKE2b never fails
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(props[k]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
