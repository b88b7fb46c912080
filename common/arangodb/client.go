package arangodb

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/connection"
)

var ErrNotFound = errors.New("document not found")

type Client interface {
	// Setup operations
	EnsureDatabase(ctx context.Context) error
	EnsureCollections(ctx context.Context, names ...string) error
	EnsureIndexes(ctx context.Context, indexes ...Index) error

	// Query runs an AQL statement with bind variables.
	Query(ctx context.Context, query string, bindVars map[string]any) (Cursor, error)
	Count(ctx context.Context, collection string) (int64, error)
	Ping(ctx context.Context) error

	Close() error
}

type Config struct {
	URL      string
	Username string
	Password string
	Database string
}

func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("arangodb URL is required")
	}
	if c.Username == "" {
		return fmt.Errorf("arangodb username is required")
	}
	if c.Database == "" {
		return fmt.Errorf("arangodb database name is required")
	}
	return nil
}

type client struct {
	conn         connection.Connection
	arangoClient arangodb.Client
	db           arangodb.Database
	cfg          Config
}

func New(ctx context.Context, cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("arangodb config: %w", err)
	}

	endpoint := connection.NewRoundRobinEndpoints([]string{cfg.URL})
	conn := connection.NewHttp2Connection(connection.DefaultHTTP2ConfigurationWrapper(endpoint, true))

	auth := connection.NewBasicAuth(cfg.Username, cfg.Password)
	if err := conn.SetAuthentication(auth); err != nil {
		return nil, fmt.Errorf("arangodb auth: %w", err)
	}

	return &client{
		conn:         conn,
		arangoClient: arangodb.NewClient(conn),
		cfg:          cfg,
	}, nil
}

func (c *client) Close() error {
	return nil
}

func (c *client) EnsureDatabase(ctx context.Context) error {
	start := time.Now()

	exists, err := c.arangoClient.DatabaseExists(ctx, c.cfg.Database)
	if err != nil {
		return fmt.Errorf("check database exists: %w", err)
	}

	if !exists {
		_, err = c.arangoClient.CreateDatabase(ctx, c.cfg.Database, nil)
		if err != nil {
			return fmt.Errorf("create database: %w", err)
		}
		slog.InfoContext(ctx, "arangodb database created",
			"database", c.cfg.Database,
			"duration_ms", time.Since(start).Milliseconds())
	}

	db, err := c.arangoClient.GetDatabase(ctx, c.cfg.Database, nil)
	if err != nil {
		return fmt.Errorf("get database: %w", err)
	}
	c.db = db

	return nil
}

func (c *client) EnsureCollections(ctx context.Context, names ...string) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized, call EnsureDatabase first")
	}

	for _, name := range names {
		exists, err := c.db.CollectionExists(ctx, name)
		if err != nil {
			return fmt.Errorf("check collection %s exists: %w", name, err)
		}
		if exists {
			continue
		}

		colType := arangodb.CollectionTypeDocument
		if _, err := c.db.CreateCollectionV2(ctx, name, &arangodb.CreateCollectionPropertiesV2{Type: &colType}); err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
		slog.InfoContext(ctx, "arangodb collection created", "collection", name)
	}

	return nil
}

func (c *client) EnsureIndexes(ctx context.Context, indexes ...Index) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized, call EnsureDatabase first")
	}

	for _, idx := range indexes {
		col, err := c.db.GetCollection(ctx, idx.Collection, nil)
		if err != nil {
			return fmt.Errorf("get collection %s: %w", idx.Collection, err)
		}

		unique := idx.Unique
		_, created, err := col.EnsurePersistentIndex(ctx, idx.Fields, &arangodb.CreatePersistentIndexOptions{
			Unique: &unique,
		})
		if err != nil {
			return fmt.Errorf("ensure index on %s%v: %w", idx.Collection, idx.Fields, err)
		}
		if created {
			slog.InfoContext(ctx, "arangodb index created",
				"collection", idx.Collection,
				"fields", idx.Fields,
				"unique", idx.Unique)
		}
	}

	return nil
}

func (c *client) Query(ctx context.Context, query string, bindVars map[string]any) (Cursor, error) {
	if c.db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	start := time.Now()
	cursor, err := c.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}

	slog.DebugContext(ctx, "arangodb query executed",
		"duration_ms", time.Since(start).Milliseconds())

	return &driverCursor{cursor: cursor}, nil
}

func (c *client) Count(ctx context.Context, collection string) (int64, error) {
	cursor, err := c.Query(ctx, "RETURN LENGTH(@@col)", map[string]any{"@col": collection})
	if err != nil {
		return 0, err
	}
	return ReadOne[int64](ctx, cursor)
}

func (c *client) Ping(ctx context.Context) error {
	cursor, err := c.Query(ctx, "RETURN 1", nil)
	if err != nil {
		return err
	}
	return cursor.Close()
}

type driverCursor struct {
	cursor arangodb.Cursor
}

func (d *driverCursor) HasMore() bool {
	return d.cursor.HasMore()
}

func (d *driverCursor) ReadDocument(ctx context.Context, out any) error {
	_, err := d.cursor.ReadDocument(ctx, out)
	return err
}

func (d *driverCursor) Close() error {
	return d.cursor.Close()
}

// ReadAll drains the cursor into a slice and closes it.
func ReadAll[T any](ctx context.Context, cursor Cursor) ([]T, error) {
	defer cursor.Close()

	var results []T
	for cursor.HasMore() {
		var doc T
		if err := cursor.ReadDocument(ctx, &doc); err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		results = append(results, doc)
	}
	return results, nil
}

// ReadOne reads the first document of the cursor and closes it.
// Returns ErrNotFound when the query produced no rows.
func ReadOne[T any](ctx context.Context, cursor Cursor) (T, error) {
	defer cursor.Close()

	var doc T
	if !cursor.HasMore() {
		return doc, ErrNotFound
	}
	if err := cursor.ReadDocument(ctx, &doc); err != nil {
		return doc, fmt.Errorf("read document: %w", err)
	}
	return doc, nil
}

// MakeKey derives a document key from an arbitrary natural key such as an email.
func MakeKey(naturalKey string) string {
	hash := md5.Sum([]byte(naturalKey))
	return hex.EncodeToString(hash[:])[:16]
}
