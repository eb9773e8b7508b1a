package products_test

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/backoffice-labs/catalog/internal/config"
	"github.com/backoffice-labs/catalog/internal/flash"
	"github.com/backoffice-labs/catalog/internal/products"
	"github.com/backoffice-labs/catalog/internal/storage"
	"github.com/backoffice-labs/catalog/internal/web"
	"github.com/backoffice-labs/catalog/pkg/pagination"
)

// memRow mirrors one products table row.
type memRow struct {
	id          string
	name        string
	description string
	price       float64
	image       *string
	original    string
	createdAt   time.Time
	updatedAt   time.Time
}

// memTable is the backing state for one fake database.
type memTable struct {
	mu        sync.Mutex
	rows      map[string]*memRow
	insertErr error
	updateErr error
}

var (
	memMu     sync.Mutex
	memTables = map[string]*memTable{}
	memSeq    int
)

func init() {
	sql.Register("productsmem", memDriver{})
}

// memDriver serves an in-memory products table per data source name,
// interpreting the statements the repository issues.
type memDriver struct{}

func (memDriver) Open(name string) (driver.Conn, error) {
	memMu.Lock()
	defer memMu.Unlock()

	table, ok := memTables[name]
	if !ok {
		return nil, fmt.Errorf("unknown table %s", name)
	}
	return &memConn{table: table}, nil
}

type memConn struct {
	table *memTable
}

func (c *memConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *memConn) Close() error { return nil }

func (c *memConn) Begin() (driver.Tx, error) { return memTx{}, nil }

type memTx struct{}

func (memTx) Commit() error   { return nil }
func (memTx) Rollback() error { return nil }

func (c *memConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.table.mu.Lock()
	defer c.table.mu.Unlock()

	switch {
	case strings.HasPrefix(query, "SELECT COUNT"):
		return &memRows{count: len(c.table.rows), isCount: true}, nil
	case strings.Contains(query, "WHERE p.id ="):
		id, _ := args[0].Value.(string)
		if row, ok := c.table.rows[id]; ok {
			return &memRows{rows: []*memRow{row}}, nil
		}
		return &memRows{}, nil
	default:
		rows := make([]*memRow, 0, len(c.table.rows))
		for _, row := range c.table.rows {
			rows = append(rows, row)
		}
		return &memRows{rows: rows}, nil
	}
}

func (c *memConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.table.mu.Lock()
	defer c.table.mu.Unlock()

	vals := make([]driver.Value, len(args))
	for i, a := range args {
		vals[i] = a.Value
	}

	switch {
	case strings.HasPrefix(query, "INSERT"):
		if c.table.insertErr != nil {
			return nil, c.table.insertErr
		}
		row := &memRow{
			id:          vals[0].(string),
			name:        vals[1].(string),
			description: vals[2].(string),
			price:       vals[3].(float64),
			original:    vals[5].(string),
			createdAt:   vals[6].(time.Time),
			updatedAt:   vals[7].(time.Time),
		}
		if vals[4] != nil {
			s := vals[4].(string)
			row.image = &s
		}
		c.table.rows[row.id] = row
		return memResult(1), nil

	case strings.HasPrefix(query, "UPDATE"):
		if c.table.updateErr != nil {
			return nil, c.table.updateErr
		}
		id := vals[6].(string)
		row, ok := c.table.rows[id]
		if !ok {
			return memResult(0), nil
		}
		row.name = vals[0].(string)
		row.description = vals[1].(string)
		row.price = vals[2].(float64)
		row.image = nil
		if vals[3] != nil {
			s := vals[3].(string)
			row.image = &s
		}
		row.original = vals[4].(string)
		row.updatedAt = vals[5].(time.Time)
		return memResult(1), nil

	case strings.HasPrefix(query, "DELETE"):
		id := vals[0].(string)
		if _, ok := c.table.rows[id]; !ok {
			return memResult(0), nil
		}
		delete(c.table.rows, id)
		return memResult(1), nil
	}

	return nil, fmt.Errorf("unexpected statement: %s", query)
}

type memResult int64

func (r memResult) LastInsertId() (int64, error) { return 0, nil }
func (r memResult) RowsAffected() (int64, error) { return int64(r), nil }

type memRows struct {
	rows    []*memRow
	count   int
	isCount bool
	idx     int
}

func (r *memRows) Columns() []string {
	if r.isCount {
		return []string{"count"}
	}
	return []string{
		"id", "name", "description", "price",
		"featured_image", "featured_image_original_name",
		"created_at", "updated_at",
	}
}

func (r *memRows) Close() error { return nil }

func (r *memRows) Next(dest []driver.Value) error {
	if r.isCount {
		if r.idx > 0 {
			return io.EOF
		}
		r.idx++
		dest[0] = int64(r.count)
		return nil
	}

	if r.idx >= len(r.rows) {
		return io.EOF
	}
	row := r.rows[r.idx]
	r.idx++

	dest[0] = row.id
	dest[1] = row.name
	dest[2] = row.description
	dest[3] = row.price
	dest[4] = nil
	if row.image != nil {
		dest[4] = *row.image
	}
	dest[5] = row.original
	dest[6] = row.createdAt
	dest[7] = row.updatedAt
	return nil
}

func newMemDB(t *testing.T) (*sql.DB, *memTable) {
	t.Helper()

	memMu.Lock()
	memSeq++
	name := fmt.Sprintf("table-%d", memSeq)
	table := &memTable{rows: map[string]*memRow{}}
	memTables[name] = table
	memMu.Unlock()

	db, err := sql.Open("productsmem", name)
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db, table
}

// memBlobs implements storage.System in memory, recording deletes.
type memBlobs struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	deleted []string
}

func newMemBlobs() *memBlobs {
	return &memBlobs{blobs: map[string][]byte{}}
}

func (b *memBlobs) Store(ctx context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[key] = data
	return nil
}

func (b *memBlobs) Retrieve(ctx context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (b *memBlobs) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, key)
	delete(b.blobs, key)
	return nil
}

func (b *memBlobs) Exists(ctx context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.blobs[key]
	return ok, nil
}

func (b *memBlobs) URL(key string) string {
	return "/storage/" + key
}

func (b *memBlobs) keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.blobs))
	for k := range b.blobs {
		keys = append(keys, k)
	}
	return keys
}

func newTestSystem(t *testing.T, limit int64) (products.System, *memTable, *memBlobs) {
	t.Helper()

	db, table := newMemDB(t)
	blobs := newMemBlobs()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sys := products.New(db, blobs, logger, pagination.Config{DefaultPageSize: 5, MaxPageSize: 100}, limit)

	return sys, table, blobs
}

func TestSystemCreate_WithoutImage(t *testing.T) {
	sys, _, blobs := newTestSystem(t, maxUpload)
	ctx := context.Background()

	p, err := sys.Create(ctx, validForm(), nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if p.FeaturedImage != nil {
		t.Errorf("featured image = %q, want nil", *p.FeaturedImage)
	}

	if p.FeaturedImageOriginalName != "" {
		t.Errorf("original name = %q, want empty", p.FeaturedImageOriginalName)
	}

	if len(blobs.keys()) != 0 {
		t.Errorf("blob keys = %v, want none", blobs.keys())
	}

	found, err := sys.Find(ctx, p.ID)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	if found.Name != p.Name || found.Price != p.Price {
		t.Errorf("Find() = %+v, want persisted fields of %+v", found, p)
	}
}

func TestSystemCreate_WithImage(t *testing.T) {
	sys, _, blobs := newTestSystem(t, maxUpload)

	upload := &products.Upload{Filename: "mouse.png", Data: pngHeader}

	p, err := sys.Create(context.Background(), validForm(), upload)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if p.FeaturedImage == nil {
		t.Fatal("featured image = nil, want stored key")
	}

	key := *p.FeaturedImage
	if !strings.HasPrefix(key, "products/") || !strings.HasSuffix(key, ".png") {
		t.Errorf("featured image = %q, want products/<id>.png", key)
	}

	if p.FeaturedImageOriginalName != "mouse.png" {
		t.Errorf("original name = %q, want %q", p.FeaturedImageOriginalName, "mouse.png")
	}

	data, err := blobs.Retrieve(context.Background(), key)
	if err != nil {
		t.Fatalf("Retrieve(%q) error = %v", key, err)
	}

	if !bytes.Equal(data, pngHeader) {
		t.Error("stored blob differs from upload")
	}
}

func TestSystemCreate_InsertFailureRemovesBlob(t *testing.T) {
	sys, table, blobs := newTestSystem(t, maxUpload)
	table.insertErr = errors.New("insert failed")

	upload := &products.Upload{Filename: "mouse.png", Data: pngHeader}

	_, err := sys.Create(context.Background(), validForm(), upload)
	if err == nil {
		t.Fatal("Create() error = nil, want insert failure")
	}

	if len(blobs.keys()) != 0 {
		t.Errorf("blob keys = %v, want orphan removed", blobs.keys())
	}

	if len(blobs.deleted) != 1 {
		t.Errorf("deleted = %v, want one removal", blobs.deleted)
	}
}

func TestSystemCreate_UploadAboveConfiguredLimit(t *testing.T) {
	sys, _, blobs := newTestSystem(t, 1024)

	payload := append(pngHeader, bytes.Repeat([]byte{0}, 1024)...)
	upload := &products.Upload{Filename: "big.png", Data: payload}

	_, err := sys.Create(context.Background(), validForm(), upload)

	var ve *products.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Create() error = %v, want validation error", err)
	}

	want := "The featured image must not be larger than 2MB."
	if got := ve.Fields["featured_image"]; got != want {
		t.Errorf("featured_image = %q, want %q", got, want)
	}

	if len(blobs.keys()) != 0 {
		t.Errorf("blob keys = %v, want none stored", blobs.keys())
	}
}

func TestSystemUpdate_WithoutUploadKeepsImage(t *testing.T) {
	sys, _, _ := newTestSystem(t, maxUpload)
	ctx := context.Background()

	p, err := sys.Create(ctx, validForm(), &products.Upload{Filename: "mouse.png", Data: pngHeader})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	key := *p.FeaturedImage

	form := validForm()
	form.Name = "Renamed Mouse"
	form.Price = "19.99"

	updated, err := sys.Update(ctx, p.ID, form, nil)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Name != "Renamed Mouse" || updated.Price != 19.99 {
		t.Errorf("Update() = %+v, want new name and price", updated)
	}

	if updated.FeaturedImage == nil || *updated.FeaturedImage != key {
		t.Errorf("featured image changed, want %q untouched", key)
	}

	if updated.FeaturedImageOriginalName != "mouse.png" {
		t.Errorf("original name = %q, want untouched", updated.FeaturedImageOriginalName)
	}
}

func TestSystemUpdate_WithUploadReplacesBlob(t *testing.T) {
	sys, _, blobs := newTestSystem(t, maxUpload)
	ctx := context.Background()

	p, err := sys.Create(ctx, validForm(), &products.Upload{Filename: "old.png", Data: pngHeader})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	oldKey := *p.FeaturedImage

	updated, err := sys.Update(ctx, p.ID, validForm(), &products.Upload{Filename: "new.gif", Data: gifHeader})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.FeaturedImage == nil || *updated.FeaturedImage == oldKey {
		t.Fatal("featured image not replaced")
	}

	if updated.FeaturedImageOriginalName != "new.gif" {
		t.Errorf("original name = %q, want %q", updated.FeaturedImageOriginalName, "new.gif")
	}

	if exists, _ := blobs.Exists(ctx, oldKey); exists {
		t.Errorf("old blob %q still present", oldKey)
	}

	if exists, _ := blobs.Exists(ctx, *updated.FeaturedImage); !exists {
		t.Errorf("new blob %q missing", *updated.FeaturedImage)
	}
}

func TestSystemUpdate_NotFound(t *testing.T) {
	sys, _, _ := newTestSystem(t, maxUpload)

	_, err := sys.Update(context.Background(), uuid.New(), validForm(), nil)
	if !errors.Is(err, products.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestSystemDelete_RemovesRowAndBlob(t *testing.T) {
	sys, _, blobs := newTestSystem(t, maxUpload)
	ctx := context.Background()

	p, err := sys.Create(ctx, validForm(), &products.Upload{Filename: "mouse.png", Data: pngHeader})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	key := *p.FeaturedImage

	if err := sys.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := sys.Find(ctx, p.ID); !errors.Is(err, products.ErrNotFound) {
		t.Errorf("Find() after delete error = %v, want ErrNotFound", err)
	}

	if exists, _ := blobs.Exists(ctx, key); exists {
		t.Errorf("blob %q still present after delete", key)
	}
}

func TestSystemDelete_NotFound(t *testing.T) {
	sys, _, _ := newTestSystem(t, maxUpload)

	err := sys.Delete(context.Background(), uuid.New())
	if !errors.Is(err, products.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

// End-to-end: an upload above the configured ceiling is rejected with a
// field error instead of being truncated and stored.
func TestHandlerCreate_UploadAboveConfiguredLimit(t *testing.T) {
	sys, _, blobs := newTestSystem(t, 1024)

	views, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("web.NewRenderer() error = %v", err)
	}

	handler := products.NewHandler(
		sys,
		blobs,
		views,
		flash.NewStore(&config.SessionConfig{Name: "catalog_session", Secret: "test-secret"}),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 5, MaxPageSize: 100},
		1024,
	)

	mux := http.NewServeMux()
	handler.Register(mux)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("name", "Wireless Mouse")
	writer.WriteField("description", "A comfortable wireless mouse.")
	writer.WriteField("price", "29.99")

	part, err := writer.CreateFormFile("featured_image", "big.png")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	part.Write(append(pngHeader, bytes.Repeat([]byte{0}, 4096)...))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/products", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}

	if !strings.Contains(rec.Body.String(), "The featured image must not be larger than 2MB.") {
		t.Error("body missing upload size error")
	}

	if len(blobs.keys()) != 0 {
		t.Errorf("blob keys = %v, want nothing stored", blobs.keys())
	}
}

// gifHeader is a minimal payload http.DetectContentType reads as image/gif.
var gifHeader = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")
