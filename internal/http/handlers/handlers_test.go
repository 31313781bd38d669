// Shared test doubles and helpers for the handler tests. Each fake implements
// the corresponding service interface through function fields so a test can
// override exactly the calls it cares about.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arpusjateng/docchat-backend/internal/domain"
	"github.com/arpusjateng/docchat-backend/internal/services"
)

type fakeDocSvc struct {
	ingest func(ctx context.Context, files []services.UploadInput) ([]services.UploadedDocument, error)
	get    func(ctx context.Context, id string) (*domain.Document, error)
	list   func(ctx context.Context) ([]domain.Document, error)
	recent func(ctx context.Context, limit int) ([]domain.Document, error)
	count  func(ctx context.Context) (int64, error)
	delete func(ctx context.Context, id string) error
}

func (f *fakeDocSvc) Ingest(ctx context.Context, files []services.UploadInput) ([]services.UploadedDocument, error) {
	return f.ingest(ctx, files)
}
func (f *fakeDocSvc) Get(ctx context.Context, id string) (*domain.Document, error) {
	return f.get(ctx, id)
}
func (f *fakeDocSvc) List(ctx context.Context) ([]domain.Document, error) { return f.list(ctx) }
func (f *fakeDocSvc) Recent(ctx context.Context, limit int) ([]domain.Document, error) {
	return f.recent(ctx, limit)
}
func (f *fakeDocSvc) Count(ctx context.Context) (int64, error) { return f.count(ctx) }
func (f *fakeDocSvc) Delete(ctx context.Context, id string) error {
	return f.delete(ctx, id)
}

type fakeChatSvc struct {
	answer func(ctx context.Context, message string, documentIDs []string, isPredefined bool) (*services.ChatResult, error)
}

func (f *fakeChatSvc) Answer(ctx context.Context, message string, documentIDs []string, isPredefined bool) (*services.ChatResult, error) {
	return f.answer(ctx, message, documentIDs, isPredefined)
}

type fakeHistSvc struct {
	recent    func(ctx context.Context, limit int) ([]domain.ChatTurn, error)
	delete    func(ctx context.Context, id int64) error
	deleteAll func(ctx context.Context) (int64, error)
	count     func(ctx context.Context) (int64, error)
}

func (f *fakeHistSvc) Recent(ctx context.Context, limit int) ([]domain.ChatTurn, error) {
	return f.recent(ctx, limit)
}
func (f *fakeHistSvc) Delete(ctx context.Context, id int64) error { return f.delete(ctx, id) }
func (f *fakeHistSvc) DeleteAll(ctx context.Context) (int64, error) {
	return f.deleteAll(ctx)
}
func (f *fakeHistSvc) Count(ctx context.Context) (int64, error) { return f.count(ctx) }

type fakeAIHealth struct {
	err error
}

func (f *fakeAIHealth) Ping(context.Context) error { return f.err }

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("handler_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(
		&domain.Document{},
		&domain.ChatTurn{},
		&domain.TurnDocument{},
		&domain.Idempotency{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// decodeJSON unmarshals a recorder body into out, failing the test on error.
func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %s: %v", w.Body.String(), err)
	}
}

// multipartBody builds a multipart form with one "files" part per name.
func multipartBody(t *testing.T, names ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, n := range names {
		part, err := mw.CreateFormFile("files", n)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte("isi " + n)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

// doJSONRequest builds a JSON request; a nil payload sends an empty body.
func doJSONRequest(method, target string, payload any) *http.Request {
	var body *bytes.Buffer
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(r *gin.Engine, method, target string, payload any) *httptest.ResponseRecorder {
	return serve(r, doJSONRequest(method, target, payload))
}

func init() {
	gin.SetMode(gin.TestMode)
}
