package provider

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// memoryStorage is a minimal in-memory Storage for provider tests.
type memoryStorage struct {
	objects map[string]string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string]string{}}
}

func (m *memoryStorage) Put(ctx context.Context, key string, data io.Reader, opts storage.PutOptions) error {
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.objects[key] = string(b)
	return nil
}

func (m *memoryStorage) Get(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	body, ok := m.objects[key]
	if !ok {
		return nil, storage.ObjectInfo{}, &storage.StorageError{Op: "Get", Key: key, Err: storage.ErrNotFound}
	}
	return io.NopCloser(strings.NewReader(body)), storage.ObjectInfo{Key: key, Size: int64(len(body))}, nil
}

func (m *memoryStorage) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) URL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "mem://" + key, nil
}

func (m *memoryStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.objects[key]
	return ok, nil
}

var _ storage.Storage = (*memoryStorage)(nil)

// =============================================================================
// Registry
// =============================================================================

func TestRegistry(t *testing.T) {
	store := newMemoryStorage()
	reg := NewRegistry(
		NewHTMLExportProvider(store, testLogger()),
		NewSMTPProvider(SMTPConfig{Host: "localhost", Port: 1025}, testLogger()),
	)

	p, err := reg.Get("html_export")
	if err != nil {
		t.Fatalf("Get(html_export): %v", err)
	}
	if p.Name() != "html_export" {
		t.Errorf("Name = %q", p.Name())
	}

	if _, err := reg.Get("carrier_pigeon"); domain.ErrorCode(err) != domain.ENOTFOUND {
		t.Errorf("unknown provider must report not_found, got: %v", err)
	}

	if got := len(reg.Names()); got != 2 {
		t.Errorf("Names() returned %d entries, want 2", got)
	}
}

// =============================================================================
// HTML Export
// =============================================================================

func TestHTMLExportProvider_Deliver(t *testing.T) {
	store := newMemoryStorage()
	p := NewHTMLExportProvider(store, testLogger())

	campaign := domain.Campaign{
		ID:         uuid.New(),
		TemplateID: uuid.New(),
		Subject:    "Hello",
		HTML:       "<!DOCTYPE html><html></html>",
	}

	if err := p.Deliver(context.Background(), campaign); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	key := storage.ExportKey(campaign.TemplateID, campaign.ID)
	if got := store.objects[key]; got != campaign.HTML {
		t.Errorf("stored document mismatch at %q: %q", key, got)
	}
}

// =============================================================================
// SMTP
// =============================================================================

func TestSMTPProvider_DeliverRequiresRecipients(t *testing.T) {
	p := NewSMTPProvider(SMTPConfig{Host: "localhost", Port: 1025}, testLogger())

	err := p.Deliver(context.Background(), domain.Campaign{Subject: "x", HTML: "<p>x</p>"})
	if domain.ErrorCode(err) != domain.EINVALID {
		t.Errorf("campaign without recipients must be invalid, got: %v", err)
	}
}

func TestSMTPProvider_BuildMessage(t *testing.T) {
	p := NewSMTPProvider(SMTPConfig{
		From:     "news@example.com",
		FromName: "Example News",
	}, testLogger())

	msg := string(p.buildMessage(domain.Campaign{
		Subject:    "Weekly Digest",
		HTML:       "<p>body</p>",
		Recipients: []string{"a@example.com", "b@example.com"},
	}))

	for _, want := range []string{
		"From: Example News <news@example.com>\r\n",
		"To: a@example.com, b@example.com\r\n",
		"Subject: Weekly Digest\r\n",
		"MIME-Version: 1.0\r\n",
		"Content-Type: text/html; charset=utf-8\r\n",
		"\r\n\r\n<p>body</p>",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}
