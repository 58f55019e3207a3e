package processor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/fteye/pagemill/internal/converter"
	"github.com/fteye/pagemill/internal/domain"
	"github.com/fteye/pagemill/internal/pubsub"
	"github.com/fteye/pagemill/internal/storage"
)

// fakeDocStore is a minimal, mutex-guarded domain.DocumentRepository. The
// processor updates it from the subscription goroutine while the test polls.
type fakeDocStore struct {
	mu    sync.Mutex
	docs  map[string]*domain.Document
	pages map[string][]domain.PageContent

	// failPagesAfter makes CreatePages store that many pages and then fail,
	// simulating a mid-batch write error.
	failPagesAfter int
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{
		docs:  map[string]*domain.Document{},
		pages: map[string][]domain.PageContent{},
	}
}

func (f *fakeDocStore) add(doc *domain.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[doc.ID.String()] = doc
}

func (f *fakeDocStore) status(id string) (domain.DocumentStatus, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return "", ""
	}
	return doc.Status, doc.ErrorMessage
}

func (f *fakeDocStore) pageCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pages[id])
}

func (f *fakeDocStore) Create(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	f.add(doc)
	return doc, nil
}

func (f *fakeDocStore) FindByID(ctx context.Context, id string) (*domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeDocStore) FindByUser(ctx context.Context, userID *surrealmodels.RecordID) ([]*domain.Document, error) {
	return nil, nil
}

func (f *fakeDocStore) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errorMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Status = status
	doc.ErrorMessage = errorMessage
	return nil
}

func (f *fakeDocStore) Delete(ctx context.Context, id string) error { return nil }

func (f *fakeDocStore) CreatePages(ctx context.Context, docID *surrealmodels.RecordID, pages []domain.PageContent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPagesAfter > 0 && len(pages) > f.failPagesAfter {
		f.pages[docID.String()] = append(f.pages[docID.String()], pages[:f.failPagesAfter]...)
		return errors.New("write failed")
	}
	f.pages[docID.String()] = append(f.pages[docID.String()], pages...)
	return nil
}

func (f *fakeDocStore) FindPages(ctx context.Context, docID *surrealmodels.RecordID) ([]*domain.DocumentPage, error) {
	return nil, nil
}

func (f *fakeDocStore) FindPage(ctx context.Context, docID *surrealmodels.RecordID, pageNumber int) (*domain.DocumentPage, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeDocStore) UpdatePage(ctx context.Context, docID *surrealmodels.RecordID, pageNumber int, markdown string) error {
	return nil
}

func (f *fakeDocStore) DeletePages(ctx context.Context, docID *surrealmodels.RecordID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pages, docID.String())
	return nil
}

func testDoc(id string, sourceType domain.SourceType, content string) *domain.Document {
	rid := surrealmodels.NewRecordID("document", id)
	uid := surrealmodels.NewRecordID("user", "u1")
	return &domain.Document{
		ID:            &rid,
		UserID:        &uid,
		Title:         "Test",
		SourceType:    sourceType,
		SourceContent: content,
		Status:        domain.StatusPending,
	}
}

func startProcessor(t *testing.T, docs *fakeDocStore) (*pubsub.WatermillBridge, storage.Store) {
	t.Helper()

	bridge := pubsub.NewWatermillBridge()
	t.Cleanup(func() { _ = bridge.Close() })

	store := storage.NewAferoStore(afero.NewMemMapFs())
	proc := New(docs, store, bridge)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, proc.Start(ctx))

	return bridge, store
}

func TestProcessor(t *testing.T) {
	longText := strings.Repeat("Readable content for the processor test. ", 5)

	t.Run("completes a TEXT document end to end", func(t *testing.T) {
		docs := newFakeDocStore()
		doc := testDoc("ok", domain.SourceText, longText)
		docs.add(doc)

		bridge, _ := startProcessor(t, docs)
		require.NoError(t, Publish(context.Background(), bridge, doc.ID.String(), "user:u1"))

		require.Eventually(t, func() bool {
			status, _ := docs.status("document:ok")
			return status == domain.StatusCompleted
		}, 3*time.Second, 10*time.Millisecond)

		assert.Equal(t, 1, docs.pageCount("document:ok"))
		_, errMsg := docs.status("document:ok")
		assert.Empty(t, errMsg)
	})

	t.Run("marks a document FAILED when no readable text is found", func(t *testing.T) {
		docs := newFakeDocStore()
		doc := testDoc("short", domain.SourceText, "tiny")
		docs.add(doc)

		bridge, _ := startProcessor(t, docs)
		require.NoError(t, Publish(context.Background(), bridge, doc.ID.String(), "user:u1"))

		require.Eventually(t, func() bool {
			status, _ := docs.status("document:short")
			return status == domain.StatusFailed
		}, 3*time.Second, 10*time.Millisecond)

		_, errMsg := docs.status("document:short")
		assert.Equal(t, "Processing failed: no readable text", errMsg)
	})

	t.Run("processes a stored file source", func(t *testing.T) {
		docs := newFakeDocStore()
		doc := testDoc("file", domain.SourceFile, "uploads/u1/notes.txt")
		docs.add(doc)

		bridge, store := startProcessor(t, docs)
		_, err := store.Save(context.Background(), "uploads/u1/notes.txt", strings.NewReader(longText))
		require.NoError(t, err)

		require.NoError(t, Publish(context.Background(), bridge, doc.ID.String(), "user:u1"))

		require.Eventually(t, func() bool {
			status, _ := docs.status("document:file")
			return status == domain.StatusCompleted
		}, 3*time.Second, 10*time.Millisecond)
	})

	t.Run("removes partial pages when saving fails mid-batch", func(t *testing.T) {
		docs := newFakeDocStore()
		docs.failPagesAfter = 1
		doc := testDoc("partial", domain.SourceText, longText+"\f"+longText)
		docs.add(doc)

		bridge, _ := startProcessor(t, docs)
		require.NoError(t, Publish(context.Background(), bridge, doc.ID.String(), "user:u1"))

		require.Eventually(t, func() bool {
			status, _ := docs.status("document:partial")
			return status == domain.StatusFailed
		}, 3*time.Second, 10*time.Millisecond)

		_, errMsg := docs.status("document:partial")
		assert.Equal(t, "Processing failed: could not save pages", errMsg)
		assert.Equal(t, 0, docs.pageCount("document:partial"))
	})

	t.Run("ignores requests for unknown documents", func(t *testing.T) {
		docs := newFakeDocStore()
		bridge, _ := startProcessor(t, docs)

		require.NoError(t, Publish(context.Background(), bridge, "document:ghost", "user:u1"))

		// The handler logs and acks; nothing to assert beyond not panicking,
		// so give the goroutine a moment to consume the message.
		time.Sleep(100 * time.Millisecond)
	})
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, "Failed to fetch URL content", failureMessage(converter.ErrFetch))
	assert.Equal(t, "Processing failed: no readable text", failureMessage(converter.ErrNoReadableText))
	assert.Equal(t, "unsupported file format", failureMessage(converter.ErrUnsupportedFormat))
	assert.Equal(t, "Processing failed: unsupported or corrupted content", failureMessage(context.DeadlineExceeded))
}
