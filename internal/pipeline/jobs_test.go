package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ooguz/odttomd/internal/convert"
	"github.com/ooguz/odttomd/internal/doctree"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	// SHA-256 of empty input is well-known.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestNewJob(t *testing.T) {
	data := []byte("hello world")
	job := NewJob("report.odt", "Report", data)

	if _, err := uuid.Parse(job.ID); err != nil {
		t.Errorf("expected a UUID job ID, got %q: %v", job.ID, err)
	}
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}
	if job.ContentHash != ContentHashHex(data) {
		t.Errorf("unexpected content hash %q", job.ContentHash)
	}
	if string(job.FileData()) != "hello world" {
		t.Errorf("unexpected file data %q", job.FileData())
	}
	if job.Snapshot().Progress.InputBytes != len(data) {
		t.Errorf("expected input bytes %d, got %d", len(data), job.Snapshot().Progress.InputBytes)
	}
	if other := NewJob("report.odt", "", data); other.ID == job.ID {
		t.Error("expected distinct job IDs")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusConverting, "converting"},
		{StatusConverting, "outlining"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_Fail(t *testing.T) {
	job := NewJob("x.odt", "", []byte("data"))
	job.Fail("converting", &convert.SyntaxError{Phase: convert.PhaseFeed, Line: 3, Err: errors.New("bad token")})

	snap := job.Snapshot()
	if snap.Status != StatusFailed || snap.Phase != "converting" {
		t.Errorf("expected failed/converting, got %s/%s", snap.Status, snap.Phase)
	}
	if job.ErrorKind() != KindMalformed {
		t.Errorf("expected kind %q, got %q", KindMalformed, job.ErrorKind())
	}
	if snap.Progress.ErrorKind != string(KindMalformed) {
		t.Errorf("expected snapshot kind %q, got %q", KindMalformed, snap.Progress.ErrorKind)
	}
	if len(snap.Progress.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(snap.Progress.Errors))
	}
	if job.FileData() != nil {
		t.Error("expected upload to be released after failure")
	}
}

func TestJob_Complete(t *testing.T) {
	job := NewJob("x.odt", "", []byte("data"))
	tree := &doctree.DocTree{Title: "x", Children: []*doctree.DocNode{
		{Title: "1 A", Level: 1, Children: []*doctree.DocNode{{Title: "1.1 B", Level: 2}}},
	}}
	job.Complete([]byte("# 1 A\n\n"), tree)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted || snap.Phase != "done" {
		t.Errorf("expected completed/done, got %s/%s", snap.Status, snap.Phase)
	}
	if snap.Progress.MarkdownBytes != 7 || snap.Progress.Sections != 2 {
		t.Errorf("unexpected progress %+v", snap.Progress)
	}
	md, outline := job.Result()
	if string(md) != "# 1 A\n\n" || outline != tree {
		t.Errorf("unexpected result %q %v", md, outline)
	}
	if job.ErrorKind() != "" {
		t.Errorf("expected no error kind, got %q", job.ErrorKind())
	}
}

func TestJob_ReuseFrom(t *testing.T) {
	src := NewJob("first.odt", "", []byte("same"))
	src.Complete([]byte("body\n\n"), &doctree.DocTree{Title: "first"})

	job := NewJob("second.odt", "", []byte("same"))
	job.ReuseFrom(src)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted || snap.ReusedFrom != src.ID {
		t.Errorf("expected completed reuse of %s, got %+v", src.ID, snap)
	}
	md, outline := job.Result()
	if string(md) != "body\n\n" {
		t.Errorf("unexpected markdown %q", md)
	}
	if outline.Title != "second" {
		t.Errorf("expected outline retitled to %q, got %q", "second", outline.Title)
	}
	if _, srcOutline := src.Result(); srcOutline.Title != "first" {
		t.Errorf("source outline was modified: %q", srcOutline.Title)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job, got %d", store.Len())
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_FindCompleted(t *testing.T) {
	store := NewJobStore(time.Hour)

	queued := NewJob("a.odt", "", []byte("same"))
	store.Put(queued)
	if store.FindCompleted(queued.ContentHash) != nil {
		t.Error("queued job must not be offered for reuse")
	}

	done := NewJob("b.odt", "", []byte("same"))
	done.Complete([]byte("x"), nil)
	store.Put(done)
	if got := store.FindCompleted(done.ContentHash); got != done {
		t.Errorf("expected completed job %s, got %v", done.ID, got)
	}
	if store.FindCompleted(ContentHashHex([]byte("other"))) != nil {
		t.Error("expected no match for different content")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}

func TestJobStore_ListAndDelete(t *testing.T) {
	store := NewJobStore(time.Hour)
	base := time.Now()
	for i, id := range []string{"c", "a", "b"} {
		store.Put(&Job{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Second), UpdatedAt: base})
	}

	snaps := store.List()
	if len(snaps) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(snaps))
	}
	for i, want := range []string{"c", "a", "b"} {
		if snaps[i].ID != want {
			t.Errorf("position %d: expected %q, got %q", i, want, snaps[i].ID)
		}
	}

	if !store.Delete("a") {
		t.Error("expected delete of existing job to report true")
	}
	if store.Delete("a") {
		t.Error("expected second delete to report false")
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 jobs, got %d", store.Len())
	}
}
