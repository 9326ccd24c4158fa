package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/pyoutline/internal/doctree"
)

func TestContentHashHex(t *testing.T) {
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if got := ContentHashHex([]byte("hello world")); got != want {
		t.Errorf("expected hash %q, got %q", want, got)
	}
	if ContentHashHex([]byte("aaa")) == ContentHashHex([]byte("bbb")) {
		t.Error("expected different hashes for different inputs")
	}
}

func TestNewJob(t *testing.T) {
	job := NewJob("proj", []Upload{{Filename: "a.py"}, {Filename: "b.py"}})
	if job.ID == "" {
		t.Fatal("expected generated ID")
	}
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}
	if job.Progress.FilesTotal != 2 {
		t.Errorf("expected 2 files, got %d", job.Progress.FilesTotal)
	}
	if len(job.Filenames) != 2 || job.Filenames[1] != "b.py" {
		t.Errorf("unexpected filenames %v", job.Filenames)
	}
	if other := NewJob("proj", nil); other.ID == job.ID {
		t.Error("expected unique job IDs")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("p", nil)

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing"},
		{StatusPublishing, "publishing"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
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

func TestJobStatus_Terminal(t *testing.T) {
	for _, s := range []JobStatus{StatusCompleted, StatusFailed, StatusPartial} {
		if !s.Terminal() {
			t.Errorf("expected %q to be terminal", s)
		}
	}
	for _, s := range []JobStatus{StatusQueued, StatusParsing, StatusPublishing} {
		if s.Terminal() {
			t.Errorf("expected %q not to be terminal", s)
		}
	}
}

func TestJob_Progress(t *testing.T) {
	job := NewJob("p", []Upload{{Filename: "a.py"}})
	job.FileParsed(3)
	job.FileParsed(2)
	job.AddPublished(4)
	job.AddError("publish a.py/x failed")

	snap := job.Snapshot()
	if snap.Progress.FilesParsed != 2 {
		t.Errorf("expected 2 files parsed, got %d", snap.Progress.FilesParsed)
	}
	if snap.Progress.Definitions != 5 {
		t.Errorf("expected 5 definitions, got %d", snap.Progress.Definitions)
	}
	if snap.Progress.EntriesPublished != 4 {
		t.Errorf("expected 4 published, got %d", snap.Progress.EntriesPublished)
	}
	if len(snap.Progress.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(snap.Progress.Errors))
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	snap := NewJob("p", nil).Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
}

func TestJob_SetForestReleasesUploads(t *testing.T) {
	job := NewJob("p", []Upload{{Filename: "a.py", Data: []byte("def f(): pass\n")}})
	if len(job.Uploads()) != 1 {
		t.Fatal("expected uploads before parsing")
	}
	if job.Forest() != nil {
		t.Fatal("expected nil forest before parsing")
	}
	job.SetForest(doctree.NewForest())
	if job.Uploads() != nil {
		t.Error("expected uploads released after SetForest")
	}
	if job.Forest() == nil {
		t.Error("expected forest to be stored")
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob("p", nil)
	store.Put(job)

	if got := store.Get(job.ID); got != job {
		t.Fatal("expected to get job back")
	}
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job, got %d", store.Len())
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	time.Sleep(100 * time.Millisecond)

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
