package session

import (
	"testing"

	"github.com/waliamehak/staff-attendance-portal/internal/ingest"
)

func TestUploads(t *testing.T) {
	u := NewUploads()
	if _, ok := u.Last(); ok {
		t.Fatal("expected no uploads")
	}

	u.Set(ingest.UploadSummary{UploadID: "a", Month: "2024-03"})
	u.Set(ingest.UploadSummary{UploadID: "b", Month: "2024-04"})
	u.Set(ingest.UploadSummary{UploadID: "c", Month: "2024-03"})

	last, ok := u.Last()
	if !ok || last.UploadID != "c" {
		t.Fatalf("last = %+v", last)
	}
	if v, _ := u.ForMonth("2024-04"); v.UploadID != "b" {
		t.Fatalf("2024-04 = %+v", v)
	}
	if v, _ := u.ForMonth("2024-03"); v.UploadID != "c" {
		t.Fatalf("2024-03 = %+v", v)
	}

	u.Clear()
	if _, ok := u.ForMonth("2024-03"); ok {
		t.Fatal("expected cleared")
	}
	if _, ok := u.Last(); ok {
		t.Fatal("expected cleared")
	}
}
