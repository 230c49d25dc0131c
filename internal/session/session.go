package session

import (
	"sync"

	"github.com/waliamehak/staff-attendance-portal/internal/ingest"
)

// Uploads remembers the most recent upload per month and overall. It is
// process-local and resets on restart.
type Uploads struct {
	mu      sync.RWMutex
	last    *ingest.UploadSummary
	byMonth map[string]ingest.UploadSummary
}

func NewUploads() *Uploads {
	return &Uploads{byMonth: map[string]ingest.UploadSummary{}}
}

func (u *Uploads) Set(v ingest.UploadSummary) {
	u.mu.Lock()
	u.last = &v
	u.byMonth[v.Month] = v
	u.mu.Unlock()
}

func (u *Uploads) Last() (ingest.UploadSummary, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.last == nil {
		return ingest.UploadSummary{}, false
	}
	return *u.last, true
}

func (u *Uploads) ForMonth(month string) (ingest.UploadSummary, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	v, ok := u.byMonth[month]
	return v, ok
}

func (u *Uploads) Clear() {
	u.mu.Lock()
	u.last = nil
	u.byMonth = map[string]ingest.UploadSummary{}
	u.mu.Unlock()
}
