package ingest

import "fmt"

// Stage is a step of the upload pipeline. Stages run in declaration order
// and a failure at any of them ends the upload.
type Stage int

const (
	StageReceived Stage = iota
	StageFileValidated
	StageDecoded
	StageSheetResolved
	StageHeadersResolved
	StageRowsProcessed
	StagePersisted
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageReceived:
		return "received"
	case StageFileValidated:
		return "file_validated"
	case StageDecoded:
		return "decoded"
	case StageSheetResolved:
		return "sheet_resolved"
	case StageHeadersResolved:
		return "headers_resolved"
	case StageRowsProcessed:
		return "rows_processed"
	case StagePersisted:
		return "persisted"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// IngestError is a problem with the uploaded file itself. Message is safe to
// show to the uploader; Stage is the step that rejected the file.
type IngestError struct {
	Stage   Stage
	Message string
	Err     error
}

func (e *IngestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *IngestError) Unwrap() error { return e.Err }

func rejectf(stage Stage, err error, format string, args ...any) *IngestError {
	return &IngestError{Stage: stage, Message: fmt.Sprintf(format, args...), Err: err}
}
