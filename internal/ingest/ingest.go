package ingest

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/waliamehak/staff-attendance-portal/internal/models"
)

// MonthStore persists a month of attendance, replacing whatever was stored
// for that month before.
type MonthStore interface {
	ReplaceMonth(ctx context.Context, doc models.AttendanceMonth) (*models.AttendanceMonth, error)
}

// StaffResolver maps employee names (lower-cased) to staff ids.
type StaffResolver interface {
	ResolveNames(ctx context.Context, names []string) (map[string]primitive.ObjectID, error)
}

// Notifier is told about every upload that was persisted.
type Notifier interface {
	AttendanceUploaded(summary UploadSummary)
}

type Upload struct {
	FileName   string
	Data       []byte
	Month      string
	UploadedBy string
}

type UploadSummary struct {
	UploadID       string    `json:"uploadId"`
	Month          string    `json:"month"`
	SourceFileName string    `json:"sourceFileName"`
	ProcessedRows  int       `json:"processedRows"`
	SkippedRows    int       `json:"skippedRows"`
	UploadedBy     string    `json:"uploadedBy,omitempty"`
	UploadedAt     time.Time `json:"uploadedAt"`
}

type Result struct {
	UploadSummary
	Stage    Stage                   `json:"stage"`
	Document *models.AttendanceMonth `json:"document"`
	Skipped  []SkippedRow            `json:"skipped"`
}

type Service struct {
	store    MonthStore
	staff    StaffResolver
	notifier Notifier
	maxBytes int64
	now      func() time.Time
	logger   *slog.Logger
}

type Option func(*Service)

func WithStaffResolver(r StaffResolver) Option { return func(s *Service) { s.staff = r } }

func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }

func WithMaxUploadBytes(n int64) Option { return func(s *Service) { s.maxBytes = n } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

func NewService(store MonthStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Month returns the canonical month for a requested value, defaulting to
// the current month.
func (s *Service) Month(value string) string {
	return NormalizeMonth(value, s.now())
}

// Ingest runs an uploaded workbook through the whole pipeline and replaces
// the stored records of the target month. Problems with the file come back
// as *IngestError; any other error is an infrastructure failure.
func (s *Service) Ingest(ctx context.Context, up Upload) (*Result, error) {
	if err := s.validateFile(up); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(up.Data))
	if err != nil {
		return nil, rejectf(StageDecoded, err,
			"Could not read the Excel file (%v). Make sure it is a valid .xlsx workbook and is not password-protected.", err)
	}
	defer f.Close()

	sheet := resolveSheet(f)
	if sheet == "" {
		return nil, rejectf(StageSheetResolved, nil, "No worksheet found in the uploaded workbook.")
	}
	rows, err := readSheet(f, sheet)
	if err != nil {
		return nil, rejectf(StageSheetResolved, err, "Could not read worksheet %q.", sheet)
	}
	if len(rows) == 0 {
		return nil, rejectf(StageSheetResolved, nil, "Worksheet %q is empty.", sheet)
	}

	cols, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	tally := ProcessRows(rows[1:], cols, s.logger)
	if len(tally.Records) == 0 {
		return nil, rejectf(StageRowsProcessed, nil,
			"No valid records found. Each row needs a name and an attendance value such as 20/18.")
	}

	s.linkEmployees(ctx, tally.Records)

	summary := UploadSummary{
		UploadID:       uuid.New().String(),
		Month:          s.Month(up.Month),
		SourceFileName: up.FileName,
		ProcessedRows:  tally.Processed,
		SkippedRows:    len(tally.Skipped),
		UploadedBy:     up.UploadedBy,
		UploadedAt:     s.now().UTC(),
	}

	saved, err := s.store.ReplaceMonth(ctx, models.AttendanceMonth{
		Month:          summary.Month,
		SourceFileName: up.FileName,
		Records:        tally.Records,
		UploadedBy:     up.UploadedBy,
		UpdatedAt:      summary.UploadedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("save attendance for %s: %w", summary.Month, err)
	}

	s.logger.Info("attendance uploaded",
		"uploadId", summary.UploadID,
		"month", summary.Month,
		"file", up.FileName,
		"sheet", sheet,
		"processed", summary.ProcessedRows,
		"skipped", summary.SkippedRows,
	)
	if s.notifier != nil {
		s.notifier.AttendanceUploaded(summary)
	}

	return &Result{UploadSummary: summary, Stage: StagePersisted, Document: saved, Skipped: tally.Skipped}, nil
}

func (s *Service) validateFile(up Upload) error {
	if strings.TrimSpace(up.FileName) == "" && len(up.Data) == 0 {
		return rejectf(StageFileValidated, nil, "No file uploaded. Attach an .xlsx workbook in the 'file' field.")
	}
	if len(up.Data) == 0 {
		return rejectf(StageFileValidated, nil, "The uploaded file %q is empty.", up.FileName)
	}
	if s.maxBytes > 0 && int64(len(up.Data)) > s.maxBytes {
		return rejectf(StageFileValidated, nil, "The uploaded file is larger than the %d byte limit.", s.maxBytes)
	}
	switch ext := strings.ToLower(filepath.Ext(up.FileName)); ext {
	case ".xlsx":
		return nil
	case ".xls":
		return rejectf(StageFileValidated, nil,
			"Legacy .xls files are not supported. Open the file in Excel and save it as an Excel Workbook (.xlsx), then upload it again.")
	default:
		return rejectf(StageFileValidated, nil, "Unsupported file type %q. Only .xlsx files are accepted.", ext)
	}
}

// sheetStrategies are tried in order; the first that names a sheet wins.
var sheetStrategies = []func(f *excelize.File) string{
	func(f *excelize.File) string {
		if list := f.GetSheetList(); len(list) > 0 {
			return list[0]
		}
		return ""
	},
	func(f *excelize.File) string {
		return f.GetSheetMap()[1]
	},
	func(f *excelize.File) string {
		sheets := f.GetSheetMap()
		ids := make([]int, 0, len(sheets))
		for id := range sheets {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			if sheets[id] != "" {
				return sheets[id]
			}
		}
		return ""
	},
	func(f *excelize.File) string {
		if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx >= 0 {
			return "Sheet1"
		}
		return ""
	},
}

func resolveSheet(f *excelize.File) string {
	for _, strategy := range sheetStrategies {
		if name := strategy(f); name != "" {
			return name
		}
	}
	return ""
}

func resolveColumns(headerRow Row) (Columns, error) {
	headers := HeadersFromRow(headerRow.Texts())

	cols := Columns{Serial: -1, Absent: -1}
	var missing []string
	if col, ok := ResolveColumn(headers, NameTerms); ok {
		cols.Name = col
	} else {
		missing = append(missing, "Name")
	}
	if col, ok := ResolveColumn(headers, AttendTerms); ok {
		cols.Attend = col
	} else {
		missing = append(missing, "Attend (Req/Act)")
	}
	if col, ok := ResolveColumn(headers, SerialTerms); ok {
		cols.Serial = col
	}
	if col, ok := ResolveColumn(headers, AbsentTerms); ok {
		cols.Absent = col
	}

	if len(missing) > 0 {
		found := make([]string, len(headers))
		for i, h := range headers {
			found[i] = strings.TrimSpace(h.Text)
		}
		return Columns{}, rejectf(StageHeadersResolved, nil,
			"Required column(s) not found: %s. Headers found in row 1: [%s].",
			strings.Join(missing, ", "), strings.Join(found, ", "))
	}
	return cols, nil
}

func (s *Service) linkEmployees(ctx context.Context, records []models.AttendanceRecord) {
	if s.staff == nil {
		return
	}
	names := make([]string, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		key := strings.ToLower(rec.Name)
		if !seen[key] {
			seen[key] = true
			names = append(names, rec.Name)
		}
	}

	ids, err := s.staff.ResolveNames(ctx, names)
	if err != nil {
		s.logger.Warn("employee lookup failed, storing records unlinked", "error", err)
		return
	}
	for i := range records {
		if id, ok := ids[strings.ToLower(records[i].Name)]; ok {
			records[i].Employee = &id
		}
	}
}
