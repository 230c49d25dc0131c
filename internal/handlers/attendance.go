package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/waliamehak/staff-attendance-portal/internal/ingest"
	"github.com/waliamehak/staff-attendance-portal/internal/models"
	"github.com/waliamehak/staff-attendance-portal/internal/repository"
	"github.com/waliamehak/staff-attendance-portal/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AttendanceHandler struct {
	svc      *ingest.Service
	repo     repository.AttendanceRepository
	maxBytes int64
}

func NewAttendanceHandler(svc *ingest.Service, repo repository.AttendanceRepository, maxBytes int64) *AttendanceHandler {
	return &AttendanceHandler{svc: svc, repo: repo, maxBytes: maxBytes}
}

type uploadResponse struct {
	*models.AttendanceMonth
	UploadID      string              `json:"uploadId"`
	ProcessedRows int                 `json:"processedRows"`
	SkippedRows   int                 `json:"skippedRows"`
	Skipped       []ingest.SkippedRow `json:"skipped"`
}

func (h *AttendanceHandler) Upload(c *gin.Context) {
	if h.maxBytes > 0 {
		// room for the multipart envelope and the month field
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)
	}

	up := ingest.Upload{
		Month:      c.PostForm("month"),
		UploadedBy: c.GetString("userId"),
	}

	fh, err := c.FormFile("file")
	switch {
	case err == nil:
		up.FileName = fh.Filename
		f, err := fh.Open()
		if err != nil {
			utils.ErrorResponse(c, 400, "Could not open the uploaded file.")
			return
		}
		defer f.Close()
		limit := h.maxBytes
		if limit <= 0 {
			limit = 32 << 20
		}
		up.Data, err = io.ReadAll(io.LimitReader(f, limit+1))
		if err != nil {
			utils.ErrorResponse(c, 400, "Could not read the uploaded file.")
			return
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// an empty Upload is reported by the service as a missing file
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ErrorResponse(c, 400, fmt.Sprintf("The uploaded file is larger than the %d byte limit.", h.maxBytes))
			return
		}
		utils.ErrorResponse(c, 400, "Could not read the upload form. Send the workbook as multipart/form-data in the 'file' field.")
		return
	}

	res, err := h.svc.Ingest(c.Request.Context(), up)
	if err != nil {
		var ie *ingest.IngestError
		if errors.As(err, &ie) {
			utils.ErrorResponse(c, 400, ie.Message)
			return
		}
		slog.Error("attendance upload failed", "file", up.FileName, "error", err)
		utils.ErrorResponse(c, 500, "Internal server error")
		return
	}

	utils.SuccessResponse(c, 200,
		fmt.Sprintf("Attendance for %s uploaded: %d rows processed, %d skipped.", res.Month, res.ProcessedRows, res.SkippedRows),
		uploadResponse{
			AttendanceMonth: res.Document,
			UploadID:        res.UploadID,
			ProcessedRows:   res.ProcessedRows,
			SkippedRows:     res.SkippedRows,
			Skipped:         res.Skipped,
		})
}

func (h *AttendanceHandler) Get(c *gin.Context) {
	month := h.svc.Month(c.Query("month"))

	doc, err := h.repo.FindMonth(c.Request.Context(), month)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.SuccessResponse(c, 200, "", models.AttendanceMonth{
				Month:   month,
				Records: []models.AttendanceRecord{},
			})
			return
		}
		slog.Error("load attendance month failed", "month", month, "error", err)
		utils.ErrorResponse(c, 500, "Internal server error")
		return
	}
	if doc.Records == nil {
		doc.Records = []models.AttendanceRecord{}
	}

	utils.SuccessResponse(c, 200, "", doc)
}

func (h *AttendanceHandler) ListMonths(c *gin.Context) {
	months, err := h.repo.ListMonths(c.Request.Context())
	if err != nil {
		slog.Error("list attendance months failed", "error", err)
		utils.ErrorResponse(c, 500, "Internal server error")
		return
	}
	utils.SuccessResponse(c, 200, "", months)
}

func (h *AttendanceHandler) Export(c *gin.Context) {
	month := h.svc.Month(c.Query("month"))

	doc, err := h.repo.FindMonth(c.Request.Context(), month)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.ErrorResponse(c, 404, "No attendance uploaded for "+month)
			return
		}
		slog.Error("load attendance month failed", "month", month, "error", err)
		utils.ErrorResponse(c, 500, "Internal server error")
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, ingest.ExportFileName(month)))
	c.Status(200)
	if err := ingest.WriteWorkbook(c.Writer, doc); err != nil {
		slog.Error("export attendance failed", "month", month, "error", err)
		_ = c.Error(err)
	}
}
