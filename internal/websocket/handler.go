package websocket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/waliamehak/staff-attendance-portal/internal/ingest"
	"github.com/waliamehak/staff-attendance-portal/internal/repository"
	"github.com/waliamehak/staff-attendance-portal/internal/session"
	"github.com/waliamehak/staff-attendance-portal/internal/utils"
)

const writeWait = 10 * time.Second

type ClientInfo struct {
	UserID string
	Role   string
}

type WSMessage struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

type client struct {
	conn *websocket.Conn
	info ClientInfo
	wmu  sync.Mutex
}

func (cl *client) send(msg WSMessage) error {
	cl.wmu.Lock()
	defer cl.wmu.Unlock()
	_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return cl.conn.WriteJSON(msg)
}

// Hub is the live attendance feed for admins. It broadcasts every persisted
// upload and answers summary queries from connected clients.
type Hub struct {
	mu        sync.Mutex
	clients   map[*client]struct{}
	uploads   *session.Uploads
	repo      repository.AttendanceRepository
	adminRole string
	month     func(string) string
	upgrader  websocket.Upgrader
}

// NewHub builds the feed. month turns a requested month into its canonical
// form; it should share the upload service's clock.
func NewHub(uploads *session.Uploads, repo repository.AttendanceRepository, adminRole string, month func(string) string) *Hub {
	return &Hub{
		clients:   map[*client]struct{}{},
		uploads:   uploads,
		repo:      repo,
		adminRole: adminRole,
		month:     month,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // tokens gate access, not origins
			},
		},
	}
}

func (h *Hub) HandleWebSocket(c *gin.Context) {
	// grab token from query
	token := c.Query("token")
	if token == "" {
		utils.ErrorResponse(c, 401, "token missing")
		return
	}

	claims, err := utils.ValidateToken(token)
	if err != nil {
		utils.ErrorResponse(c, 401, "invalid token")
		return
	}
	if claims.Role != h.adminRole {
		utils.ErrorResponse(c, 403, "Forbidden, "+h.adminRole+" access required")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "error", err)
		return
	}

	cl := &client{conn: conn, info: ClientInfo{UserID: claims.UserID, Role: claims.Role}}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	slog.Info("feed client connected", "userId", claims.UserID)

	go h.readLoop(cl)
}

// AttendanceUploaded records the upload and pushes it to every client.
func (h *Hub) AttendanceUploaded(summary ingest.UploadSummary) {
	h.uploads.Set(summary)
	h.broadcast(WSMessage{Event: "ATTENDANCE_UPLOADED", Data: summaryData(summary)})
}

func (h *Hub) readLoop(cl *client) {
	defer h.remove(cl)

	for {
		var msg WSMessage
		if err := cl.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("feed read error", "error", err)
			}
			return
		}

		switch msg.Event {
		case "LAST_UPLOAD":
			h.handleLastUpload(cl)
		case "MONTH_SUMMARY":
			h.handleMonthSummary(cl, msg)
		default:
			h.sendError(cl, "unknown event type")
		}
	}
}

func (h *Hub) handleLastUpload(cl *client) {
	last, ok := h.uploads.Last()
	if !ok {
		h.sendTo(cl, WSMessage{Event: "LAST_UPLOAD", Data: map[string]interface{}{"upload": nil}})
		return
	}
	h.sendTo(cl, WSMessage{Event: "LAST_UPLOAD", Data: map[string]interface{}{"upload": summaryData(last)}})
}

func (h *Hub) handleMonthSummary(cl *client, msg WSMessage) {
	raw, _ := msg.Data["month"].(string)
	month := h.month(raw)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	data := map[string]interface{}{
		"month":        month,
		"records":      0,
		"requiredDays": 0,
		"attendedDays": 0,
		"absentDays":   0,
	}
	doc, err := h.repo.FindMonth(ctx, month)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		slog.Error("month summary lookup failed", "month", month, "error", err)
		h.sendError(cl, "failed to load month")
		return
	default:
		var req, att, ab int
		for _, rec := range doc.Records {
			req += rec.RequiredDays
			att += rec.AttendedDays
			ab += rec.AbsentDays
		}
		data["records"] = len(doc.Records)
		data["requiredDays"] = req
		data["attendedDays"] = att
		data["absentDays"] = ab
		data["sourceFileName"] = doc.SourceFileName
	}
	if last, ok := h.uploads.ForMonth(month); ok {
		data["lastUploadId"] = last.UploadID
		data["lastUploadedBy"] = last.UploadedBy
	}
	h.sendTo(cl, WSMessage{Event: "MONTH_SUMMARY", Data: data})
}

func summaryData(s ingest.UploadSummary) map[string]interface{} {
	return map[string]interface{}{
		"uploadId":       s.UploadID,
		"month":          s.Month,
		"sourceFileName": s.SourceFileName,
		"processedRows":  s.ProcessedRows,
		"skippedRows":    s.SkippedRows,
		"uploadedBy":     s.UploadedBy,
		"uploadedAt":     s.UploadedAt.Format(time.RFC3339),
	}
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	delete(h.clients, cl)
	h.mu.Unlock()
	cl.conn.Close()
	slog.Debug("feed client disconnected", "userId", cl.info.UserID)
}

// Close disconnects every feed client.
func (h *Hub) Close() {
	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		targets = append(targets, cl)
	}
	h.mu.Unlock()

	for _, cl := range targets {
		cl.wmu.Lock()
		_ = cl.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		cl.wmu.Unlock()
		h.remove(cl)
	}
}

// helper: send to single client
func (h *Hub) sendTo(cl *client, msg WSMessage) {
	if err := cl.send(msg); err != nil {
		slog.Debug("feed write error", "error", err)
	}
}

// helper: broadcast to all clients
func (h *Hub) broadcast(msg WSMessage) {
	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		targets = append(targets, cl)
	}
	h.mu.Unlock()

	for _, cl := range targets {
		if err := cl.send(msg); err != nil {
			slog.Debug("feed broadcast error", "error", err)
			h.remove(cl)
		}
	}
}

// helper: send error message
func (h *Hub) sendError(cl *client, message string) {
	h.sendTo(cl, WSMessage{
		Event: "ERROR",
		Data: map[string]interface{}{
			"message": message,
		},
	})
}
