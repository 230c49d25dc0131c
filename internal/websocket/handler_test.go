package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/waliamehak/staff-attendance-portal/internal/ingest"
	"github.com/waliamehak/staff-attendance-portal/internal/models"
	"github.com/waliamehak/staff-attendance-portal/internal/repository"
	"github.com/waliamehak/staff-attendance-portal/internal/session"
	"github.com/waliamehak/staff-attendance-portal/internal/utils"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubRepo struct {
	months map[string]models.AttendanceMonth
}

func (s *stubRepo) ReplaceMonth(_ context.Context, doc models.AttendanceMonth) (*models.AttendanceMonth, error) {
	s.months[doc.Month] = doc
	return &doc, nil
}

func (s *stubRepo) FindMonth(_ context.Context, month string) (*models.AttendanceMonth, error) {
	doc, ok := s.months[month]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

func (s *stubRepo) ListMonths(context.Context) ([]models.AttendanceMonthSummary, error) {
	return nil, nil
}

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := utils.InitTokens(utils.TokenConfig{Secret: testSecret}); err != nil {
		t.Fatal(err)
	}

	repo := &stubRepo{months: map[string]models.AttendanceMonth{
		"2024-03": {
			Month:          "2024-03",
			SourceFileName: "march.xlsx",
			Records: []models.AttendanceRecord{
				{Name: "Jane Doe", RequiredDays: 20, AttendedDays: 18, AbsentDays: 2},
				{Name: "John Roe", RequiredDays: 20, AttendedDays: 20},
			},
		},
	}}
	clock := func() time.Time { return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC) }
	hub := NewHub(session.NewUploads(), repo, "admin", func(v string) string {
		return ingest.NormalizeMonth(v, clock())
	})

	r := gin.New()
	r.GET("/ws", hub.HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url, role string) *websocket.Conn {
	t.Helper()
	tok, err := utils.SignToken("auth0|"+role, role, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+tok, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, out WSMessage) WSMessage {
	t.Helper()
	if err := conn.WriteJSON(out); err != nil {
		t.Fatal(err)
	}
	return read(t, conn)
}

func read(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var in WSMessage
	if err := conn.ReadJSON(&in); err != nil {
		t.Fatalf("read: %v", err)
	}
	return in
}

func TestFeedRejectsNonAdmin(t *testing.T) {
	_, url := startHub(t)

	tok, err := utils.SignToken("auth0|staff", "staff", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	_, resp, err := websocket.DefaultDialer.Dial(url+"?token="+tok, nil)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("response = %+v", resp)
	}

	_, resp, err = websocket.DefaultDialer.Dial(url, nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing token: err = %v", err)
	}
}

func TestFeedBroadcastsUploads(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url, "admin")

	// the reply proves the client is registered before broadcasting
	msg := roundTrip(t, conn, WSMessage{Event: "LAST_UPLOAD"})
	if msg.Event != "LAST_UPLOAD" || msg.Data["upload"] != nil {
		t.Fatalf("unexpected reply: %+v", msg)
	}

	hub.AttendanceUploaded(ingest.UploadSummary{
		UploadID:       "u-1",
		Month:          "2024-03",
		SourceFileName: "march.xlsx",
		ProcessedRows:  2,
		UploadedAt:     time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
	})

	msg = read(t, conn)
	if msg.Event != "ATTENDANCE_UPLOADED" || msg.Data["uploadId"] != "u-1" || msg.Data["processedRows"] != float64(2) {
		t.Fatalf("unexpected broadcast: %+v", msg)
	}

	msg = roundTrip(t, conn, WSMessage{Event: "LAST_UPLOAD"})
	upload, ok := msg.Data["upload"].(map[string]interface{})
	if !ok || upload["month"] != "2024-03" {
		t.Fatalf("unexpected last upload: %+v", msg)
	}
}

func TestFeedMonthSummary(t *testing.T) {
	_, url := startHub(t)
	conn := dial(t, url, "admin")

	msg := roundTrip(t, conn, WSMessage{Event: "MONTH_SUMMARY", Data: map[string]interface{}{"month": "March 2024"}})
	if msg.Event != "MONTH_SUMMARY" {
		t.Fatalf("event = %q", msg.Event)
	}
	want := map[string]interface{}{
		"month":          "2024-03",
		"records":        float64(2),
		"requiredDays":   float64(40),
		"attendedDays":   float64(38),
		"absentDays":     float64(2),
		"sourceFileName": "march.xlsx",
	}
	for k, v := range want {
		if msg.Data[k] != v {
			t.Errorf("%s = %v, want %v", k, msg.Data[k], v)
		}
	}

	msg = roundTrip(t, conn, WSMessage{Event: "MONTH_SUMMARY", Data: map[string]interface{}{"month": "2023-01"}})
	if msg.Data["records"] != float64(0) {
		t.Fatalf("empty month: %+v", msg)
	}
	if _, ok := msg.Data["lastUploadId"]; ok {
		t.Fatalf("unexpected upload for empty month: %+v", msg)
	}
}

func TestFeedMonthSummaryUsesHubClock(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url, "admin")

	msg := roundTrip(t, conn, WSMessage{Event: "MONTH_SUMMARY"})
	if msg.Data["month"] != "2024-03" || msg.Data["records"] != float64(2) {
		t.Fatalf("default month: %+v", msg)
	}

	hub.AttendanceUploaded(ingest.UploadSummary{UploadID: "u-7", Month: "2024-03", UploadedBy: "auth0|admin"})
	if msg = read(t, conn); msg.Event != "ATTENDANCE_UPLOADED" {
		t.Fatalf("event = %q", msg.Event)
	}

	msg = roundTrip(t, conn, WSMessage{Event: "MONTH_SUMMARY", Data: map[string]interface{}{"month": "2024-03"}})
	if msg.Data["lastUploadId"] != "u-7" || msg.Data["lastUploadedBy"] != "auth0|admin" {
		t.Fatalf("last upload for month: %+v", msg)
	}
}

func TestFeedUnknownEvent(t *testing.T) {
	_, url := startHub(t)
	conn := dial(t, url, "admin")

	msg := roundTrip(t, conn, WSMessage{Event: "NOPE"})
	if msg.Event != "ERROR" || msg.Data["message"] != "unknown event type" {
		t.Fatalf("unexpected reply: %+v", msg)
	}
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url, "admin")
	roundTrip(t, conn, WSMessage{Event: "LAST_UPLOAD"})

	hub.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("err = %v, want going away close", err)
	}
}
