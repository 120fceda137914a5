package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hainm/keobot/internal/event"
	"github.com/hainm/keobot/internal/event/eventtest"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	svc := event.NewService(eventtest.NewStore(), nil)
	return New(svc, "cl", loc, zerolog.Nop())
}

func msg(text string) Message {
	return Message{
		ThreadID:   "g1",
		ThreadName: "Cầu lông thứ 5",
		SenderID:   "u1",
		SenderName: "Hải Nam",
		Text:       text,
	}
}

func mustHandle(t *testing.T, h *Handler, text string) string {
	t.Helper()
	reply, err := h.Handle(context.Background(), msg(text))
	if err != nil {
		t.Fatalf("Handle(%q): %v", text, err)
	}
	return reply
}

func mustFail(t *testing.T, h *Handler, text string) string {
	t.Helper()
	_, err := h.Handle(context.Background(), msg(text))
	if err == nil {
		t.Fatalf("Handle(%q): expected error", text)
	}
	return err.Error()
}

func TestCreateFlow(t *testing.T) {
	h := newTestHandler(t)

	reply := mustHandle(t, h, "cl tạo")
	if !strings.Contains(reply, "Hải Nam-001") {
		t.Errorf("create reply = %q", reply)
	}

	// Second create is a friendly pointer, not an error.
	reply = mustHandle(t, h, "cl tạo")
	if !strings.Contains(reply, "Đang có kèo Hải Nam-001") {
		t.Errorf("repeat create reply = %q", reply)
	}
}

func TestVerbAliases(t *testing.T) {
	h := newTestHandler(t)
	if got := mustHandle(t, h, "cl create"); !strings.Contains(got, "Đã tạo kèo") {
		t.Errorf("ascii alias reply = %q", got)
	}
}

func TestAddAndRemove(t *testing.T) {
	h := newTestHandler(t)
	mustHandle(t, h, "cl tạo")

	reply := mustHandle(t, h, "cl thêm Huy, Linh, huy")
	if !strings.Contains(reply, "Huy, Linh") {
		t.Errorf("add reply = %q", reply)
	}

	reply = mustHandle(t, h, "cl đá Huy, Ai Đó, Hải Nam")
	if !strings.Contains(reply, "Đã đá Huy") ||
		!strings.Contains(reply, "Không thấy Ai Đó") ||
		!strings.Contains(reply, "Không thể đá chủ kèo Hải Nam") {
		t.Errorf("remove reply = %q", reply)
	}
}

func TestRemoveOwnerOnly(t *testing.T) {
	h := newTestHandler(t)
	mustHandle(t, h, "cl tạo")

	errText := mustFail(t, h, "cl đá Hải Nam")
	if !strings.Contains(errText, "chủ kèo") {
		t.Errorf("error = %q", errText)
	}
}

func TestNotGoingPattern(t *testing.T) {
	h := newTestHandler(t)
	mustHandle(t, h, "cl tạo")
	mustHandle(t, h, "cl thêm Huy")

	reply := mustHandle(t, h, "cl Huy không đi")
	if !strings.Contains(reply, "Đã đánh dấu Huy không đi") {
		t.Errorf("not-going reply = %q", reply)
	}

	// ASCII spelling works too.
	reply = mustHandle(t, h, "cl Huy khong di")
	if !strings.Contains(reply, "không đi") {
		t.Errorf("ascii not-going reply = %q", reply)
	}

	errText := mustFail(t, h, "cl Ai Đó không đi")
	if !strings.Contains(errText, "Không thấy Ai Đó") {
		t.Errorf("error = %q", errText)
	}
}

func TestPayPattern(t *testing.T) {
	h := newTestHandler(t)
	mustHandle(t, h, "cl tạo")

	reply := mustHandle(t, h, "cl Huy trả 200k cầu")
	if !strings.Contains(reply, "Huy đã ứng 200.000 đ") || !strings.Contains(reply, "(cầu)") {
		t.Errorf("pay reply = %q", reply)
	}

	errText := mustFail(t, h, "cl Huy trả nhiều lắm")
	if !strings.Contains(errText, "Số tiền không hợp lệ") {
		t.Errorf("error = %q", errText)
	}
}

func TestDateAndVenue(t *testing.T) {
	h := newTestHandler(t)
	mustHandle(t, h, "cl tạo")

	reply := mustHandle(t, h, "cl ngày 05/01/26")
	if !strings.Contains(reply, "05/01/26") {
		t.Errorf("date reply = %q", reply)
	}

	errText := mustFail(t, h, "cl ngày hôm qua")
	if !strings.Contains(errText, "dd/mm/yy") {
		t.Errorf("date error = %q", errText)
	}

	reply = mustHandle(t, h, "cl sân https://maps.app.goo.gl/abc")
	if !strings.Contains(reply, "https://maps.app.goo.gl/abc") {
		t.Errorf("venue reply = %q", reply)
	}
}

func TestEndAndSummary(t *testing.T) {
	h := newTestHandler(t)
	mustHandle(t, h, "cl tạo")
	mustHandle(t, h, "cl thêm A, B")
	mustHandle(t, h, "cl B không đi")
	mustHandle(t, h, "cl court trả 300k")
	mustHandle(t, h, "cl Hải Nam trả 150k")
	mustHandle(t, h, "cl kết")

	// No planning event left.
	errText := mustFail(t, h, "cl thêm C")
	if !strings.Contains(errText, "không có kèo") {
		t.Errorf("error = %q", errText)
	}

	// Summary still reads the ended event.
	reply := mustHandle(t, h, "cl tiền")
	for _, want := range []string{
		"### Kèo Hải Nam-001",
		"Tổng chi phí: 450.000 đ",
		"Tiền sân: 300.000 đ | Chi khác: 150.000 đ",
		"Người đi/đăng ký: 2/3",
		"Mỗi người đi: 175.000 đ",
		"Mỗi người không đi: 100.000 đ",
		"1. Hải Nam (chủ kèo) -25.000 đ",
		"B (không đi) -100.000 đ",
	} {
		if !strings.Contains(reply, want) {
			t.Errorf("summary missing %q:\n%s", want, reply)
		}
	}
}

func TestSummaryNoEvents(t *testing.T) {
	h := newTestHandler(t)
	reply := mustHandle(t, h, "cl tiền")
	if !strings.Contains(reply, "Chưa có kèo") {
		t.Errorf("reply = %q", reply)
	}
}

func TestUnknownAndEmpty(t *testing.T) {
	h := newTestHandler(t)

	errText := mustFail(t, h, "cl nhảy")
	if !strings.Contains(errText, "Không nhận diện được lệnh") {
		t.Errorf("unknown verb error = %q", errText)
	}

	errText = mustFail(t, h, "cl ")
	if !strings.Contains(errText, "Thiếu tên lệnh") {
		t.Errorf("empty command error = %q", errText)
	}
}

func TestHelp(t *testing.T) {
	h := newTestHandler(t)
	reply := mustHandle(t, h, "cl giúp")
	if !strings.Contains(reply, "Hướng dẫn lệnh cầu lông:") || !strings.Contains(reply, "cl tạo") {
		t.Errorf("help reply = %q", reply)
	}
}

func TestIsCommand(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"cl tạo", true},
		{"CL tạo", true},
		{"  cl tiền", true},
		{"cls tạo", false},
		{"cl", false},
		{"hello", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsCommand(tt.text, "cl"); got != tt.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestMultibyteCommandPrefix(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	svc := event.NewService(eventtest.NewStore(), nil)
	h := New(svc, "cầu", loc, zerolog.Nop())

	msg := Message{ThreadID: "g1", ThreadName: "Nhóm", SenderID: "u1", SenderName: "Nam", Text: "CẦU tạo"}
	reply, err := h.Handle(context.Background(), msg)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(reply, "Đã tạo kèo") {
		t.Errorf("reply = %q", reply)
	}

	// A near-miss never strips the prefix and falls through to the
	// unknown-command reply.
	msg.Text = "cá tạo"
	if _, err := h.Handle(context.Background(), msg); err == nil {
		t.Error("expected unknown-command error for mismatched prefix")
	}
}
