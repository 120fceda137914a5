package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hainm/keobot/internal/event"
	"github.com/hainm/keobot/internal/settle"
	"github.com/hainm/keobot/internal/text"
)

func (h *Handler) handleCreate(ctx context.Context, msg Message) (string, error) {
	existing, err := h.events.PlanningEvent(ctx, msg.ThreadID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return fmt.Sprintf("Đang có kèo %s được lên lịch. Dùng \"%s tiền\" để xem tổng quan hoặc \"%s kết\" để chốt kèo.",
			label(existing), h.prefix, h.prefix), nil
	}

	ev, err := h.events.CreateEvent(ctx, msg.ThreadID, msg.SenderID, msg.SenderName)
	if errors.Is(err, event.ErrEventAlreadyPlanning) {
		// Lost a race with another creator.
		return "", usererrf("Đang có kèo khác vừa được tạo. Dùng \"%s tiền\" để xem tổng quan.", h.prefix)
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Đã tạo kèo cầu lông %s. Thêm người chơi bằng \"%s thêm <tên>\".", label(ev), h.prefix), nil
}

func (h *Handler) handleAdd(ctx context.Context, msg Message, args string) (string, error) {
	ev, err := h.activeEvent(ctx, msg.ThreadID)
	if err != nil {
		return "", err
	}

	names := splitNames(args)
	if len(names) == 0 {
		return "", usererrf("Hãy nhập tên người chơi, ví dụ: \"%s thêm Hải Nam\" hoặc \"%s thêm Nam, Huy\".", h.prefix, h.prefix)
	}

	added, err := h.events.AddAttendees(ctx, ev.ID, names)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Đã thêm %s vào kèo %s.", strings.Join(added, ", "), label(ev)), nil
}

func (h *Handler) handleNotGoing(ctx context.Context, msg Message, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", usererrf("Hãy nhập tên người chơi, ví dụ: \"%s Nam không đi\".", h.prefix)
	}

	ev, err := h.activeEvent(ctx, msg.ThreadID)
	if err != nil {
		return "", err
	}

	if err := h.events.SetAttendeeGoing(ctx, ev.ID, name, false); err != nil {
		if errors.Is(err, event.ErrAttendeeNotFound) {
			return "", usererrf("Không thấy %s trong kèo hiện tại.", name)
		}
		return "", err
	}

	return fmt.Sprintf("Đã đánh dấu %s không đi kèo %s.", name, label(ev)), nil
}

func (h *Handler) handleRemove(ctx context.Context, msg Message, args string) (string, error) {
	ev, err := h.activeEvent(ctx, msg.ThreadID)
	if err != nil {
		return "", err
	}

	names := splitNames(args)
	if len(names) == 0 {
		return "", usererrf("Hãy nhập tên cần đá, ví dụ: \"%s đá Nam\".", h.prefix)
	}

	res, err := h.events.RemoveAttendees(ctx, ev, names)
	if err != nil {
		if errors.Is(err, event.ErrProtectedOwner) {
			return "", userError("Không thể đá chủ kèo khỏi danh sách.")
		}
		if errors.Is(err, event.ErrAttendeeNotFound) {
			target := "các tên đã nhập"
			if len(res.Missing) == 1 {
				target = res.Missing[0]
			}
			return "", usererrf("Không tìm thấy %s trong kèo hiện tại.", target)
		}
		return "", err
	}

	fragments := []string{fmt.Sprintf("Đã đá %s khỏi kèo %s.", strings.Join(res.Removed, ", "), label(ev))}
	if len(res.Missing) > 0 {
		fragments = append(fragments, fmt.Sprintf("Không thấy %s trong danh sách.", strings.Join(res.Missing, ", ")))
	}
	if len(res.Protected) > 0 {
		fragments = append(fragments, fmt.Sprintf("Không thể đá chủ kèo %s.", strings.Join(res.Protected, ", ")))
	}
	return strings.Join(fragments, " "), nil
}

func (h *Handler) handleDate(ctx context.Context, msg Message, args string) (string, error) {
	ev, err := h.activeEvent(ctx, msg.ThreadID)
	if err != nil {
		return "", err
	}

	dateText := strings.TrimSpace(args)
	if dateText == "" {
		return "", userError("Hãy nhập ngày theo định dạng dd/mm/yy.")
	}

	date, err := text.ParseCommandDate(dateText, h.loc)
	if err != nil {
		return "", userError("Ngày không đúng định dạng dd/mm/yy.")
	}

	if err := h.events.SetEventDate(ctx, ev.ID, date); err != nil {
		return "", err
	}
	return fmt.Sprintf("Đã cập nhật ngày cho %s thành %s.", label(ev), dateText), nil
}

func (h *Handler) handleVenue(ctx context.Context, msg Message, args string) (string, error) {
	ev, err := h.activeEvent(ctx, msg.ThreadID)
	if err != nil {
		return "", err
	}

	venueURL := strings.TrimSpace(args)
	if venueURL == "" {
		return "", userError("Hãy nhập đường dẫn sân.")
	}

	if err := h.events.SetEventVenue(ctx, ev.ID, venueURL); err != nil {
		return "", err
	}
	return fmt.Sprintf("Đã cập nhật sân cho %s: %s.", label(ev), venueURL), nil
}

func (h *Handler) handleEnd(ctx context.Context, msg Message) (string, error) {
	ev, err := h.activeEvent(ctx, msg.ThreadID)
	if err != nil {
		return "", err
	}

	if err := h.events.EndEvent(ctx, ev.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Đã đánh dấu %s là đã hoàn tất. Dùng \"%s tiền\" để xem tổng kết chi phí.", label(ev), h.prefix), nil
}

func (h *Handler) handleSummary(ctx context.Context, msg Message) (string, error) {
	ev, err := h.events.LatestEvent(ctx, msg.ThreadID)
	if err != nil {
		return "", err
	}
	if ev == nil {
		return "Chưa có kèo cầu lông nào trong nhóm này.", nil
	}

	snap, err := h.events.Snapshot(ctx, ev.ID)
	if err != nil {
		return "", err
	}
	if snap == nil {
		return "Không tìm thấy chi tiết cho kèo gần nhất.", nil
	}

	return renderSummary(snap, settle.Settle(*snap)), nil
}

func (h *Handler) handlePay(ctx context.Context, msg Message, name, rest string) (string, error) {
	name = strings.TrimSpace(name)
	tokens := strings.Fields(rest)
	if len(tokens) == 0 {
		return "", usererrf("Hãy nhập số tiền, ví dụ: \"%s Nam trả 200k sân\".", h.prefix)
	}

	amount, err := text.ParseAmount(tokens[0])
	if err != nil {
		return "", usererrf("Số tiền không hợp lệ, ví dụ: \"%s Nam trả 200k sân\".", h.prefix)
	}
	note := strings.Join(tokens[1:], " ")

	ev, err := h.activeEvent(ctx, msg.ThreadID)
	if err != nil {
		return "", err
	}

	if _, err := h.events.RecordPayment(ctx, ev.ID, name, amount, note); err != nil {
		return "", err
	}

	reply := fmt.Sprintf("%s đã ứng %s cho %s", name, text.FormatCurrency(amount), label(ev))
	if note != "" {
		reply += fmt.Sprintf(" (%s)", note)
	}
	return reply + ".", nil
}

func (h *Handler) handleHelp() string {
	p := h.prefix
	lines := []string{
		"Hướng dẫn lệnh cầu lông:",
		fmt.Sprintf("- %s tạo: tạo kèo mới.", p),
		fmt.Sprintf("- %s thêm <tên1, tên2>: thêm một hoặc nhiều người chơi.", p),
		fmt.Sprintf("- %s <tên> trả <số tiền> [ghi chú]: ghi nhận chi phí.", p),
		fmt.Sprintf("- %s <tên> không đi: đánh dấu không đi.", p),
		fmt.Sprintf("- %s ngày <dd/mm/yy>: đặt ngày chơi.", p),
		fmt.Sprintf("- %s sân <tên, link>: cập nhật tên, link sân.", p),
		fmt.Sprintf("- %s kết: chốt kèo hiện tại.", p),
		fmt.Sprintf("- %s đá <tên>: xoá người ra khỏi kèo.", p),
		fmt.Sprintf("- %s tiền: xem tổng kết kèo gần nhất.", p),
		fmt.Sprintf("- %s giúp / %s help: hiển thị danh sách lệnh.", p, p),
	}
	return strings.Join(lines, "\n")
}
