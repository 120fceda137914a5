package bot

import (
	"fmt"
	"strings"

	"github.com/hainm/keobot/internal/event"
	"github.com/hainm/keobot/internal/settle"
	"github.com/hainm/keobot/internal/text"
)

// renderSummary reproduces the settlement report exactly; its line order and
// tags are a presentation contract, not a formatting nicety.
func renderSummary(snap *event.Snapshot, report settle.Report) string {
	ev := snap.Event
	var lines []string

	lines = append(lines, fmt.Sprintf("### Kèo %s", report.EventLabel))
	if ev.Date != nil {
		lines = append(lines, fmt.Sprintf("Ngày: %s", ev.Date.Format("2/1/2006")))
	}
	if ev.VenueURL != "" {
		lines = append(lines, fmt.Sprintf("Sân: %s", ev.VenueURL))
	}

	lines = append(lines, fmt.Sprintf("Tổng chi phí: %s", text.FormatCurrency(report.Total)))
	lines = append(lines, fmt.Sprintf("Tiền sân: %s | Chi khác: %s",
		text.FormatCurrency(report.CourtCost), text.FormatCurrency(report.OtherCost)))
	lines = append(lines, fmt.Sprintf("Người đi/đăng ký: %d/%d", report.GoerCount, report.AttendeeCount))
	lines = append(lines, fmt.Sprintf("Mỗi người đi: %s", text.FormatCurrency(report.GoerShare)))
	if report.NonGoerCount > 0 {
		lines = append(lines, fmt.Sprintf("Mỗi người không đi: %s", text.FormatCurrency(report.NonGoerShare)))
	}

	if len(snap.Payments) > 0 {
		lines = append(lines, "Chi tiết chi phí:")
		for _, p := range snap.Payments {
			note := ""
			if p.Note != "" {
				note = fmt.Sprintf(" (%s)", p.Note)
			}
			lines = append(lines, fmt.Sprintf("- %s: %s%s", p.PayerName, text.FormatCurrency(p.Amount), note))
		}
	}

	if len(snap.Attendees) > 0 {
		var members []string
		for _, a := range snap.Attendees {
			if a.Going {
				members = append(members, a.Name)
			} else {
				members = append(members, fmt.Sprintf("%s (không đi)", a.Name))
			}
		}
		lines = append(lines, fmt.Sprintf("Thành viên (%d): %s", len(snap.Attendees), strings.Join(members, ", ")))
	}

	ownerNormalized := text.NormalizeName(ev.OwnerName)
	lines = append(lines, "Tổng kết:")
	for i, b := range report.Balances {
		sign := ""
		amount := b.Net
		if amount < 0 {
			sign = "-"
			amount = -amount
		}
		ownerTag := ""
		if b.NormalizedName == ownerNormalized {
			ownerTag = " (chủ kèo)"
		}
		statusTag := ""
		if !b.Attendee {
			statusTag = " (ngoài DS)"
		} else if !b.Going {
			statusTag = " (không đi)"
		}
		lines = append(lines, fmt.Sprintf("%d. %s%s%s %s%s", i+1, b.Name, ownerTag, statusTag, sign, text.FormatCurrency(amount)))
	}

	return strings.Join(lines, "\n")
}
