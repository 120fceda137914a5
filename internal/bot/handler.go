// Package bot is the command interpreter: it turns one inbound group-chat
// message into one lifecycle or settlement operation and renders the result
// as a reply string. Platform adapters are its only callers.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/hainm/keobot/internal/event"
	"github.com/hainm/keobot/internal/text"
)

// Message is what a platform adapter delivers for an inbound command.
type Message struct {
	ThreadID   string
	ThreadName string
	SenderID   string
	SenderName string
	Text       string
}

type Handler struct {
	events *event.Service
	prefix string
	loc    *time.Location
	log    zerolog.Logger
}

func New(events *event.Service, prefix string, loc *time.Location, logger zerolog.Logger) *Handler {
	return &Handler{events: events, prefix: prefix, loc: loc, log: logger}
}

// userError is reply text, not an internal fault. Anything else reaching the
// Handle boundary is logged and replaced with a generic apology.
type userError string

func (e userError) Error() string { return string(e) }

func usererrf(format string, args ...any) error {
	return userError(fmt.Sprintf(format, args...))
}

const internalErrorReply = "Có lỗi xảy ra khi xử lý lệnh, thử lại sau nhé."

// IsCommand reports whether text starts with the command prefix followed by a
// separator. Adapters use it to filter inbound traffic.
func IsCommand(body, prefix string) bool {
	t := strings.ToLower(strings.TrimSpace(body))
	return strings.HasPrefix(t, strings.ToLower(prefix)+" ")
}

// Handle processes one command to completion. The returned error always
// carries user-facing text; internal faults never reach the adapter raw.
func (h *Handler) Handle(ctx context.Context, msg Message) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Interface("panic", r).Str("thread_id", msg.ThreadID).Str("text", msg.Text).Msg("panic while handling command")
			reply, err = "", userError(internalErrorReply)
		}
	}()

	reply, err = h.dispatch(ctx, msg)
	if err != nil {
		var ue userError
		if !errors.As(err, &ue) {
			h.log.Error().Err(err).Str("thread_id", msg.ThreadID).Str("text", msg.Text).Msg("command failed")
			err = userError(internalErrorReply)
		}
	}
	return reply, err
}

type verb int

const (
	verbCreate verb = iota
	verbAdd
	verbRemove
	verbDate
	verbVenue
	verbEnd
	verbSummary
	verbHelp
)

// One localized and one ASCII spelling per verb; lookups go through the
// diacritic-stripping pipeline, so "tạo" and "tao" land on the same key.
var verbTable = map[string]verb{
	"tao":     verbCreate,
	"create":  verbCreate,
	"them":    verbAdd,
	"add":     verbAdd,
	"da":      verbRemove,
	"remove":  verbRemove,
	"ngay":    verbDate,
	"date":    verbDate,
	"san":     verbVenue,
	"venue":   verbVenue,
	"ket":     verbEnd,
	"end":     verbEnd,
	"tien":    verbSummary,
	"summary": verbSummary,
	"giup":    verbHelp,
	"help":    verbHelp,
}

// cutPrefixFold removes prefix from s under case folding. Matching is done
// rune by rune so a multibyte command prefix never slices mid-rune.
func cutPrefixFold(s, prefix string) (string, bool) {
	for _, pr := range prefix {
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || unicode.ToLower(r) != unicode.ToLower(pr) {
			return s, false
		}
		s = s[size:]
	}
	return s, true
}

func splitVerb(body string) (token, args string) {
	fields := strings.SplitN(body, " ", 2)
	token = fields[0]
	if len(fields) == 2 {
		args = strings.TrimSpace(fields[1])
	}
	return token, args
}

func (h *Handler) dispatch(ctx context.Context, msg Message) (string, error) {
	if err := h.events.EnsureGroupChat(ctx, msg.ThreadID, msg.ThreadName); err != nil {
		return "", err
	}

	body := strings.TrimSpace(msg.Text)
	if body == "" {
		return "", userError("Nội dung lệnh đang trống.")
	}
	if rest, ok := cutPrefixFold(body, h.prefix); ok {
		body = strings.TrimSpace(rest)
	}
	if body == "" {
		return "", usererrf("Thiếu tên lệnh. Thử \"%s giúp\".", h.prefix)
	}

	token, args := splitVerb(body)
	v, ok := verbTable[text.NormalizeName(token)]
	// "tiền" takes no argument; anything after it belongs to the
	// name-prefixed patterns below ("cl Tiến trả 100k").
	if ok && v == verbSummary && args != "" {
		ok = false
	}

	if ok {
		switch v {
		case verbCreate:
			return h.handleCreate(ctx, msg)
		case verbAdd:
			return h.handleAdd(ctx, msg, args)
		case verbRemove:
			return h.handleRemove(ctx, msg, args)
		case verbDate:
			return h.handleDate(ctx, msg, args)
		case verbVenue:
			return h.handleVenue(ctx, msg, args)
		case verbEnd:
			return h.handleEnd(ctx, msg)
		case verbSummary:
			return h.handleSummary(ctx, msg)
		case verbHelp:
			return h.handleHelp(), nil
		}
	}

	// Second-priority matchers: the subject is an unbounded name prefix,
	// so these are recognized by pattern over the whole un-prefixed text.
	if name, ok := matchNotGoing(body); ok {
		return h.handleNotGoing(ctx, msg, name)
	}
	if name, rest, ok := matchPay(body); ok {
		return h.handlePay(ctx, msg, name, rest)
	}

	return "", usererrf("Không nhận diện được lệnh. Thử \"%s tạo\", \"%s thêm <tên>\", \"%s tiền\" hoặc \"%s giúp\".",
		h.prefix, h.prefix, h.prefix, h.prefix)
}

// activeEvent resolves the group's open planning event or fails with the
// standard pointer to "cl tạo".
func (h *Handler) activeEvent(ctx context.Context, threadID string) (*event.Event, error) {
	ev, err := h.events.PlanningEvent(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, usererrf("Hiện không có kèo cầu lông nào đang mở. Dùng \"%s tạo\" để tạo kèo mới.", h.prefix)
	}
	return ev, nil
}

func label(ev *event.Event) string {
	return text.FormatEventLabel(ev.OwnerName, ev.Sequence)
}

func splitNames(args string) []string {
	var names []string
	for _, part := range strings.Split(args, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}
