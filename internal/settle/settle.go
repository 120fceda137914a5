// Package settle computes the per-person money report for an event. Settle is
// a pure function of the snapshot; it never mutates stored state.
package settle

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hainm/keobot/internal/event"
	"github.com/hainm/keobot/internal/text"
)

// Balance is one line of the settlement report. Net is prepaid minus share:
// positive means the person is owed money back, negative means they still owe.
type Balance struct {
	Name           string `json:"name"`
	NormalizedName string `json:"normalized_name"`
	Prepaid        int64  `json:"prepaid"`
	Share          int64  `json:"share"`
	Net            int64  `json:"net"`
	Going          bool   `json:"going"`
	Attendee       bool   `json:"attendee"`
}

type Report struct {
	EventLabel    string    `json:"event_label"`
	Total         int64     `json:"total"`
	CourtCost     int64     `json:"court_cost"`
	OtherCost     int64     `json:"other_cost"`
	AttendeeCount int       `json:"attendee_count"`
	GoerCount     int       `json:"goer_count"`
	NonGoerCount  int       `json:"non_goer_count"`
	GoerShare     int64     `json:"goer_share"`
	NonGoerShare  int64     `json:"non_goer_share"`
	Balances      []Balance `json:"balances"`
}

// Settle splits the court cost evenly across all attendees and the remaining
// cost across goers only. Payers who never joined the attendee list still show
// up with their full prepaid amount owed back.
func Settle(snap event.Snapshot) Report {
	var courtCost, otherCost int64
	for _, p := range snap.Payments {
		if event.IsCourtName(p.NormalizedName) {
			courtCost += p.Amount
		} else {
			otherCost += p.Amount
		}
	}

	type participant struct {
		name     string
		norm     string
		prepaid  int64
		going    bool
		attendee bool
	}

	byNorm := make(map[string]*participant, len(snap.Attendees))
	var order []*participant
	for _, a := range snap.Attendees {
		p := &participant{name: a.Name, norm: a.NormalizedName, going: a.Going, attendee: true}
		byNorm[a.NormalizedName] = p
		order = append(order, p)
	}
	for _, pay := range snap.Payments {
		if event.IsCourtName(pay.NormalizedName) {
			continue
		}
		p, ok := byNorm[pay.NormalizedName]
		if !ok {
			p = &participant{name: pay.PayerName, norm: pay.NormalizedName}
			byNorm[pay.NormalizedName] = p
			order = append(order, p)
		}
		p.prepaid += pay.Amount
	}

	attendeeCount := 0
	goerCount := 0
	for _, p := range order {
		if p.attendee {
			attendeeCount++
			if p.going {
				goerCount++
			}
		}
	}
	nonGoerCount := attendeeCount - goerCount

	var perPersonCourt, goerShare int64
	if attendeeCount > 0 {
		perPersonCourt = courtCost / int64(attendeeCount)
	}
	if goerCount > 0 {
		remainingCourt := courtCost - perPersonCourt*int64(nonGoerCount)
		if remainingCourt < 0 {
			remainingCourt = 0
		}
		goerShare = (remainingCourt + otherCost) / int64(goerCount)
	}

	balances := make([]Balance, 0, len(order))
	for _, p := range order {
		var share int64
		switch {
		case p.attendee && p.going:
			share = goerShare
		case p.attendee:
			share = perPersonCourt
		}
		balances = append(balances, Balance{
			Name:           p.name,
			NormalizedName: p.norm,
			Prepaid:        p.prepaid,
			Share:          share,
			Net:            p.prepaid - share,
			Going:          p.going,
			Attendee:       p.attendee,
		})
	}

	// Presentation contract: owner first, then attendees before outside
	// payers, then locale-aware by display name.
	ownerNormalized := text.NormalizeName(snap.Event.OwnerName)
	collator := collate.New(language.Vietnamese)
	sort.SliceStable(balances, func(i, j int) bool {
		a, b := balances[i], balances[j]
		if (a.NormalizedName == ownerNormalized) != (b.NormalizedName == ownerNormalized) {
			return a.NormalizedName == ownerNormalized
		}
		if a.Attendee != b.Attendee {
			return a.Attendee
		}
		return collator.CompareString(a.Name, b.Name) < 0
	})

	return Report{
		EventLabel:    text.FormatEventLabel(snap.Event.OwnerName, snap.Event.Sequence),
		Total:         courtCost + otherCost,
		CourtCost:     courtCost,
		OtherCost:     otherCost,
		AttendeeCount: attendeeCount,
		GoerCount:     goerCount,
		NonGoerCount:  nonGoerCount,
		GoerShare:     goerShare,
		NonGoerShare:  perPersonCourt,
		Balances:      balances,
	}
}
