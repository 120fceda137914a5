package settle

import (
	"testing"

	"github.com/hainm/keobot/internal/event"
)

func snapshot(owner string, attendees []event.Attendee, payments []event.Payment) event.Snapshot {
	return event.Snapshot{
		Event: event.Event{
			ID:        "g1:owner:1",
			OwnerName: owner,
			Sequence:  1,
		},
		Attendees: attendees,
		Payments:  payments,
	}
}

func TestSettleCourtAndOtherSplit(t *testing.T) {
	snap := snapshot("Owner",
		[]event.Attendee{
			{Name: "Owner", NormalizedName: "owner", Going: true},
			{Name: "A", NormalizedName: "a", Going: true},
			{Name: "B", NormalizedName: "b", Going: false},
		},
		[]event.Payment{
			{PayerName: "Sân", NormalizedName: "san", Amount: 300000},
			{PayerName: "Owner", NormalizedName: "owner", Amount: 150000},
		},
	)

	r := Settle(snap)

	if r.Total != 450000 || r.CourtCost != 300000 || r.OtherCost != 150000 {
		t.Fatalf("totals = %d/%d/%d", r.Total, r.CourtCost, r.OtherCost)
	}
	if r.AttendeeCount != 3 || r.GoerCount != 2 || r.NonGoerCount != 1 {
		t.Fatalf("counts = %d/%d/%d", r.AttendeeCount, r.GoerCount, r.NonGoerCount)
	}
	if r.NonGoerShare != 100000 {
		t.Errorf("NonGoerShare = %d, want 100000", r.NonGoerShare)
	}
	if r.GoerShare != 175000 {
		t.Errorf("GoerShare = %d, want 175000", r.GoerShare)
	}

	want := map[string]int64{
		"Owner": -25000,
		"A":     -175000,
		"B":     -100000,
	}
	if len(r.Balances) != len(want) {
		t.Fatalf("got %d balances, want %d", len(r.Balances), len(want))
	}
	for _, b := range r.Balances {
		if b.Net != want[b.Name] {
			t.Errorf("%s net = %d, want %d", b.Name, b.Net, want[b.Name])
		}
	}
	if r.Balances[0].Name != "Owner" {
		t.Errorf("owner should sort first, got %q", r.Balances[0].Name)
	}
}

func TestSettleZeroAttendees(t *testing.T) {
	snap := snapshot("Owner", nil, []event.Payment{
		{PayerName: "Sân", NormalizedName: "san", Amount: 200000},
	})

	r := Settle(snap)

	if r.CourtCost != 200000 {
		t.Errorf("CourtCost = %d", r.CourtCost)
	}
	if r.GoerShare != 0 || r.NonGoerShare != 0 {
		t.Errorf("shares should be zero, got %d/%d", r.GoerShare, r.NonGoerShare)
	}
	if r.AttendeeCount != 0 || len(r.Balances) != 0 {
		t.Errorf("expected empty report, got %d attendees, %d balances", r.AttendeeCount, len(r.Balances))
	}
}

func TestSettleOutsidePayerOwedBack(t *testing.T) {
	snap := snapshot("Owner",
		[]event.Attendee{
			{Name: "Owner", NormalizedName: "owner", Going: true},
		},
		[]event.Payment{
			{PayerName: "Khách", NormalizedName: "khach", Amount: 50000},
		},
	)

	r := Settle(snap)

	var outside *Balance
	for i := range r.Balances {
		if r.Balances[i].Name == "Khách" {
			outside = &r.Balances[i]
		}
	}
	if outside == nil {
		t.Fatal("outside payer missing from report")
	}
	if outside.Attendee {
		t.Error("outside payer flagged as attendee")
	}
	if outside.Share != 0 || outside.Net != 50000 {
		t.Errorf("outside payer share/net = %d/%d, want 0/50000", outside.Share, outside.Net)
	}
	// Owner absorbs the whole cost.
	if r.Balances[0].Name != "Owner" || r.Balances[0].Net != -50000 {
		t.Errorf("owner balance = %+v", r.Balances[0])
	}
}

func TestSettleMultiplePaymentsNotMerged(t *testing.T) {
	snap := snapshot("Owner",
		[]event.Attendee{
			{Name: "Owner", NormalizedName: "owner", Going: true},
			{Name: "Nam", NormalizedName: "nam", Going: true},
		},
		[]event.Payment{
			{PayerName: "Nam", NormalizedName: "nam", Amount: 40000},
			{PayerName: "Nam", NormalizedName: "nam", Amount: 60000},
		},
	)

	r := Settle(snap)

	for _, b := range r.Balances {
		if b.Name == "Nam" {
			if b.Prepaid != 100000 {
				t.Errorf("Nam prepaid = %d, want 100000", b.Prepaid)
			}
			if b.Net != 50000 {
				t.Errorf("Nam net = %d, want 50000", b.Net)
			}
		}
	}
}

func TestSettleOrdering(t *testing.T) {
	snap := snapshot("Chị Út",
		[]event.Attendee{
			{Name: "Bình", NormalizedName: "binh", Going: true},
			{Name: "Chị Út", NormalizedName: "chi ut", Going: true},
			{Name: "An", NormalizedName: "an", Going: true},
		},
		[]event.Payment{
			{PayerName: "Khách", NormalizedName: "khach", Amount: 10000},
		},
	)

	r := Settle(snap)

	got := make([]string, len(r.Balances))
	for i, b := range r.Balances {
		got[i] = b.Name
	}
	want := []string{"Chị Út", "An", "Bình", "Khách"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
