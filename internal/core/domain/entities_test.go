package domain

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		actor    Actor
		from, to PaymentStatus
		want     bool
	}{
		{ActorStaff, StatusPending, StatusApproved, true},
		{ActorStaff, StatusPending, StatusDenied, true},
		{ActorStaff, StatusApproved, StatusDenied, false},
		{ActorStaff, StatusPending, StatusCompleted, false},
		{ActorOwner, StatusPending, StatusCompleted, true},
		{ActorOwner, StatusApproved, StatusCompleted, true},
		{ActorOwner, StatusDenied, StatusCompleted, false},
		{ActorOwner, StatusCompleted, StatusRefunded, true},
		{ActorOwner, StatusPending, StatusRefunded, true},
		{ActorOwner, StatusApproved, StatusRefunded, false},
		{ActorOwner, StatusDenied, StatusRefunded, false},
		{ActorOwner, StatusPending, StatusApproved, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.actor, tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s, %s) = %v, want %v", tc.actor, tc.from, tc.to, got, tc.want)
		}
	}
}

func TestSourcesFor(t *testing.T) {
	got := SourcesFor(ActorOwner, StatusCompleted)
	if len(got) != 2 {
		t.Fatalf("expected pending and approved, got %v", got)
	}
	for _, s := range got {
		if s != StatusPending && s != StatusApproved {
			t.Errorf("unexpected source %s", s)
		}
	}
	refund := SourcesFor(ActorOwner, StatusRefunded)
	if len(refund) != 2 || refund[0] != StatusPending || refund[1] != StatusCompleted {
		t.Errorf("expected [pending completed] for refunds, got %v", refund)
	}
	if len(SourcesFor(ActorStaff, StatusRefunded)) != 0 {
		t.Error("staff cannot refund")
	}
}

func TestProcessActionTarget(t *testing.T) {
	if s, ok := ActionApprove.Target(); !ok || s != StatusApproved {
		t.Errorf("approve -> %s, %v", s, ok)
	}
	if s, ok := ActionDeny.Target(); !ok || s != StatusDenied {
		t.Errorf("deny -> %s, %v", s, ok)
	}
	if _, ok := ProcessAction("refund").Target(); ok {
		t.Error("unknown action accepted")
	}
}
