package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"paysecure/internal/adapters/persistence/models"
	"paysecure/internal/core/domain"
	"paysecure/internal/testutil"
)

func seedUsers(t *testing.T, users *testutil.UserRepo, n int) []uint {
	t.Helper()
	ids := make([]uint, n)
	for i := range ids {
		u := &models.User{FullName: "Owner", AccountNumber: string(rune('1'+i)) + "000000000", Password: "x"}
		if err := users.Create(context.Background(), u); err != nil {
			t.Fatal(err)
		}
		ids[i] = u.ID
	}
	return ids
}

func TestPaymentCreate(t *testing.T) {
	ctx := context.Background()
	users := testutil.NewUserRepo()
	ids := seedUsers(t, users, 1)
	svc := NewPaymentService(testutil.NewPaymentRepo(users))

	p, err := svc.Create(ctx, ids[0], &CreatePaymentInput{
		Amount:        42.5,
		PaymentMethod: string(domain.MethodBankTransfer),
		Metadata:      map[string]interface{}{"ref": "invoice-7"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != string(domain.StatusPending) {
		t.Errorf("new payment must be pending, got %q", p.Status)
	}
	if p.Currency != domain.DefaultCurrency {
		t.Errorf("currency should default to %s, got %q", domain.DefaultCurrency, p.Currency)
	}
	if !strings.HasPrefix(p.TransactionID, "TXN-") {
		t.Errorf("unexpected transaction id %q", p.TransactionID)
	}
	if p.Metadata["ref"] != "invoice-7" {
		t.Errorf("metadata not kept: %v", p.Metadata)
	}

	if _, err := svc.Create(ctx, ids[0], &CreatePaymentInput{Amount: 0, PaymentMethod: "paypal"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero amount, got %v", err)
	}
}

func TestPaymentOwnerIsolation(t *testing.T) {
	ctx := context.Background()
	users := testutil.NewUserRepo()
	ids := seedUsers(t, users, 2)
	svc := NewPaymentService(testutil.NewPaymentRepo(users))
	owner, stranger := ids[0], ids[1]

	p, err := svc.Create(ctx, owner, &CreatePaymentInput{Amount: 10, PaymentMethod: "paypal"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(ctx, stranger, p.ID); !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Errorf("get by stranger: expected ErrPaymentNotFound, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, stranger, p.ID, "completed"); !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Errorf("update by stranger: expected ErrPaymentNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, stranger, p.ID); !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Errorf("delete by stranger: expected ErrPaymentNotFound, got %v", err)
	}

	list, total, err := svc.List(ctx, stranger, 0, 20)
	if err != nil || total != 0 || len(list) != 0 {
		t.Errorf("stranger should see no payments, got %d (%v)", total, err)
	}

	if err := svc.Delete(ctx, owner, p.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func TestPaymentOwnerTransitions(t *testing.T) {
	ctx := context.Background()
	users := testutil.NewUserRepo()
	ids := seedUsers(t, users, 1)
	svc := NewPaymentService(testutil.NewPaymentRepo(users))

	p, err := svc.Create(ctx, ids[0], &CreatePaymentInput{Amount: 10, PaymentMethod: "paypal"})
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		to   string
		want error
	}{
		{"approved", domain.ErrInvalidStatusTransition},
		{"completed", nil},
		{"failed", domain.ErrInvalidStatusTransition},
		{"refunded", nil},
		{"refunded", domain.ErrInvalidStatusTransition},
	}
	for _, st := range steps {
		got, err := svc.UpdateStatus(ctx, ids[0], p.ID, st.to)
		if !errors.Is(err, st.want) {
			t.Fatalf("-> %s: expected %v, got %v", st.to, st.want, err)
		}
		if err == nil && got.Status != st.to {
			t.Fatalf("-> %s: status is %s", st.to, got.Status)
		}
	}
}

func TestPaymentOwnerRefundsPending(t *testing.T) {
	ctx := context.Background()
	users := testutil.NewUserRepo()
	ids := seedUsers(t, users, 1)
	svc := NewPaymentService(testutil.NewPaymentRepo(users))

	p, err := svc.Create(ctx, ids[0], &CreatePaymentInput{Amount: 15, PaymentMethod: "swift"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.UpdateStatus(ctx, ids[0], p.ID, "refunded")
	if err != nil {
		t.Fatalf("refund pending: %v", err)
	}
	if got.Status != "refunded" {
		t.Fatalf("expected refunded, got %s", got.Status)
	}

	if _, err := svc.UpdateStatus(ctx, ids[0], p.ID, "completed"); !errors.Is(err, domain.ErrInvalidStatusTransition) {
		t.Fatalf("refunded is final for owners, got %v", err)
	}
}

func TestPaymentStats(t *testing.T) {
	ctx := context.Background()
	users := testutil.NewUserRepo()
	ids := seedUsers(t, users, 1)
	svc := NewPaymentService(testutil.NewPaymentRepo(users))

	for _, amount := range []float64{10, 20, 30} {
		if _, err := svc.Create(ctx, ids[0], &CreatePaymentInput{Amount: amount, PaymentMethod: "paypal"}); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := svc.Stats(ctx, ids[0])
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalCount != 3 || stats.TotalAmount != 60 {
		t.Errorf("unexpected totals: %+v", stats)
	}
	if len(stats.ByStatus) != len(domain.AllStatuses) {
		t.Errorf("every status should be listed, got %d", len(stats.ByStatus))
	}
	if stats.ByStatus[0].Status != "pending" || stats.ByStatus[0].Count != 3 {
		t.Errorf("pending row wrong: %+v", stats.ByStatus[0])
	}
}
