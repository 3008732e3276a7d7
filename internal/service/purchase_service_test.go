package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"app/internal/apperr"
	"app/internal/model"
	"app/internal/payment"

	"github.com/rs/zerolog"
)

type purchaseFixture struct {
	purchaseRepo *fakePurchaseRepo
	courseRepo   *fakeCourseRepo
	userRepo     *fakeUserRepo
	gateway      *fakeGateway
	publisher    *fakePublisher
	svc          PurchaseService
}

func newPurchaseFixture() *purchaseFixture {
	f := &purchaseFixture{
		purchaseRepo: newFakePurchaseRepo(),
		courseRepo:   newFakeCourseRepo(),
		userRepo:     newFakeUserRepo(),
		gateway:      newFakeGateway(),
		publisher:    &fakePublisher{},
	}
	f.svc = NewPurchaseService(f.purchaseRepo, f.courseRepo, f.userRepo, f.gateway, f.publisher, zerolog.Nop())
	f.courseRepo.courses["course-1"] = model.Course{CourseID: "course-1", Title: "Go", PriceCents: 2500}
	f.userRepo.users["buyer-1"] = model.User{UserID: "buyer-1", Role: model.RoleLearner}
	return f
}

func (f *purchaseFixture) pendingPurchase(t *testing.T) *model.Purchase {
	t.Helper()
	redirect, err := f.svc.InitiateCheckout(context.Background(), "course-1", "buyer-1")
	if err != nil {
		t.Fatalf("InitiateCheckout returned error: %v", err)
	}
	if redirect == "" {
		t.Fatal("expected a redirect URL")
	}
	for _, p := range f.purchaseRepo.purchases {
		return &p
	}
	t.Fatal("no purchase persisted")
	return nil
}

func TestInitiateCheckoutPersistsPendingPurchase(t *testing.T) {
	f := newPurchaseFixture()
	p := f.pendingPurchase(t)

	if p.Status != model.PurchasePending {
		t.Errorf("expected pending status, got %q", p.Status)
	}
	if p.AmountCents != 2500 {
		t.Errorf("expected amount from course price, got %d", p.AmountCents)
	}
	if _, ok := f.gateway.sessions[p.SessionID]; !ok {
		t.Errorf("purchase session %q unknown to gateway", p.SessionID)
	}
}

func TestInitiateCheckoutUnknownCoursePersistsNothing(t *testing.T) {
	f := newPurchaseFixture()

	if _, err := f.svc.InitiateCheckout(context.Background(), "missing", "buyer-1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(f.purchaseRepo.purchases) != 0 {
		t.Fatalf("purchase persisted for unknown course: %v", f.purchaseRepo.purchases)
	}
	if len(f.gateway.sessions) != 0 {
		t.Fatalf("checkout session opened for unknown course: %v", f.gateway.sessions)
	}
}

func TestConfirmPurchaseBadSignatureMutatesNothing(t *testing.T) {
	f := newPurchaseFixture()
	p := f.pendingPurchase(t)

	f.gateway.verifyErr = fmt.Errorf("%w: bad signature", apperr.ErrAuthenticity)
	err := f.svc.ConfirmPurchase(context.Background(), []byte("{}"), "t=1,v1=bad")
	if !errors.Is(err, apperr.ErrAuthenticity) {
		t.Fatalf("expected ErrAuthenticity, got %v", err)
	}

	got := f.purchaseRepo.purchases[p.ID]
	if got.Status != model.PurchasePending {
		t.Errorf("purchase status mutated: %q", got.Status)
	}
	if ids, _ := f.userRepo.GetEnrolledCourseIDs(context.Background(), "buyer-1"); len(ids) != 0 {
		t.Errorf("enrollment applied despite bad signature: %v", ids)
	}
	if len(f.publisher.events) != 0 {
		t.Errorf("event published despite bad signature: %v", f.publisher.events)
	}
}

func TestConfirmPurchaseCompletedEnrollsAndPublishes(t *testing.T) {
	f := newPurchaseFixture()
	p := f.pendingPurchase(t)

	f.gateway.notif = &payment.Notification{SessionID: p.SessionID, Completed: true}
	if err := f.svc.ConfirmPurchase(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("ConfirmPurchase returned error: %v", err)
	}

	got := f.purchaseRepo.purchases[p.ID]
	if got.Status != model.PurchaseCompleted {
		t.Errorf("expected completed status, got %q", got.Status)
	}
	ids, _ := f.userRepo.GetEnrolledCourseIDs(context.Background(), "buyer-1")
	if len(ids) != 1 || ids[0] != "course-1" {
		t.Errorf("expected enrollment in course-1, got %v", ids)
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0].PurchaseID != p.ID {
		t.Errorf("expected one purchase event for %s, got %+v", p.ID, f.publisher.events)
	}
}

func TestConfirmPurchaseFailedMarksFailedWithoutEnrollment(t *testing.T) {
	f := newPurchaseFixture()
	p := f.pendingPurchase(t)

	f.gateway.notif = &payment.Notification{SessionID: p.SessionID, Completed: false}
	if err := f.svc.ConfirmPurchase(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("ConfirmPurchase returned error: %v", err)
	}

	got := f.purchaseRepo.purchases[p.ID]
	if got.Status != model.PurchaseFailed {
		t.Errorf("expected failed status, got %q", got.Status)
	}
	if ids, _ := f.userRepo.GetEnrolledCourseIDs(context.Background(), "buyer-1"); len(ids) != 0 {
		t.Errorf("enrollment applied for failed payment: %v", ids)
	}
	if len(f.publisher.events) != 0 {
		t.Errorf("event published for failed payment: %v", f.publisher.events)
	}
}

func TestConfirmPurchaseIgnoredEventIsAcknowledged(t *testing.T) {
	f := newPurchaseFixture()
	p := f.pendingPurchase(t)

	// A verified event type the workflow does not act on.
	f.gateway.notif = nil
	if err := f.svc.ConfirmPurchase(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("expected nil for ignored event, got %v", err)
	}
	if got := f.purchaseRepo.purchases[p.ID]; got.Status != model.PurchasePending {
		t.Errorf("purchase mutated by ignored event: %q", got.Status)
	}
}

func TestConfirmPurchaseUnknownSession(t *testing.T) {
	f := newPurchaseFixture()
	f.gateway.notif = &payment.Notification{SessionID: "cs_unknown", Completed: true}

	if err := f.svc.ConfirmPurchase(context.Background(), []byte("{}"), "sig"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConfirmPurchasePublishFailureIsNotFatal(t *testing.T) {
	f := newPurchaseFixture()
	p := f.pendingPurchase(t)

	f.publisher.publishErr = errBoom
	f.gateway.notif = &payment.Notification{SessionID: p.SessionID, Completed: true}
	if err := f.svc.ConfirmPurchase(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("publish failure must not fail confirmation, got %v", err)
	}
	if got := f.purchaseRepo.purchases[p.ID]; got.Status != model.PurchaseCompleted {
		t.Errorf("expected completed status, got %q", got.Status)
	}
}

func TestConfirmPurchaseWorksWithoutPublisher(t *testing.T) {
	f := newPurchaseFixture()
	f.svc = NewPurchaseService(f.purchaseRepo, f.courseRepo, f.userRepo, f.gateway, nil, zerolog.Nop())
	p := f.pendingPurchase(t)

	f.gateway.notif = &payment.Notification{SessionID: p.SessionID, Completed: true}
	if err := f.svc.ConfirmPurchase(context.Background(), []byte("{}"), "sig"); err != nil {
		t.Fatalf("ConfirmPurchase returned error: %v", err)
	}
}
