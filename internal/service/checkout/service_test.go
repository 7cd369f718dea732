package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"standardtime/internal/domain"
	orderrepo "standardtime/internal/repository/order"
)

type stubCarts struct {
	cleared []string
	err     error
}

func (s *stubCarts) Clear(_ context.Context, ownerKey string) error {
	s.cleared = append(s.cleared, ownerKey)
	return s.err
}

// collidingOrders wraps a repository and fails the first n creates with
// ErrAlreadyExists.
type collidingOrders struct {
	orderrepo.Repository
	collisions int
	creates    int
}

func (r *collidingOrders) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	r.creates++
	if r.collisions > 0 {
		r.collisions--
		return nil, domain.ErrAlreadyExists
	}
	return r.Repository.Create(ctx, o)
}

func datejustItem() Item {
	return Item{WatchID: 3, Brand: "Rolex", Model: "Datejust 36", Year: "2019", Price: "$1,850"}
}

func validDetails() Details {
	return Details{
		FullName: "Alex Tan",
		Phone:    "+65 9123 4567",
		Address:  "1 Marina Blvd",
		City:     "Singapore",
		Country:  "Singapore",
		Email:    "alex@example.com",
	}
}

func startedSession(t *testing.T, svc *Service) *Session {
	t.Helper()
	return svc.Start("guest:abc", nil, "", datejustItem(), "USD")
}

func atProcessPayment(t *testing.T, svc *Service) *Session {
	t.Helper()
	sess := startedSession(t, svc)
	if _, err := svc.SelectPayment(sess.ID, domain.PaymentCard); err != nil {
		t.Fatalf("SelectPayment: %v", err)
	}
	out, fieldErrs, err := svc.SubmitDetails(sess.ID, validDetails())
	if err != nil {
		t.Fatalf("SubmitDetails: %v (fields %v)", err, fieldErrs)
	}
	return out
}

func TestStartPreselectsCard(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil, nil)
	sess := startedSession(t, svc)

	if sess.Step != StepSelectPayment {
		t.Errorf("Step = %s, want %s", sess.Step, StepSelectPayment)
	}
	if sess.PaymentMethod != domain.PaymentCard {
		t.Errorf("PaymentMethod = %s, want %s", sess.PaymentMethod, domain.PaymentCard)
	}
}

func TestGuestPaysShipping(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil, nil)
	sess := startedSession(t, svc)

	if sess.Pricing.Shipping != "100.00" {
		t.Errorf("Shipping = %s, want 100.00", sess.Pricing.Shipping)
	}
	if sess.Pricing.Total != "1950.00" {
		t.Errorf("Total = %s, want 1950.00", sess.Pricing.Total)
	}
}

func TestMemberShipsFree(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil, nil)
	profileID := "p-1"
	sess := svc.Start("profile:p-1", &profileID, "member@example.com", datejustItem(), "USD")

	if sess.Pricing.Shipping != "0.00" {
		t.Errorf("Shipping = %s, want 0.00", sess.Pricing.Shipping)
	}
	if sess.Pricing.Total != "1850.00" {
		t.Errorf("Total = %s, want 1850.00", sess.Pricing.Total)
	}
	if sess.Details.Email != "member@example.com" {
		t.Errorf("Email = %s, want prefilled member email", sess.Details.Email)
	}
}

func TestSelectPaymentAdvances(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil, nil)
	sess := startedSession(t, svc)

	out, err := svc.SelectPayment(sess.ID, domain.PaymentBankTransfer)
	if err != nil {
		t.Fatalf("SelectPayment: %v", err)
	}
	if out.Step != StepEnterDetails {
		t.Errorf("Step = %s, want %s", out.Step, StepEnterDetails)
	}
	if out.PaymentMethod != domain.PaymentBankTransfer {
		t.Errorf("PaymentMethod = %s, want %s", out.PaymentMethod, domain.PaymentBankTransfer)
	}
}

func TestSelectPaymentRejectsUnknownMethod(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil, nil)
	sess := startedSession(t, svc)

	if _, err := svc.SelectPayment(sess.ID, "crypto"); err == nil {
		t.Fatal("expected error for unknown payment method")
	}
}

func TestSubmitDetailsBlocksOnMissingFields(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil, nil)
	sess := startedSession(t, svc)
	if _, err := svc.SelectPayment(sess.ID, domain.PaymentCard); err != nil {
		t.Fatalf("SelectPayment: %v", err)
	}

	d := validDetails()
	d.FullName = "   "
	d.Email = ""
	out, fieldErrs, err := svc.SubmitDetails(sess.ID, d)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if out.Step != StepEnterDetails {
		t.Errorf("Step = %s, want to stay at %s", out.Step, StepEnterDetails)
	}
	if fieldErrs["fullName"] != "This field is required" {
		t.Errorf("fullName error = %q", fieldErrs["fullName"])
	}
	if fieldErrs["email"] != "This field is required" {
		t.Errorf("email error = %q", fieldErrs["email"])
	}
}

func TestSubmitDetailsRejectsMalformedEmail(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil, nil)
	sess := startedSession(t, svc)
	if _, err := svc.SelectPayment(sess.ID, domain.PaymentCard); err != nil {
		t.Fatalf("SelectPayment: %v", err)
	}

	d := validDetails()
	d.Email = "not-an-email"
	_, fieldErrs, err := svc.SubmitDetails(sess.ID, d)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if fieldErrs["email"] != "Please enter a valid email address" {
		t.Errorf("email error = %q", fieldErrs["email"])
	}
}

func TestSubmitDetailsOutOfStep(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil, nil)
	sess := startedSession(t, svc)

	if _, _, err := svc.SubmitDetails(sess.ID, validDetails()); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("err = %v, want ErrWrongStep", err)
	}
}

func TestBackWalksThePrecedingStep(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil, nil)
	sess := atProcessPayment(t, svc)

	out, err := svc.Back(sess.ID)
	if err != nil {
		t.Fatalf("Back: %v", err)
	}
	if out.Step != StepEnterDetails {
		t.Errorf("Step = %s, want %s", out.Step, StepEnterDetails)
	}
	out, err = svc.Back(sess.ID)
	if err != nil {
		t.Fatalf("Back: %v", err)
	}
	if out.Step != StepSelectPayment {
		t.Errorf("Step = %s, want %s", out.Step, StepSelectPayment)
	}
	if _, err := svc.Back(sess.ID); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Back at first step err = %v, want ErrWrongStep", err)
	}
}

func TestCompleteWritesOrderAndClearsCart(t *testing.T) {
	carts := &stubCarts{}
	svc := New(orderrepo.NewMemory(), carts, nil)
	sess := atProcessPayment(t, svc)

	out, err := svc.Complete(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out.Step != StepConfirmed {
		t.Errorf("Step = %s, want %s", out.Step, StepConfirmed)
	}
	if out.Order == nil {
		t.Fatal("Order is nil after completion")
	}
	if out.Order.OrderNumber == "" || len(out.Order.OrderNumber) != 6 {
		t.Errorf("OrderNumber = %q, want six digits", out.Order.OrderNumber)
	}
	if out.Order.Status != domain.StatusPending {
		t.Errorf("Status = %s, want %s", out.Order.Status, domain.StatusPending)
	}
	if out.Order.Total != "1950.00" {
		t.Errorf("Total = %s, want 1950.00", out.Order.Total)
	}
	if len(carts.cleared) != 1 || carts.cleared[0] != "guest:abc" {
		t.Errorf("cleared = %v, want [guest:abc]", carts.cleared)
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	repo := &collidingOrders{Repository: orderrepo.NewMemory()}
	svc := New(repo, nil, nil)
	sess := atProcessPayment(t, svc)

	first, err := svc.Complete(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	second, err := svc.Complete(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("second Complete: %v", err)
	}
	if repo.creates != 1 {
		t.Errorf("creates = %d, want exactly 1", repo.creates)
	}
	if second.Order.ID != first.Order.ID {
		t.Errorf("second Order.ID = %s, want %s", second.Order.ID, first.Order.ID)
	}
}

func TestCompleteRetriesOnOrderNumberCollision(t *testing.T) {
	repo := &collidingOrders{Repository: orderrepo.NewMemory(), collisions: 2}
	svc := New(repo, nil, nil)
	sess := atProcessPayment(t, svc)

	out, err := svc.Complete(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if repo.creates != 3 {
		t.Errorf("creates = %d, want 3 (two collisions then success)", repo.creates)
	}
	if out.Order == nil || out.Order.OrderNumber == "" {
		t.Fatal("order missing after retries")
	}
}

func TestCompleteGivesUpAfterTooManyCollisions(t *testing.T) {
	repo := &collidingOrders{Repository: orderrepo.NewMemory(), collisions: 100}
	svc := New(repo, nil, nil)
	sess := atProcessPayment(t, svc)

	if _, err := svc.Complete(context.Background(), sess.ID); err == nil {
		t.Fatal("expected error when every number collides")
	}
	out, err := svc.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.Step != StepProcessPayment {
		t.Errorf("Step = %s, want to stay at %s after failed write", out.Step, StepProcessPayment)
	}
}

// blockingOrders parks the first Create until released so a second caller
// can be observed mid-write.
type blockingOrders struct {
	orderrepo.Repository
	entered chan struct{}
	release chan struct{}
	creates int
}

func (r *blockingOrders) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	r.creates++
	close(r.entered)
	<-r.release
	return r.Repository.Create(ctx, o)
}

func TestConcurrentCompleteWritesExactlyOneOrder(t *testing.T) {
	repo := &blockingOrders{
		Repository: orderrepo.NewMemory(),
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	svc := New(repo, nil, nil)
	sess := atProcessPayment(t, svc)

	type result struct {
		sess *Session
		err  error
	}
	firstDone := make(chan result, 1)
	go func() {
		out, err := svc.Complete(context.Background(), sess.ID)
		firstDone <- result{out, err}
	}()

	select {
	case <-repo.entered:
	case <-time.After(time.Second):
		t.Fatal("first Complete never reached the order write")
	}

	// The double-click arrives while the first write is in flight.
	if _, err := svc.Complete(context.Background(), sess.ID); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("concurrent Complete err = %v, want ErrWrongStep", err)
	}

	close(repo.release)
	first := <-firstDone
	if first.err != nil {
		t.Fatalf("first Complete: %v", first.err)
	}
	if first.sess.Step != StepConfirmed || first.sess.Order == nil {
		t.Fatalf("first Complete session = %+v", first.sess)
	}
	if repo.creates != 1 {
		t.Errorf("creates = %d, want exactly 1", repo.creates)
	}

	orders, err := repo.ListByStatus(context.Background())
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(orders) != 1 {
		t.Errorf("stored orders = %d, want 1", len(orders))
	}

	// After the write lands, repeats return the same order.
	again, err := svc.Complete(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("repeat Complete: %v", err)
	}
	if again.Order.ID != first.sess.Order.ID {
		t.Errorf("repeat Order.ID = %s, want %s", again.Order.ID, first.sess.Order.ID)
	}
}

// expiringOrders lapses the session's TTL during the order write.
type expiringOrders struct {
	orderrepo.Repository
	svc       *Service
	sessionID string
}

func (r *expiringOrders) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	r.svc.mu.Lock()
	if sess, ok := r.svc.sessions[r.sessionID]; ok {
		sess.expiresAt = time.Now().Add(-time.Minute)
	}
	r.svc.mu.Unlock()
	return r.Repository.Create(ctx, o)
}

func TestCompleteReturnsOrderWhenSessionExpiresMidWrite(t *testing.T) {
	repo := &expiringOrders{Repository: orderrepo.NewMemory()}
	svc := New(repo, nil, nil)
	repo.svc = svc
	sess := atProcessPayment(t, svc)
	repo.sessionID = sess.ID

	out, err := svc.Complete(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out.Step != StepConfirmed || out.Order == nil {
		t.Fatalf("session = %+v, want confirmed with order", out)
	}

	orders, err := repo.ListByStatus(context.Background())
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(orders) != 1 {
		t.Errorf("stored orders = %d, want 1", len(orders))
	}
}

func TestCompleteOutOfStep(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil, nil)
	sess := startedSession(t, svc)

	if _, err := svc.Complete(context.Background(), sess.ID); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("err = %v, want ErrWrongStep", err)
	}
}

func TestCartClearFailureDoesNotFailCheckout(t *testing.T) {
	carts := &stubCarts{err: errors.New("cart store down")}
	svc := New(orderrepo.NewMemory(), carts, nil)
	sess := atProcessPayment(t, svc)

	out, err := svc.Complete(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out.Step != StepConfirmed {
		t.Errorf("Step = %s, want %s", out.Step, StepConfirmed)
	}
}

func TestUnknownSession(t *testing.T) {
	svc := New(orderrepo.NewMemory(), nil, nil)

	if _, err := svc.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get err = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.SelectPayment("nope", domain.PaymentCard); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SelectPayment err = %v, want ErrSessionNotFound", err)
	}
}
