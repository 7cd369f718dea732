package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"standardtime/internal/currency"
	"standardtime/internal/domain"
	orderrepo "standardtime/internal/repository/order"
)

// Step is one state of the checkout wizard. The sequence is linear; the
// only backward moves are explicit Back calls to the immediately preceding
// step, and Confirmed is terminal.
type Step string

const (
	StepSelectPayment  Step = "select_payment"
	StepEnterDetails   Step = "enter_details"
	StepProcessPayment Step = "process_payment"
	StepConfirmed      Step = "confirmed"
)

var (
	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("checkout session not found")
	// ErrWrongStep is returned when an operation is invoked outside the
	// step it belongs to.
	ErrWrongStep = errors.New("operation not valid in current step")
	// ErrValidation signals field-level failures; inspect FieldErrors.
	ErrValidation = errors.New("validation failed")
)

// Non-member shipping in base currency. Signed-in customers ship free.
var guestShipping = decimal.NewFromInt(100)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const sessionTTL = 2 * time.Hour

// Item is the watch snapshot a checkout session is for.
type Item struct {
	WatchID int    `json:"watchId"`
	Brand   string `json:"brand"`
	Model   string `json:"model"`
	Year    string `json:"year"`
	Price   string `json:"price"`
	Image   string `json:"image,omitempty"`
}

// Details is the transient checkout draft. It lives only inside the
// session and is discarded when checkout completes or the session expires.
type Details struct {
	FullName          string `json:"fullName"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	City              string `json:"city"`
	PostalCode        string `json:"postalCode"`
	Country           string `json:"country"`
	Email             string `json:"email"`
	CustomsAssistance bool   `json:"customsAssistance"`
}

// Pricing is the order total breakdown in base currency.
type Pricing struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
}

// Session is the public view of one wizard run.
type Session struct {
	ID            string               `json:"id"`
	Step          Step                 `json:"step"`
	Item          Item                 `json:"item"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	Details       Details              `json:"details"`
	Currency      string               `json:"currency"`
	Pricing       Pricing              `json:"pricing"`
	Order         *domain.Order        `json:"order,omitempty"`
}

type session struct {
	Session
	ownerKey  string
	profileID *string
	expiresAt time.Time

	// completing marks an order write in flight so a concurrent Complete
	// cannot start a second one.
	completing bool
}

type cartClearer interface {
	Clear(ctx context.Context, ownerKey string) error
}

// Service holds in-flight checkout sessions and performs the one real side
// effect of the wizard: writing the order.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*session

	orders orderrepo.Repository
	carts  cartClearer
	logger *log.Logger

	// numberAttempts bounds order-number regeneration on collisions.
	numberAttempts int
}

func New(orders orderrepo.Repository, carts cartClearer, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		sessions:       make(map[string]*session),
		orders:         orders,
		carts:          carts,
		logger:         logger,
		numberAttempts: 5,
	}
}

// Start opens a session for one watch. Card payment is pre-selected, which
// makes the first step's guard trivially satisfiable.
func (s *Service) Start(ownerKey string, profileID *string, email string, item Item, displayCurrency string) *Session {
	if displayCurrency == "" {
		displayCurrency = currency.Base
	}
	sess := &session{
		Session: Session{
			ID:            uuid.NewString(),
			Step:          StepSelectPayment,
			Item:          item,
			PaymentMethod: domain.PaymentCard,
			Details:       Details{Email: email},
			Currency:      displayCurrency,
		},
		ownerKey:  ownerKey,
		profileID: profileID,
		expiresAt: time.Now().Add(sessionTTL),
	}
	sess.Pricing = s.pricing(sess)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.sessions[sess.ID] = sess
	return snapshot(sess)
}

// Get returns the current session view.
func (s *Service) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return snapshot(sess), nil
}

// SelectPayment records the method and advances to EnterDetails.
func (s *Service) SelectPayment(id string, method domain.PaymentMethod) (*Session, error) {
	if method != domain.PaymentCard && method != domain.PaymentBankTransfer {
		return nil, fmt.Errorf("unknown payment method %q", method)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if sess.Step != StepSelectPayment {
		return nil, ErrWrongStep
	}
	sess.PaymentMethod = method
	sess.Step = StepEnterDetails
	return snapshot(sess), nil
}

// SubmitDetails validates the draft. Any failing field blocks the
// transition and is reported in the returned map; on success the wizard
// advances to ProcessPayment.
func (s *Service) SubmitDetails(id string, d Details) (*Session, map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	if sess.Step != StepEnterDetails {
		return nil, nil, ErrWrongStep
	}
	if fieldErrs := validateDetails(d); len(fieldErrs) > 0 {
		return snapshot(sess), fieldErrs, ErrValidation
	}
	sess.Details = d
	sess.Step = StepProcessPayment
	return snapshot(sess), nil, nil
}

// Back moves to the immediately preceding step. Confirmed sessions cannot
// go back.
func (s *Service) Back(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	switch sess.Step {
	case StepEnterDetails:
		sess.Step = StepSelectPayment
	case StepProcessPayment:
		sess.Step = StepEnterDetails
	default:
		return nil, ErrWrongStep
	}
	return snapshot(sess), nil
}

// Complete writes the order and moves to Confirmed. It only advances on
// write success, and a session that is already Confirmed returns its order
// again without writing twice. While a write is in flight, concurrent
// Complete calls on the same session get ErrWrongStep instead of racing a
// second order into the store.
func (s *Service) Complete(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	sess, err := s.lookup(id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if sess.Step == StepConfirmed {
		out := snapshot(sess)
		s.mu.Unlock()
		return out, nil
	}
	if sess.Step != StepProcessPayment || sess.completing {
		s.mu.Unlock()
		return nil, ErrWrongStep
	}
	sess.completing = true
	order := s.buildOrder(sess)
	ownerKey := sess.ownerKey
	s.mu.Unlock()

	// The repository write happens outside the session lock; the in-flight
	// flag keeps the step guard exclusive across the gap.
	created, err := s.createWithFreshNumber(ctx, order)
	if err != nil {
		s.mu.Lock()
		sess.completing = false
		s.mu.Unlock()
		return nil, err
	}

	if s.carts != nil && ownerKey != "" {
		if err := s.carts.Clear(ctx, ownerKey); err != nil {
			// The order exists; a stale cart is recoverable.
			s.logger.Printf("checkout: clear cart owner=%s: %v", ownerKey, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// The write committed, so confirm on the retained session even if its
	// TTL lapsed mid-write; the shopper must still see their order.
	sess.completing = false
	sess.Step = StepConfirmed
	sess.Order = created
	return snapshot(sess), nil
}

// createWithFreshNumber regenerates the order number on uniqueness
// collisions. Numbers are assigned here, server-side, so two concurrent
// checkouts can never share one.
func (s *Service) createWithFreshNumber(ctx context.Context, o domain.Order) (*domain.Order, error) {
	for i := 0; i < s.numberAttempts; i++ {
		o.OrderNumber = newOrderNumber()
		created, err := s.orders.Create(ctx, o)
		if err == nil {
			return created, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return nil, err
	}
	return nil, errors.New("order number collision")
}

func (s *Service) buildOrder(sess *session) domain.Order {
	pricing := s.pricing(sess)
	sess.Pricing = pricing
	return domain.Order{
		ProfileID:         sess.profileID,
		CustomerName:      sess.Details.FullName,
		Email:             sess.Details.Email,
		Phone:             sess.Details.Phone,
		Address:           sess.Details.Address,
		City:              sess.Details.City,
		PostalCode:        sess.Details.PostalCode,
		Country:           sess.Details.Country,
		WatchID:           sess.Item.WatchID,
		WatchBrand:        sess.Item.Brand,
		WatchModel:        sess.Item.Model,
		WatchYear:         sess.Item.Year,
		Price:             sess.Item.Price,
		Total:             pricing.Total,
		Currency:          sess.Currency,
		PaymentMethod:     sess.PaymentMethod,
		CustomsAssistance: sess.Details.CustomsAssistance,
	}
}

func (s *Service) pricing(sess *session) Pricing {
	subtotal, err := currency.ParseAmount(sess.Item.Price)
	if err != nil {
		subtotal = decimal.Zero
	}
	shipping := guestShipping
	if sess.profileID != nil {
		shipping = decimal.Zero
	}
	total := subtotal.Add(shipping)
	return Pricing{
		Subtotal: subtotal.StringFixed(2),
		Shipping: shipping.StringFixed(2),
		Total:    total.StringFixed(2),
	}
}

// lookup must be called with s.mu held.
func (s *Service) lookup(id string) (*session, error) {
	sess, ok := s.sessions[id]
	if !ok || time.Now().After(sess.expiresAt) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// prune must be called with s.mu held.
func (s *Service) prune() {
	now := time.Now()
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

func snapshot(sess *session) *Session {
	out := sess.Session
	return &out
}

func validateDetails(d Details) map[string]string {
	errs := make(map[string]string)
	required := map[string]string{
		"fullName": d.FullName,
		"phone":    d.Phone,
		"address":  d.Address,
		"city":     d.City,
		"country":  d.Country,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			errs[field] = "This field is required"
		}
	}
	email := strings.TrimSpace(d.Email)
	switch {
	case email == "":
		errs["email"] = "This field is required"
	case !emailPattern.MatchString(email):
		errs["email"] = "Please enter a valid email address"
	}
	return errs
}

func newOrderNumber() string {
	return fmt.Sprintf("%06d", 100000+rand.IntN(900000))
}
