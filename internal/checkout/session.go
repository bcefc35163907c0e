package checkout

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rapmue/festivalpos/internal/domain"
)

// Session owns the payment state of one checkout attempt: the chosen
// method, the tendered amount and the change due. It never owns the
// cart; the caller clears the cart after receiving the terminal Sale
// event from Finish.
type Session struct {
	mu        sync.Mutex
	status    domain.CheckoutStatus
	total     decimal.Decimal
	method    domain.PaymentMethod
	tendered  *decimal.Decimal
	changeDue *decimal.Decimal
	disabled  map[domain.PaymentMethod]bool
	onFinish  func(domain.Sale)
}

// Option configures a Session.
type Option func(*Session)

// WithDisabledMethods replaces the default method policy. Disabled
// methods stay selectable in the model but are rejected on selection.
func WithDisabledMethods(methods ...domain.PaymentMethod) Option {
	return func(s *Session) {
		s.disabled = make(map[domain.PaymentMethod]bool, len(methods))
		for _, m := range methods {
			s.disabled[m] = true
		}
	}
}

// WithFinishHook registers a callback invoked with the Sale event when
// the checkout finishes. The hook runs on the caller's goroutine.
func WithFinishHook(fn func(domain.Sale)) Option {
	return func(s *Session) {
		s.onFinish = fn
	}
}

// NewSession creates an idle session. Twint is wired on the terminal
// but not activated, so it is rejected by default.
func NewSession(opts ...Option) *Session {
	s := &Session{
		status:   domain.CheckoutStatusIdle,
		disabled: map[domain.PaymentMethod]bool{domain.PaymentTwint: true},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin starts a checkout for the given cart total.
func (s *Session) Begin(total decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !domain.CanTransitionTo(s.status, domain.CheckoutStatusAwaitingPayment) {
		return fmt.Errorf("%w: cannot begin from %s", ErrIllegalTransition, s.status)
	}
	s.total = total.Round(2)
	s.status = domain.CheckoutStatusAwaitingPayment
	return nil
}

// SelectPayment chooses the payment method. Cash opens the tender step;
// methods without a tender step resolve the payment immediately.
func (s *Session) SelectPayment(method domain.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.IsTerminal() {
		return ErrAlreadyFinished
	}
	if s.status != domain.CheckoutStatusAwaitingPayment {
		return fmt.Errorf("%w: cannot select payment from %s", ErrIllegalTransition, s.status)
	}
	if method == domain.PaymentNone || s.disabled[method] {
		return fmt.Errorf("%w: %s", ErrPaymentMethodUnavailable, method)
	}

	s.method = method
	if method.NeedsTender() {
		s.status = domain.CheckoutStatusAwaitingTender
	} else {
		s.status = domain.CheckoutStatusTenderEntered
	}
	return nil
}

// EnterTender parses the raw amount typed by the cashier and computes
// the change due. A non-parseable or negative amount leaves the session
// untouched. An amount below the total is representable; whether to
// accept an undertendered sale is the caller's decision.
func (s *Session) EnterTender(raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.IsTerminal() {
		return ErrAlreadyFinished
	}
	if !domain.CanTransitionTo(s.status, domain.CheckoutStatusTenderEntered) || !s.method.NeedsTender() {
		return fmt.Errorf("%w: cannot enter tender from %s", ErrIllegalTransition, s.status)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	tendered := amount.Round(2)
	change := tendered.Sub(s.total).Round(2)
	s.tendered = &tendered
	s.changeDue = &change
	s.status = domain.CheckoutStatusTenderEntered
	return nil
}

// Finish closes the checkout and emits the terminal Sale event. It is
// an error, not a no-op, to finish twice without a Reset in between;
// duplicate completion side effects must stay impossible.
func (s *Session) Finish() (*domain.Sale, error) {
	s.mu.Lock()

	if s.status.IsTerminal() {
		s.mu.Unlock()
		return nil, ErrAlreadyFinished
	}
	if !domain.CanTransitionTo(s.status, domain.CheckoutStatusFinished) {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: status %s", ErrIncompleteCheckout, s.status)
	}

	sale := domain.Sale{
		ID:         uuid.New().String(),
		Method:     s.method,
		Total:      s.total,
		Tendered:   s.tendered,
		ChangeDue:  s.changeDue,
		Currency:   domain.Currency,
		FinishedAt: time.Now(),
	}
	s.status = domain.CheckoutStatusFinished
	hook := s.onFinish
	s.mu.Unlock()

	if hook != nil {
		hook(sale)
	}
	return &sale, nil
}

// Reset returns the session to idle so the next checkout can begin.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = domain.CheckoutStatusIdle
	s.total = decimal.Zero
	s.method = domain.PaymentNone
	s.tendered = nil
	s.changeDue = nil
}

// Status returns the current checkout status.
func (s *Session) Status() domain.CheckoutStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Method returns the selected payment method.
func (s *Session) Method() domain.PaymentMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.method
}

// Total returns the total owed for this checkout.
func (s *Session) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Tendered returns the tendered amount, or nil before the tender step.
func (s *Session) Tendered() *decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tendered
}

// ChangeDue returns the computed change, or nil before the tender step.
func (s *Session) ChangeDue() *decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changeDue
}
