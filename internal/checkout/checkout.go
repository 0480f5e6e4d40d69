// Package checkout implements the order submission protocol: a small
// state machine that snapshots the cart, validates customer fields,
// posts the order and clears the cart only on confirmed success.
package checkout

import (
	"context"
	"errors"
	"sync"

	"canteen-client/internal/cart"
	"canteen-client/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// State is the submission state.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OrderPlacer is the slice of the API client used for submission.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, r *model.OrderRequest) (*model.Order, error)
}

// CustomerInfo carries the checkout form fields.
type CustomerInfo struct {
	Name          string
	Phone         string
	Email         string
	RoomNumber    string
	Instructions  string
	PaymentMethod string
}

// Submitter runs order submissions. At most one submission is in flight
// at any time; a second Submit while one is running is rejected.
type Submitter struct {
	cart   *cart.Store
	api    OrderPlacer
	logger zerolog.Logger

	mu    sync.Mutex
	state State

	validate *validator.Validate
}

// New creates a submitter for the given cart.
func New(cartStore *cart.Store, api OrderPlacer, logger zerolog.Logger) *Submitter {
	return &Submitter{
		cart:     cartStore,
		api:      api,
		logger:   logger.With().Str("component", "checkout").Logger(),
		state:    StateIdle,
		validate: validator.New(),
	}
}

// State returns the current submission state.
func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit snapshots the cart and posts it as an order.
//
// Preconditions: the cart is non-empty and name and phone are filled in;
// violations are rejected before any network call and leave the state
// Idle. On success the cart is cleared and the created order returned.
// On failure the cart is untouched so the user can retry; a retry takes
// a fresh snapshot.
func (s *Submitter) Submit(ctx context.Context, info CustomerInfo) (*model.Order, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}

	req, err := s.buildRequest(info)
	if err != nil {
		// Validation failures never reach the network; the machine
		// returns to Idle so the form can be corrected and resubmitted.
		s.finish(StateIdle)
		return nil, err
	}

	s.logger.Info().
		Int("items", len(req.Items)).
		Msg("submitting order")

	order, err := s.api.CreateOrder(ctx, req)
	if err != nil {
		s.finish(StateFailed)
		s.logger.Warn().Err(err).Msg("order submission failed")
		return nil, err
	}

	// Server confirmed creation: the cart session is complete.
	s.cart.Clear()
	s.finish(StateSucceeded)
	s.logger.Info().Int64("order_id", order.ID).Msg("order placed")
	return order, nil
}

// begin transitions into Submitting, enforcing the single in-flight
// submission invariant.
func (s *Submitter) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		return model.ErrSubmissionInFlight
	}
	s.state = StateSubmitting
	return nil
}

// finish records the terminal state of the attempt.
func (s *Submitter) finish(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// buildRequest validates the inputs and freezes the cart snapshot into
// an immutable order request.
func (s *Submitter) buildRequest(info CustomerInfo) (*model.OrderRequest, error) {
	items := s.cart.Items()
	if len(items) == 0 {
		return nil, model.ErrEmptyCart
	}

	req := &model.OrderRequest{
		CustomerName:        info.Name,
		CustomerPhone:       info.Phone,
		CustomerEmail:       info.Email,
		RoomNumber:          info.RoomNumber,
		SpecialInstructions: info.Instructions,
		PaymentMethod:       info.PaymentMethod,
		Items:               make([]model.OrderItemRequest, len(items)),
	}
	for i, li := range items {
		req.Items[i] = model.OrderItemRequest{
			MenuItem: li.ID,
			Quantity: li.Quantity,
			// Advisory only; the server prices from its own catalogue.
			Price: li.Price.Float64(),
		}
	}

	if err := s.validate.Struct(req); err != nil {
		return nil, translateValidation(err)
	}
	return req, nil
}

// translateValidation maps validator failures onto the user-facing
// domain errors.
func translateValidation(err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return model.NewDomainError(model.ErrCodeValidation, err.Error())
	}
	for _, fe := range fields {
		switch fe.Field() {
		case "CustomerName", "CustomerPhone":
			return model.ErrMissingCustomerFields
		case "CustomerEmail":
			return model.ErrInvalidEmail
		}
	}
	return model.NewDomainError(model.ErrCodeValidation, fields.Error())
}
