package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"shopco-storefront/internal/api"
	"shopco-storefront/internal/auth"
	"shopco-storefront/internal/cart"
	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/order"
	"shopco-storefront/internal/user"
	"shopco-storefront/internal/validate"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Cart is the part of the cart store checkout reads and clears.
type Cart interface {
	Items() []cart.Item
	Subtotal() decimal.Decimal
	Discount() decimal.Decimal
	Total() decimal.Decimal
	EnsureCartID(ctx context.Context) (string, error)
	ClearCart(ctx context.Context) error
}

type Profiles interface {
	Profile(ctx context.Context) (*user.Profile, bool)
}

// Flow is the three-step checkout of one visitor: shipping, payment, review.
type Flow struct {
	mu      sync.Mutex
	step    Step
	form    ShippingForm
	method  order.PaymentMethod
	placing bool

	cart      Cart
	orders    order.Repository
	session   auth.Session
	profiles  Profiles
	returnURL string
}

// NewFlow starts at the shipping step with cash on delivery selected.
// returnURL is where the hosted payment page sends the visitor back to.
func NewFlow(c Cart, orders order.Repository, session auth.Session, profiles Profiles, returnURL string) *Flow {
	return &Flow{
		step:      StepShipping,
		method:    PaymentOptions[0].ID,
		cart:      c,
		orders:    orders,
		session:   session,
		profiles:  profiles,
		returnURL: returnURL,
	}
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) Form() ShippingForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

func (f *Flow) SetShipping(form ShippingForm) {
	form.Details = strings.TrimSpace(form.Details)
	form.Phone = strings.TrimSpace(form.Phone)
	form.City = strings.TrimSpace(form.City)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.form = form
}

// Prefill copies the cached profile phone into an empty phone field.
func (f *Flow) Prefill(ctx context.Context) {
	p, ok := f.profiles.Profile(ctx)
	if !ok || p.Phone == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.form.Phone == "" {
		f.form.Phone = p.Phone
	}
}

// Next advances one step. Leaving the shipping step needs a valid form.
func (f *Flow) Next() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.step {
	case StepShipping:
		if err := validate.Struct(f.form); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidShipping, err)
		}
		f.step = StepPayment
	case StepPayment:
		f.step = StepReview
	}
	return nil
}

func (f *Flow) Previous() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step > StepShipping {
		f.step--
	}
}

// GoToStep jumps back to an earlier step. Jumping to the current or a later
// step does nothing.
func (f *Flow) GoToStep(step Step) error {
	if step < StepShipping || step > StepReview {
		return ErrInvalidStep
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if step < f.step {
		f.step = step
	}
	return nil
}

func (f *Flow) SelectPaymentMethod(id order.PaymentMethod) error {
	if _, ok := LookupPaymentOption(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.method = id
	return nil
}

func (f *Flow) PaymentMethod() PaymentOption {
	f.mu.Lock()
	defer f.mu.Unlock()
	opt, _ := LookupPaymentOption(f.method)
	return opt
}

func (f *Flow) View() View {
	f.mu.Lock()
	step, form, method := f.step, f.form, f.method
	f.mu.Unlock()

	opt, _ := LookupPaymentOption(method)
	total := f.cart.Total()
	v := View{
		Step:     step,
		Form:     form,
		Method:   opt,
		Methods:  PaymentOptions,
		Items:    f.cart.Items(),
		Subtotal: f.cart.Subtotal(),
		Discount: f.cart.Discount(),
		Total:    total,
		Instructions: Instructions(method, InstructionVars{
			"amount": total.StringFixed(2),
			"city":   form.City,
			"phone":  form.Phone,
		}),
	}
	if len(v.Items) == 0 {
		v.Notice = msgEmptyCart
	}
	return v
}

// PlaceOrder submits the order with the selected payment method. The returned
// Outcome carries the message and redirect for the page on success and on
// failure alike.
func (f *Flow) PlaceOrder(ctx context.Context) (Outcome, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "checkout"),
		zap.String("method", "PlaceOrder"),
	)

	f.mu.Lock()
	if f.placing {
		f.mu.Unlock()
		return Outcome{Method: f.method, Message: msgInProgress}, ErrOrderInProgress
	}
	form, method := f.form, f.method
	if err := validate.Struct(form); err != nil {
		f.step = StepShipping
		f.mu.Unlock()
		return Outcome{Method: method, Message: msgInvalidShipping}, fmt.Errorf("%w: %w", ErrInvalidShipping, err)
	}
	f.placing = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.placing = false
		f.mu.Unlock()
	}()

	out := Outcome{Method: method}

	token := f.session.Token(ctx)
	if token == "" {
		out.Message = msgLoginRequired
		out.Redirect = LoginPath
		return out, ErrNotAuthenticated
	}

	if len(f.cart.Items()) == 0 {
		out.Message = msgEmptyCart
		return out, ErrEmptyCart
	}

	cartID, err := f.cart.EnsureCartID(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			return sessionExpired(out), fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		log.Warn("could not resolve remote cart id", zap.Error(err))
		out.Message = msgCartIDNotFound
		return out, fmt.Errorf("%w: %w", ErrCartIDNotFound, err)
	}
	if cartID == "" {
		out.Message = msgCartIDNotFound
		return out, ErrCartIDNotFound
	}

	log = log.With(zap.String("cart_id", cartID), zap.String("payment_method", string(method)))

	if method == order.PaymentCard {
		return f.placeCard(ctx, log, out, token, cartID, form)
	}
	return f.placeCash(ctx, log, out, token, cartID, form)
}

func (f *Flow) placeCash(ctx context.Context, log *zap.Logger, out Outcome, token, cartID string, form ShippingForm) (Outcome, error) {
	res, err := f.orders.CreateCashOrder(ctx, token, cartID, form.address())
	if err != nil {
		log.Error("cash order failed", zap.Error(err))
		if api.IsUnauthorized(err) {
			return sessionExpired(out), fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		out.Message = api.Message(err, msgCashFailed)
		return out, fmt.Errorf("%w: %w", ErrOrderFailed, err)
	}

	if err := f.cart.ClearCart(ctx); err != nil {
		log.Error("order placed but local cart was not cleared", zap.Error(err))
	}
	f.reset()

	log.Info("cash order placed", zap.String("order_id", res.Data.ID))
	out.Message = msgPlaced
	out.Redirect = OrdersPath
	out.RedirectAfter = PlacedDelay
	out.Order = &res.Data
	return out, nil
}

func (f *Flow) placeCard(ctx context.Context, log *zap.Logger, out Outcome, token, cartID string, form ShippingForm) (Outcome, error) {
	res, err := f.orders.CreateCheckoutSession(ctx, token, cartID, form.address(), f.returnURL)
	if err != nil {
		log.Error("payment session failed", zap.Error(err))
		if api.IsUnauthorized(err) {
			return sessionExpired(out), fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		out.Message = api.Message(err, msgCardFailed)
		return out, fmt.Errorf("%w: %w", ErrOrderFailed, err)
	}
	if res.Session.URL == "" {
		log.Error("payment session without url")
		out.Message = msgURLMissing
		return out, ErrPaymentURLMissing
	}

	log.Info("payment session created")
	out.Redirect = res.Session.URL
	return out, nil
}

func (f *Flow) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = StepShipping
	f.form = ShippingForm{}
	f.method = PaymentOptions[0].ID
}

func sessionExpired(out Outcome) Outcome {
	out.Message = msgSessionExpired
	out.Redirect = LoginPath
	out.RedirectAfter = SessionExpiredDelay
	return out
}
