package checkout

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/spa-storefront/internal/cart"
	pkgerrors "github.com/angelmondragon/spa-storefront/pkg/errors"
	"github.com/angelmondragon/spa-storefront/pkg/logger"
)

const defaultCurrency = "gbp"

// CustomerInfo is the contact and delivery data collected by the checkout form.
type CustomerInfo struct {
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"omitempty,max=40"`
	Address    string `json:"address" validate:"omitempty,max=300"`
	City       string `json:"city" validate:"omitempty,max=100"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=20"`
	Country    string `json:"country" validate:"omitempty,max=100"`
}

// Handoff is the payload given to a payment provider.
type Handoff struct {
	CartID       string
	Items        []cart.LineItem
	CustomerInfo CustomerInfo
	Total        decimal.Decimal
	Currency     string
}

// Session is the provider's answer to a handoff.
type Session struct {
	RedirectURL string
	ProviderRef string
	Total       decimal.Decimal
}

// Provider hands a cart to an external payment system.
type Provider interface {
	Name() string
	CreateSession(ctx context.Context, handoff Handoff) (*Session, error)
}

type cartLoader interface {
	Load(ctx context.Context, cartID string) (cart.Cart, error)
}

type checkoutRecorder interface {
	IncCheckout(provider, outcome string)
}

// Service starts checkout for a persisted cart.
type Service interface {
	Initiate(ctx context.Context, cartID string, info CustomerInfo) (*Session, error)
}

type service struct {
	carts    cartLoader
	provider Provider
	currency string
	logg     *logger.Logger
	metrics  checkoutRecorder
}

// NewService builds the checkout service.
func NewService(carts cartLoader, provider Provider, currency string, logg *logger.Logger, metrics checkoutRecorder) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart loader required")
	}
	if provider == nil {
		return nil, fmt.Errorf("checkout provider required")
	}
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = defaultCurrency
	}
	return &service{
		carts:    carts,
		provider: provider,
		currency: currency,
		logg:     logg,
		metrics:  metrics,
	}, nil
}

// Initiate reads the cart as currently persisted and hands it to the provider.
// The cart itself is left untouched whatever the outcome.
func (s *service) Initiate(ctx context.Context, cartID string, info CustomerInfo) (*Session, error) {
	info = normalizeCustomer(info)
	if err := validateCustomer(info); err != nil {
		return nil, err
	}

	current, err := s.carts.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if current.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	handoff := Handoff{
		CartID:       cartID,
		Items:        current.Items,
		CustomerInfo: info,
		Total:        current.Total(),
		Currency:     s.currency,
	}

	session, err := s.provider.CreateSession(ctx, handoff)
	if err != nil {
		s.record("error")
		if s.logg != nil {
			logCtx := s.logg.WithFields(s.logg.WithCartID(ctx, cartID), map[string]any{
				"provider": s.provider.Name(),
				"total":    handoff.Total.StringFixed(2),
			})
			s.logg.Error(logCtx, "checkout.handoff.failed", err)
		}
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeCheckout {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeCheckout, err, "create checkout session")
	}
	if session == nil || strings.TrimSpace(session.RedirectURL) == "" {
		s.record("error")
		return nil, pkgerrors.New(pkgerrors.CodeCheckout, "checkout provider returned no redirect")
	}

	s.record("ok")
	if s.logg != nil {
		logCtx := s.logg.WithFields(s.logg.WithCartID(ctx, cartID), map[string]any{
			"provider":     s.provider.Name(),
			"provider_ref": session.ProviderRef,
			"items":        len(handoff.Items),
		})
		s.logg.Info(logCtx, "checkout.handoff.created")
	}
	session.Total = handoff.Total
	return session, nil
}

func (s *service) record(outcome string) {
	if s.metrics != nil {
		s.metrics.IncCheckout(s.provider.Name(), outcome)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

func normalizeCustomer(info CustomerInfo) CustomerInfo {
	return CustomerInfo{
		Name:       strings.TrimSpace(info.Name),
		Email:      strings.TrimSpace(info.Email),
		Phone:      strings.TrimSpace(info.Phone),
		Address:    strings.TrimSpace(info.Address),
		City:       strings.TrimSpace(info.City),
		PostalCode: strings.TrimSpace(info.PostalCode),
		Country:    strings.TrimSpace(info.Country),
	}
}

func validateCustomer(info CustomerInfo) error {
	err := validate.Struct(info)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer info")
	}
	details := map[string]string{}
	for _, fieldErr := range errs {
		switch fieldErr.Tag() {
		case "required":
			details[fieldErr.Field()] = "is required"
		case "email":
			details[fieldErr.Field()] = "must be a valid email"
		case "max":
			details[fieldErr.Field()] = fmt.Sprintf("must be at most %s characters", fieldErr.Param())
		default:
			details[fieldErr.Field()] = "is invalid"
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid customer info").WithDetails(details)
}
