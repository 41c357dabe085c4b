package checkout

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/angelmondragon/spa-storefront/pkg/errors"
)

// UnavailableProvider is used when no payment provider is configured.
type UnavailableProvider struct{}

func (UnavailableProvider) Name() string { return "none" }

func (UnavailableProvider) CreateSession(context.Context, Handoff) (*Session, error) {
	return nil, pkgerrors.New(pkgerrors.CodeCheckout, "no payment provider configured")
}

// SessionCreator is the Stripe call the provider depends on.
type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeProvider hands carts to Stripe hosted Checkout.
type StripeProvider struct {
	client     SessionCreator
	successURL string
	cancelURL  string
}

// NewStripeProvider wraps a Stripe session creator.
func NewStripeProvider(client SessionCreator, successURL, cancelURL string) *StripeProvider {
	return &StripeProvider{
		client:     client,
		successURL: strings.TrimSpace(successURL),
		cancelURL:  strings.TrimSpace(cancelURL),
	}
}

func (p *StripeProvider) Name() string { return "stripe" }

func (p *StripeProvider) CreateSession(ctx context.Context, handoff Handoff) (*Session, error) {
	if p == nil || p.client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeCheckout, "stripe client not configured")
	}
	sess, err := p.client.CreateCheckoutSession(ctx, p.sessionParams(handoff))
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeCheckout, "stripe returned no session")
	}
	return &Session{RedirectURL: sess.URL, ProviderRef: sess.ID}, nil
}

func (p *StripeProvider) sessionParams(handoff Handoff) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(p.successURL),
		CancelURL:     stripe.String(p.cancelURL),
		CustomerEmail: stripe.String(handoff.CustomerInfo.Email),
		Metadata: map[string]string{
			"cart_id":       handoff.CartID,
			"customer_name": handoff.CustomerInfo.Name,
		},
	}
	for key, value := range map[string]string{
		"customer_phone":   handoff.CustomerInfo.Phone,
		"shipping_address": handoff.CustomerInfo.Address,
		"shipping_city":    handoff.CustomerInfo.City,
		"shipping_postal":  handoff.CustomerInfo.PostalCode,
		"shipping_country": handoff.CustomerInfo.Country,
	} {
		if value != "" {
			params.Metadata[key] = value
		}
	}
	for _, item := range handoff.Items {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if isAbsoluteURL(item.Image) {
			product.Images = stripe.StringSlice([]string{item.Image})
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(handoff.Currency),
				UnitAmount:  stripe.Int64(unitAmount(item.Price, handoff.Currency)),
				ProductData: product,
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	return params
}

// Stripe amounts are in the currency's smallest unit. Most currencies use two
// decimals; these use none or three.
var (
	zeroDecimalCurrencies = map[string]bool{
		"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
		"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
		"vuv": true, "xaf": true, "xof": true, "xpf": true,
	}
	threeDecimalCurrencies = map[string]bool{
		"bhd": true, "jod": true, "kwd": true, "omr": true, "tnd": true,
	}
)

func unitAmount(price decimal.Decimal, currency string) int64 {
	currency = strings.ToLower(strings.TrimSpace(currency))
	switch {
	case zeroDecimalCurrencies[currency]:
		return price.Round(0).IntPart()
	case threeDecimalCurrencies[currency]:
		// Three-decimal amounts must end in zero.
		return price.Round(2).Shift(3).IntPart()
	default:
		return price.Shift(2).Round(0).IntPart()
	}
}

func isAbsoluteURL(value string) bool {
	return strings.HasPrefix(value, "https://") || strings.HasPrefix(value, "http://")
}
