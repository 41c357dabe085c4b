package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"

	"github.com/angelmondragon/spa-storefront/pkg/config"
	"github.com/angelmondragon/spa-storefront/pkg/logger"
)

const (
	testEnv = "test"
	liveEnv = "live"
)

var (
	errAPIKeyRequired   = errors.New("stripe api key is required")
	errInvalidStripeEnv = fmt.Errorf("stripe environment must be %q or %q", testEnv, liveEnv)
)

// Client holds the configured Stripe key and environment.
type Client struct {
	environment string
}

// NewClient initializes Stripe once with the configured key and env.
func NewClient(ctx context.Context, cfg config.StripeConfig, logg *logger.Logger) (*Client, error) {
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	if err := validateAPIKey(env, apiKey); err != nil {
		return nil, err
	}

	stripe.Key = apiKey

	if logg != nil {
		logg.Info(ctx, fmt.Sprintf("stripe client initialized (%s)", env))
	}

	return &Client{environment: env}, nil
}

// Environment reports the normalized Stripe environment in use.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// CreateCheckoutSession creates a hosted Checkout Session.
func (c *Client) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if c == nil {
		return nil, errors.New("stripe client not initialized")
	}
	if params != nil {
		params.Context = ctx
	}
	return session.New(params)
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = testEnv
	}
	switch env {
	case testEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidStripeEnv
	}
}

func validateAPIKey(env, key string) error {
	switch env {
	case testEnv:
		if strings.HasPrefix(key, "sk_test") || strings.HasPrefix(key, "rk_test") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a test secret key (sk_test/rk_test)", testEnv)
	case liveEnv:
		if strings.HasPrefix(key, "sk_live") || strings.HasPrefix(key, "rk_live") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a live secret key (sk_live/rk_live)", liveEnv)
	default:
		return errInvalidStripeEnv
	}
}
