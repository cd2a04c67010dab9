package cognito

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"

	apperrors "github.com/kbukum/cognitoauth/errors"
	"github.com/kbukum/cognitoauth/httpclient"
	"github.com/kbukum/cognitoauth/logger"
	"github.com/kbukum/cognitoauth/observability"
	"github.com/kbukum/cognitoauth/session"
)

const opTokenExchange = "token exchange"

// Tokens is the token set returned by the token endpoint.
type Tokens = session.Tokens

// Exchanger trades an authorization code for tokens.
type Exchanger interface {
	Exchange(ctx context.Context, code string) (*Tokens, error)
}

// ExchangerFunc is an adapter to use ordinary functions as Exchanger.
type ExchangerFunc func(ctx context.Context, code string) (*Tokens, error)

// Exchange implements Exchanger.
func (f ExchangerFunc) Exchange(ctx context.Context, code string) (*Tokens, error) {
	return f(ctx, code)
}

// OAuth2Exchanger performs the authorization_code grant against the token
// endpoint, sending the client credentials as HTTP basic auth.
type OAuth2Exchanger struct {
	oauth  *oauth2.Config
	client *httpclient.Client
	log    *logger.Logger
	tel    *observability.Telemetry
}

// NewOAuth2Exchanger creates an exchanger for cfg. It honours WithHTTPClient,
// WithLogger and WithTelemetry.
func NewOAuth2Exchanger(cfg *Config, opts ...Option) (*OAuth2Exchanger, error) {
	o, err := resolve(cfg, opts)
	if err != nil {
		return nil, err
	}
	return &OAuth2Exchanger{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   FixURL(cfg.CognitoDomain) + loginPath,
				TokenURL:  cfg.TokenURL(),
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		client: o.client,
		log:    o.log.WithComponent("exchange"),
		tel:    o.telemetry,
	}, nil
}

// Exchange implements Exchanger. Any failure is a TRANSPORT_ERROR; when the
// token endpoint answered with an OAuth2 error its code is in the details.
func (e *OAuth2Exchanger) Exchange(ctx context.Context, code string) (tokens *Tokens, err error) {
	start := time.Now()
	ctx, span := e.tel.StartSpan(ctx, observability.SpanTokenExchange,
		attribute.String(observability.AttrURL, e.oauth.Endpoint.TokenURL))
	defer func() {
		observability.EndSpan(span, err)
		e.tel.Metrics().RecordExchange(ctx, observability.Outcome(err), time.Since(start))
		if err != nil {
			e.log.Warn("authorization code exchange failed", logger.ErrorFields(opTokenExchange, err))
		}
	}()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, e.client.Unwrap())
	tok, err := e.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, exchangeError(err)
	}

	idToken, _ := tok.Extra("id_token").(string)
	return &Tokens{
		AccessToken:  tok.AccessToken,
		IDToken:      idToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}, nil
}

func exchangeError(err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		return httpclient.AsTransport(opTokenExchange, err)
	}
	appErr := apperrors.Transport(opTokenExchange, err)
	if re.Response != nil {
		appErr.WithDetail("status", re.Response.StatusCode)
	}
	if re.ErrorCode != "" {
		appErr.WithDetail("idp_error", re.ErrorCode)
	}
	if re.ErrorDescription != "" {
		appErr.WithDetail("idp_error_description", re.ErrorDescription)
	}
	return appErr
}
