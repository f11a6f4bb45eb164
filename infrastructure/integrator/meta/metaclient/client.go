package metaclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"github.com/vfg2006/traffic-manager-ads/infrastructure/integrator/meta/throttle"
	"github.com/vfg2006/traffic-manager-ads/internal/config"
	"github.com/vfg2006/traffic-manager-ads/pkg/clock"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:generate mockgen -source=client.go -destination=mocks/client.go -package=mocks
type Client interface {
	Get(ctx context.Context, req Request) (*Response, error)
	Post(ctx context.Context, req Request) (*Response, error)
	Delete(ctx context.Context, req Request) (*Response, error)
	Batch(ctx context.Context, req BatchRequest) ([]BatchResult, error)
}

// Governor é o limitador de uso por conta aplicado antes de cada chamada
type Governor interface {
	Wait(ctx context.Context, key string, kind throttle.CallKind) (time.Duration, error)
}

// TokenSource fornece o token de acesso atual
type TokenSource interface {
	AccessToken() string
}

type tokenRefresher interface {
	RefreshToken(ctx context.Context) error
}

type MetaClient struct {
	baseURL    string
	userAgent  string
	retry      config.Retry
	tokens     TokenSource
	governor   Governor
	clock      clock.Clock
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*Response]
}

type Option func(*MetaClient)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *MetaClient) {
		c.httpClient = httpClient
	}
}

func WithClock(clk clock.Clock) Option {
	return func(c *MetaClient) {
		c.clock = clk
	}
}

func NewClient(cfg *config.Config, tokens TokenSource, governor Governor, opts ...Option) *MetaClient {
	client := &MetaClient{
		baseURL:    cfg.Meta.URL,
		userAgent:  cfg.Meta.UserAgent,
		retry:      cfg.Retry,
		tokens:     tokens,
		governor:   governor,
		clock:      clock.Real(),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		breaker:    newBreaker(cfg.CircuitBreaker),
	}

	if client.retry.MaxAttempts <= 0 {
		client.retry.MaxAttempts = 1
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Get executa uma leitura sem retentativas; falhas voltam normalizadas
func (c *MetaClient) Get(ctx context.Context, req Request) (*Response, error) {
	requestURL, err := withQuery(c.buildURL(req.Node, req.Edge), req.Params)
	if err != nil {
		return nil, err
	}

	if err := c.throttle(ctx, req.ThrottleKey, throttle.Read); err != nil {
		return nil, err
	}

	return c.execute(ctx, http.MethodGet, requestURL, nil)
}

// Post cria ou atualiza um objeto com retentativas classificadas
func (c *MetaClient) Post(ctx context.Context, req Request) (*Response, error) {
	if req.Method == "" {
		req.Method = http.MethodPost
	}
	return c.send(ctx, req)
}

func (c *MetaClient) Delete(ctx context.Context, req Request) (*Response, error) {
	req.Method = http.MethodDelete
	return c.send(ctx, req)
}

func (c *MetaClient) send(ctx context.Context, req Request) (*Response, error) {
	var body []byte
	if len(req.Params) > 0 {
		encoded, err := json.Marshal(req.Params)
		if err != nil {
			return nil, fmt.Errorf("metaclient: encode body: %w", err)
		}
		body = encoded
	}

	requestURL := c.buildURL(req.Node, req.Edge)

	return c.withRetry(ctx, req.Method, requestURL, func() (*Response, error) {
		if err := c.throttle(ctx, req.ThrottleKey, throttle.Write); err != nil {
			return nil, err
		}
		return c.execute(ctx, req.Method, requestURL, body)
	})
}

// withRetry repete a chamada conforme a classificação do erro: erros fatais
// voltam na hora, limite da conta aguarda RateLimitDelay, o erro transitório
// (código 2) aguarda TransientDelay e reinicia a contagem, demais aguardam
// BaseDelay × tentativa até MaxAttempts.
func (c *MetaClient) withRetry(ctx context.Context, method, requestURL string, call func() (*Response, error)) (*Response, error) {
	resets := 0

	for attempt := 1; ; attempt++ {
		resp, err := call()
		if err == nil {
			return resp, nil
		}

		if ctx.Err() != nil {
			return nil, err
		}

		apiErr, isAPIErr := AsAPIError(err)
		if isAPIErr && apiErr.IsFatal() {
			return nil, err
		}

		var delay time.Duration
		switch {
		case isAPIErr && apiErr.IsAccountRateLimited():
			delay = c.retry.RateLimitDelay()
		case isAPIErr && apiErr.IsTransient() && resets < c.retry.MaxTransientResets:
			delay = c.retry.TransientDelay()
			resets++
			attempt = 0
		default:
			delay = c.retry.BaseDelay() * time.Duration(attempt)
		}

		if attempt >= c.retry.MaxAttempts {
			return nil, err
		}

		if isAPIErr && apiErr.IsTokenExpired() {
			c.refreshToken(ctx)
		}

		logrus.WithFields(logrus.Fields{
			"method":  method,
			"url":     requestURL,
			"attempt": attempt,
			"delay":   delay.String(),
		}).WithError(err).Warn("metaclient: request failed, retrying")

		if sleepErr := c.clock.Sleep(ctx, delay); sleepErr != nil {
			return nil, sleepErr
		}
	}
}

func (c *MetaClient) refreshToken(ctx context.Context) {
	refresher, ok := c.tokens.(tokenRefresher)
	if !ok {
		return
	}
	if err := refresher.RefreshToken(ctx); err != nil {
		logrus.WithError(err).Error("metaclient: token refresh failed")
	}
}

func (c *MetaClient) throttle(ctx context.Context, key string, kind throttle.CallKind) error {
	if key == "" || c.governor == nil {
		return nil
	}
	_, err := c.governor.Wait(ctx, key, kind)
	return err
}

// execute emite uma única requisição HTTP. Falhas de transporte e 5xx sem
// envelope de erro da Graph contam para o circuit breaker; erros da API não.
func (c *MetaClient) execute(ctx context.Context, method, requestURL string, body []byte) (*Response, error) {
	resp, err := c.breaker.Execute(func() (*Response, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		httpReq, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
		if err != nil {
			return nil, fmt.Errorf("metaclient: build request: %w", err)
		}

		httpReq.Header.Set("Authorization", "Bearer "+c.accessToken())
		httpReq.Header.Set("User-Agent", c.userAgent)
		httpReq.Header.Set("Accept", "application/json")
		if body != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}

		httpResp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("metaclient: %s %s: %w", method, requestURL, err)
		}
		defer httpResp.Body.Close()

		data, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, fmt.Errorf("metaclient: read response: %w", err)
		}

		if httpResp.StatusCode >= http.StatusInternalServerError && !hasErrorEnvelope(data) {
			return nil, parseAPIError(httpResp.StatusCode, data)
		}

		return &Response{
			StatusCode: httpResp.StatusCode,
			Header:     httpResp.Header,
			Body:       data,
		}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logrus.WithField("url", requestURL).Warn("metaclient: circuit breaker rejected request")
		}
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, parseAPIError(resp.StatusCode, resp.Body)
	}

	return resp, nil
}

func (c *MetaClient) accessToken() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.AccessToken()
}
