// Package dispatch rebuilds HTTP requests from tool arguments and executes
// them against the configured backend.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"yasmcp/internal/registry"
	"yasmcp/internal/schema"
	"yasmcp/pkg/logging"
)

const (
	// DefaultTimeout bounds a single outbound call.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxResponseBytes caps how much of a response body is read.
	DefaultMaxResponseBytes int64 = 50 << 20
)

const (
	defaultAccept   = "application/json, */*;q=0.8"
	requestIDHeader = "X-Request-Id"
)

var placeholder = regexp.MustCompile(`\{([^{}]+)\}`)

// AuthType selects how outbound requests are authorized.
type AuthType string

const (
	AuthNone   AuthType = "none"
	AuthBearer AuthType = "bearer"
	AuthBasic  AuthType = "basic"
	AuthAPIKey AuthType = "api_key"
)

// Auth holds static credentials. Tokens are used as given; nothing is
// acquired or refreshed.
type Auth struct {
	Type       AuthType
	Token      string
	Username   string
	Password   string
	HeaderName string
	Value      string
}

// Observer receives the outcome of every dispatch.
type Observer interface {
	ObserveDispatch(route registry.Route, status int, err error, elapsed time.Duration)
}

// Options configures a Dispatcher.
type Options struct {
	Timeout          time.Duration
	MaxResponseBytes int64
	// Headers are sent on every request; route headers take precedence.
	Headers   map[string]string
	Auth      Auth
	UserAgent string

	// RequestsPerSecond enables a shared token bucket when positive.
	RequestsPerSecond float64
	Burst             int

	// Transport overrides the pooled transport.
	Transport http.RoundTripper
	Observer  Observer
}

// HTTPResponse is the normalized result of a call.
type HTTPResponse struct {
	StatusCode int
	// Body is decoded JSON for JSON responses, the raw text otherwise, nil when empty.
	Body    interface{}
	Headers map[string]string
}

// Dispatcher executes routes. It is safe for concurrent use.
type Dispatcher struct {
	client   *http.Client
	opts     Options
	limiter  *rate.Limiter
	tracer   trace.Tracer
	maxBytes int64
}

// New creates a Dispatcher with a pooled HTTP client.
func New(opts Options) *Dispatcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	maxBytes := opts.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxResponseBytes
	}

	base := opts.Transport
	if base == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.MaxIdleConnsPerHost = 16
		base = t
	}
	if opts.Auth.Type == AuthBearer && opts.Auth.Token != "" {
		base = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Auth.Token, TokenType: "Bearer"}),
			Base:   base,
		}
	}

	d := &Dispatcher{
		client:   &http.Client{Timeout: opts.Timeout, Transport: base},
		opts:     opts,
		tracer:   otel.Tracer("yasmcp/dispatch"),
		maxBytes: maxBytes,
	}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		d.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return d
}

// Execute substitutes args into route and performs the call against baseURL.
// Any HTTP status yields a response; only failures to build or transmit the
// request yield an *Error.
func (d *Dispatcher) Execute(ctx context.Context, route registry.Route, baseURL string, args map[string]interface{}) (*HTTPResponse, error) {
	start := time.Now()
	resp, err := d.execute(ctx, route, baseURL, args)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	if d.opts.Observer != nil {
		d.opts.Observer.ObserveDispatch(route, status, err, time.Since(start))
	}
	return resp, err
}

func (d *Dispatcher) execute(ctx context.Context, route registry.Route, baseURL string, args map[string]interface{}) (*HTTPResponse, error) {
	if args == nil {
		args = map[string]interface{}{}
	}

	path, err := substitutePath(route.Path, args)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	var headerArgs [][2]string
	var cookies []*http.Cookie
	for _, p := range route.Parameters {
		if p.In == schema.LocationPath || route.IsBodyField(p.Name) {
			continue
		}
		v, present := args[p.Name]
		if !present || v == nil {
			if p.Required {
				return nil, &Error{Kind: KindMissingRequiredParameter, Param: p.Name}
			}
			continue
		}
		switch p.In {
		case schema.LocationQuery:
			for _, s := range listValues(v) {
				query.Add(p.Name, s)
			}
		case schema.LocationHeader:
			headerArgs = append(headerArgs, [2]string{p.Name, strings.Join(listValues(v), ",")})
		case schema.LocationCookie:
			cookies = append(cookies, &http.Cookie{Name: p.Name, Value: formatValue(v)})
		}
	}

	target, err := buildURL(baseURL, path, query)
	if err != nil {
		return nil, &Error{Kind: KindEncoding, Method: route.Method, URL: baseURL + path, Err: err}
	}

	body, contentType, err := buildBody(route, args)
	if err != nil {
		return nil, &Error{Kind: KindEncoding, Method: route.Method, URL: target, Err: err}
	}

	ctx, span := d.tracer.Start(ctx, route.Method+" "+route.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", route.Method),
			attribute.String("http.route", route.Path),
			attribute.String("url.full", target),
		))
	defer span.End()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, route.Method, target, reader)
	if err != nil {
		return nil, d.fail(span, &Error{Kind: KindEncoding, Method: route.Method, URL: target, Err: err})
	}

	for k, v := range d.opts.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range route.Headers {
		req.Header.Set(k, v)
	}
	for _, h := range headerArgs {
		req.Header.Set(h[0], h[1])
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	if req.Header.Get("Accept") == "" {
		accept := route.Accept
		if accept == "" {
			accept = defaultAccept
		}
		req.Header.Set("Accept", accept)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if d.opts.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", d.opts.UserAgent)
	}
	if req.Header.Get(requestIDHeader) == "" {
		req.Header.Set(requestIDHeader, uuid.New().String())
	}
	d.authorize(req)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, d.fail(span, &Error{Kind: KindTransport, Method: route.Method, URL: target, Err: fmt.Errorf("rate limiter: %w", err)})
		}
	}

	requestID := req.Header.Get(requestIDHeader)
	logging.Debug("Dispatch", "%s %s (request %s)", route.Method, target, requestID)

	start := time.Now()
	resp, err := d.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		logging.Error("Dispatch", err, "%s %s failed after %s", route.Method, target, duration)
		return nil, d.fail(span, &Error{Kind: KindTransport, Method: route.Method, URL: target, Err: err})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes+1))
	if err != nil {
		return nil, d.fail(span, &Error{Kind: KindTransport, Method: route.Method, URL: target, Err: fmt.Errorf("reading response: %w", err)})
	}
	if int64(len(raw)) > d.maxBytes {
		logging.Warn("Dispatch", "Response of %s %s truncated to %d bytes", route.Method, target, d.maxBytes)
		raw = raw[:d.maxBytes]
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, resp.Status)
	}
	logging.Debug("Dispatch", "%s %s -> %d in %s (request %s)", route.Method, target, resp.StatusCode, duration, requestID)

	return &HTTPResponse{
		StatusCode: resp.StatusCode,
		Body:       decodeBody(raw, resp.Header.Get("Content-Type")),
		Headers:    flattenHeaders(resp.Header),
	}, nil
}

func (d *Dispatcher) fail(span trace.Span, err *Error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(err.Kind))
	return err
}

func (d *Dispatcher) authorize(req *http.Request) {
	a := d.opts.Auth
	switch a.Type {
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthAPIKey:
		name := a.HeaderName
		if name == "" {
			name = "X-API-Key"
		}
		req.Header.Set(name, a.Value)
	}
}

// substitutePath fills every {name} placeholder, failing on the first one
// without a value.
func substitutePath(template string, args map[string]interface{}) (string, error) {
	var missing string
	out := placeholder.ReplaceAllStringFunc(template, func(m string) string {
		if missing != "" {
			return m
		}
		name := m[1 : len(m)-1]
		v, ok := args[name]
		if !ok || v == nil {
			missing = name
			return m
		}
		return url.PathEscape(formatValue(v))
	})
	if missing != "" {
		return "", &Error{Kind: KindMissingPathParameter, Param: missing}
	}
	return out, nil
}

func buildURL(baseURL, path string, query url.Values) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + path)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		existing := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				existing.Add(k, v)
			}
		}
		u.RawQuery = existing.Encode()
	}
	return u.String(), nil
}

// buildBody serializes the request payload for POST, PUT and PATCH.
func buildBody(route registry.Route, args map[string]interface{}) ([]byte, string, error) {
	switch route.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return nil, "", nil
	}

	var payload interface{}
	if route.RawBody {
		v, ok := args[schema.BodyProperty]
		if !ok || v == nil {
			return nil, "", nil
		}
		payload = v
	} else {
		residue := map[string]interface{}{}
		for k, v := range args {
			if p, declared := route.Parameter(k); declared && !route.IsBodyField(p.Name) {
				continue
			}
			residue[k] = v
		}
		if len(residue) == 0 {
			return nil, "", nil
		}
		payload = residue
	}

	contentType := route.BodyContentType
	if contentType == "" {
		contentType = "application/json"
	}
	base, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		base = strings.ToLower(contentType)
	}

	switch {
	case schema.IsJSON(base):
		raw, err := json.Marshal(payload)
		return raw, contentType, err
	case base == "application/x-www-form-urlencoded":
		form := url.Values{}
		obj, ok := payload.(map[string]interface{})
		if !ok {
			return nil, "", fmt.Errorf("form body requires an object, got %T", payload)
		}
		for k, v := range obj {
			for _, s := range listValues(v) {
				form.Add(k, s)
			}
		}
		return []byte(form.Encode()), contentType, nil
	case strings.HasPrefix(base, "text/"):
		return []byte(formatValue(payload)), contentType, nil
	default:
		if s, ok := payload.(string); ok {
			return []byte(s), contentType, nil
		}
		raw, err := json.Marshal(payload)
		return raw, "application/json", err
	}
}

func decodeBody(raw []byte, contentType string) interface{} {
	if len(raw) == 0 {
		return nil
	}
	if schema.IsJSON(contentType) {
		var v interface{}
		if err := json.Unmarshal(raw, &v); err == nil {
			return v
		}
	}
	return string(raw)
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		out[strings.ToLower(k)] = strings.Join(vs, ", ")
	}
	return out
}
