package courseapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/apprende-client/internal/observability"
	"github.com/yungbote/apprende-client/internal/platform/envutil"
	"github.com/yungbote/apprende-client/internal/platform/logger"
	"github.com/yungbote/apprende-client/internal/session"
)

const tracerName = "github.com/yungbote/apprende-client/internal/clients/courseapi"

// Session is the token holder the client reads from and clears on 401.
type Session interface {
	Token() string
	Clear(ctx context.Context, reason session.Reason) error
}

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string

	Session    Session
	Logger     *logger.Logger
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	rc      *resty.Client
	session Session
	log     *logger.Logger
	tracer  trace.Tracer
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = "apprende-client"
	}

	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", ua)

	return &Client{
		baseURL: baseURL,
		rc:      rc,
		session: opts.Session,
		log:     log.With("component", "CourseAPI"),
		tracer:  otel.Tracer(tracerName),
	}, nil
}

func NewFromEnv(sess Session, log *logger.Logger) (*Client, error) {
	return New(Options{
		BaseURL: envutil.String("APPRENDE_API_URL", "http://localhost:8000"),
		Timeout: envutil.Duration("APPRENDE_TIMEOUT", 15*time.Second),
		Session: sess,
		Logger:  log,
	})
}

func (c *Client) BaseURL() string { return c.baseURL }

// call describes one request. route is the templated path used for span names and logs.
type call struct {
	method string
	route  string
	path   map[string]string
	query  map[string]string
	body   any
	form   map[string]string

	// tokenInQuery sends the session token as ?token= instead of a bearer header.
	tokenInQuery bool
	// stream leaves the body unread for the caller; send closes it.
	stream bool
}

func (c *Client) request(ctx context.Context, cl call) *resty.Request {
	req := c.rc.R().SetContext(ctx)
	var tok string
	if c.session != nil {
		tok = c.session.Token()
	}
	if tok != "" && !cl.tokenInQuery {
		req.SetAuthToken(tok)
	}
	if len(cl.path) > 0 {
		req.SetPathParams(cl.path)
	}
	if len(cl.query) > 0 {
		req.SetQueryParams(cl.query)
	}
	if tok != "" && cl.tokenInQuery {
		req.SetQueryParam("token", tok)
	}
	if cl.stream {
		req.SetDoNotParseResponse(true)
	}
	switch {
	case cl.form != nil:
		req.SetFormData(cl.form)
	case cl.body != nil:
		req.SetHeader("Content-Type", "application/json").SetBody(cl.body)
	}
	return req
}

// do sends one request and decodes a 2xx JSON body into out (when out is non-nil).
func (c *Client) do(ctx context.Context, cl call, out any) error {
	return c.execute(ctx, cl, c.request(ctx, cl), out)
}

func (c *Client) execute(ctx context.Context, cl call, req *resty.Request, out any) error {
	return c.send(ctx, cl, req, func(ctx context.Context, resp *resty.Response) error {
		if out == nil || len(resp.Body()) == 0 {
			return nil
		}
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			trace.SpanFromContext(ctx).RecordError(err)
			return fmt.Errorf("decode %s %s: %w", cl.method, cl.route, err)
		}
		return nil
	})
}

// send runs req inside a client span, records the call metric and maps non-2xx replies to
// *HTTPError. onSuccess sees only 2xx responses; for stream calls it reads resp.RawBody().
func (c *Client) send(ctx context.Context, cl call, req *resty.Request, onSuccess func(context.Context, *resty.Response) error) error {
	ctx, span := c.tracer.Start(ctx, "courseapi "+cl.method+" "+cl.route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", cl.method),
			attribute.String("http.route", cl.route),
		),
	)
	defer span.End()
	req.SetContext(ctx)

	started := time.Now()
	resp, err := req.Execute(cl.method, cl.route)
	observability.Current().ObserveClientCall(cl.method, cl.route, statusLabel(resp, err), time.Since(started))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		c.log.Warn("course api request failed", "method", cl.method, "route", cl.route, "error", err)
		return fmt.Errorf("%s %s: %w", cl.method, cl.route, err)
	}
	if cl.stream && resp.RawBody() != nil {
		defer resp.RawBody().Close()
	}
	status := resp.StatusCode()
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	c.log.Debug("course api request", "method", cl.method, "route", cl.route, "status", status, "elapsed_ms", time.Since(started).Milliseconds())

	if status < 200 || status >= 300 {
		raw := resp.Body()
		if cl.stream && resp.RawBody() != nil {
			raw, _ = io.ReadAll(io.LimitReader(resp.RawBody(), 1<<20))
		}
		herr := parseHTTPError(status, raw)
		span.SetStatus(codes.Error, herr.Error())
		if status == http.StatusUnauthorized {
			c.dropSession(ctx)
		}
		return herr
	}
	if onSuccess == nil {
		return nil
	}
	return onSuccess(ctx, resp)
}

func (c *Client) dropSession(ctx context.Context) {
	if c.session == nil {
		return
	}
	if err := c.session.Clear(context.WithoutCancel(ctx), session.ReasonUnauthorized); err != nil {
		c.log.Warn("failed to clear session after 401", "error", err)
	}
}

func statusLabel(resp *resty.Response, err error) string {
	if err != nil || resp == nil {
		return "error"
	}
	return strconv.Itoa(resp.StatusCode())
}
