package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/samchan0221/mh-coding-task-2/internal/domain"
)

var (
	// ErrUnavailable marks failures where no response body was obtained.
	ErrUnavailable = errors.New("transport: service unavailable")
	// ErrResponseTooLarge is returned for a body longer than the read limit.
	ErrResponseTooLarge = errors.New("transport: response too large")
)

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

type HTTP struct {
	Base string
	HTTP *http.Client
}

// DefaultClientTimeout bounds a request sent through NewHTTP's client.
const DefaultClientTimeout = time.Minute

func NewHTTP(base string) *HTTP {
	return &HTTP{Base: base, HTTP: &http.Client{Timeout: DefaultClientTimeout}}
}

// Send posts env to {Base}{route}. The body is returned whatever the status
// code, since the service reports protocol errors as plaintext bodies.
func (c *HTTP) Send(ctx context.Context, env *domain.Envelope) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(env.Body); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	u := c.Base + env.Route.String() + "?" + Query(env.Query).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: post %s: %v", ErrUnavailable, env.Route, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, env.Route, err)
	}
	if len(body) > maxBody {
		return nil, fmt.Errorf("%w: %s: more than %d bytes", ErrResponseTooLarge, env.Route, maxBody)
	}
	if resp.StatusCode/100 != 2 && len(body) == 0 {
		return nil, fmt.Errorf("%w: post %s: %s", ErrUnavailable, env.Route, resp.Status)
	}
	return body, nil
}

// Query renders the query-string side of a request.
func Query(q domain.RequestQuery) url.Values {
	v := url.Values{}
	v.Set("signedBase64", q.SignedBase64)
	if q.Token != "" {
		v.Set("token", q.Token)
	}
	if q.RemoteTimeout {
		v.Set("remoteTimeout", strconv.FormatBool(true))
	}
	if q.RemoteSendInvalidPayload {
		v.Set("remoteSendInvalidPayload", strconv.FormatBool(true))
	}
	return v
}

// ParseQuery is the inverse of Query.
func ParseQuery(v url.Values) domain.RequestQuery {
	flag := func(k string) bool {
		b, _ := strconv.ParseBool(v.Get(k))
		return b
	}
	return domain.RequestQuery{
		SignedBase64:             v.Get("signedBase64"),
		Token:                    v.Get("token"),
		RemoteTimeout:            flag("remoteTimeout"),
		RemoteSendInvalidPayload: flag("remoteSendInvalidPayload"),
	}
}

var _ domain.Transport = (*HTTP)(nil)
