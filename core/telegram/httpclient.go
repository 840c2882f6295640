package telegram

import (
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/m3rciful/planbot/core/telegram/netutil"
)

// HTTPOptions tunes the client used for Bot API calls. Zero values get
// defaults.
type HTTPOptions struct {
	DialTimeout     time.Duration
	ResponseTimeout time.Duration
	Timeout         time.Duration
	Retries         int
	RetryBackoff    time.Duration
}

func (o HTTPOptions) withDefaults() HTTPOptions {
	if o.DialTimeout <= 0 {
		o.DialTimeout = 5 * time.Second
	}
	if o.ResponseTimeout <= 0 {
		o.ResponseTimeout = 5 * time.Second
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Retries <= 0 {
		o.Retries = 3
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 2 * time.Second
	}
	return o
}

// BuildHTTPClient returns a client with bounded dial, TLS and header
// timeouts whose transport retries transient network failures.
func BuildHTTPClient(opts HTTPOptions) *http.Client {
	opts = opts.withDefaults()
	dialer := &net.Dialer{Timeout: opts.DialTimeout, KeepAlive: 30 * time.Second}
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   opts.DialTimeout,
		ResponseHeaderTimeout: opts.ResponseTimeout,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout: opts.Timeout,
		Transport: &retryTransport{
			base:   base,
			policy: netutil.Backoff{Attempts: opts.Retries + 1, Step: opts.RetryBackoff},
		},
	}
}

type retryTransport struct {
	base   http.RoundTripper
	policy netutil.Backoff
}

// idempotentCalls are the Bot API methods safe to repeat after a transport
// failure. Sends are excluded: a timed out sendMessage may still have been
// delivered, and repeating it would duplicate the message.
var idempotentCalls = map[string]bool{
	"getMe":          true,
	"getUpdates":     true,
	"getFile":        true,
	"setMyCommands":  true,
	"deleteWebhook":  true,
	"setWebhook":     true,
	"getWebhookInfo": true,
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	policy := t.policy
	if !retryable(req) {
		policy.Attempts = 1
	}
	var resp *http.Response
	_, err := policy.Do(req.Context(), func(try int) error {
		r := req
		if try > 1 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return err
			}
			r = req.Clone(req.Context())
			r.Body = body
		}
		var err error
		resp, err = t.base.RoundTrip(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// retryable reports whether req is an idempotent API call or file download
// whose body can be sent again.
func retryable(req *http.Request) bool {
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return false
	}
	p := req.URL.Path
	return strings.HasPrefix(p, "/file/") || idempotentCalls[path.Base(p)]
}
