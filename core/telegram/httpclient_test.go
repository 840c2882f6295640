package telegram

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/planbot/core/telegram/netutil"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

// flakyTransport fails the first n round trips with a timeout.
type flakyTransport struct {
	n     int
	calls int
}

func (f *flakyTransport) RoundTrip(*http.Request) (*http.Response, error) {
	f.calls++
	if f.calls <= f.n {
		return nil, timeoutErr{}
	}
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
}

func newRequest(t *testing.T, method string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "https://api.telegram.org/bot1:x/"+method, strings.NewReader("{}"))
	require.NoError(t, err)
	return req
}

func TestRetryTransportRetriesIdempotentCalls(t *testing.T) {
	base := &flakyTransport{n: 2}
	rt := &retryTransport{base: base, policy: netutil.Backoff{Attempts: 3, Step: time.Millisecond}}

	resp, err := rt.RoundTrip(newRequest(t, "getUpdates"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, base.calls)
}

func TestRetryTransportSendsMessagesOnce(t *testing.T) {
	base := &flakyTransport{n: 1}
	rt := &retryTransport{base: base, policy: netutil.Backoff{Attempts: 3, Step: time.Millisecond}}

	_, err := rt.RoundTrip(newRequest(t, "sendMessage"))
	require.Error(t, err)
	assert.True(t, errors.As(err, new(timeoutErr)))
	assert.Equal(t, 1, base.calls)
}

func TestRetryableFileDownloads(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "https://api.telegram.org/file/bot1:x/documents/a.pdf", nil)
	require.NoError(t, err)
	assert.True(t, retryable(req))
}
