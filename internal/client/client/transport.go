package client

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/taskdesk/internal/common"
	"github.com/dmitrijs2005/taskdesk/internal/logging"
	"github.com/google/uuid"
)

// authTransport decorates every outgoing request: it tags the request with
// an X-Request-ID, attaches the session credential to calls under apiBase,
// and logs the session out when a non-auth call comes back 401 or 403.
type authTransport struct {
	base    http.RoundTripper
	apiBase string
	session Session
	logger  logging.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	id := req.Header.Get(common.RequestIDHeaderName)
	if id == "" {
		id = uuid.NewString()
		req.Header.Set(common.RequestIDHeaderName, id)
	}
	ctx := logging.WithRequestID(req.Context(), id)

	url := req.URL.String()
	if strings.HasPrefix(url, t.apiBase) {
		if token, ok := t.session.Token(ctx); ok {
			req.Header.Set(common.AuthorizationHeaderName, token)
		}
	}

	t.logger.Debug(ctx, "api request", "method", req.Method, "url", url)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Warn(ctx, "api request failed", "method", req.Method, "url", url, "error", err)
		return nil, err
	}

	t.logger.Debug(ctx, "api response", "status", resp.StatusCode)

	if (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) && !t.isAuthEndpoint(url) {
		t.logger.Info(ctx, "request rejected, ending session", "status", resp.StatusCode, "url", url)
		t.session.Logout(ctx)
	}

	return resp, nil
}

func (t *authTransport) isAuthEndpoint(url string) bool {
	return strings.HasPrefix(url, t.apiBase+"/auth/login") ||
		strings.HasPrefix(url, t.apiBase+"/auth/register")
}
