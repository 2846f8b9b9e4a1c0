package contexthelpers

import (
	"context"
)

// CSRFToken returns the nosurf token of the request for embedding in forms.
func CSRFToken(ctx context.Context) string {
	csrfToken, ok := ctx.Value(csrfTokenContextKey).(string)
	if !ok {
		return ""
	}

	return csrfToken
}

// CSPNonce returns the script nonce allowed by the Content-Security-Policy of the response.
func CSPNonce(ctx context.Context) string {
	nonce, ok := ctx.Value(cspNonceContextKey).(string)
	if !ok {
		return ""
	}

	return nonce
}
