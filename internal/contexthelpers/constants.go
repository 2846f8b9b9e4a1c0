package contexthelpers

type contextKey string

const (
	csrfTokenContextKey = contextKey("csrfToken")
	cspNonceContextKey  = contextKey("cspNonce")
)
