package exchange

import (
	"fmt"
	"net/http"

	"sentrader/internal/application/port"
)

// translateStatus maps an HTTP failure onto the closed set of gateway
// error kinds. Callers match with errors.Is instead of inspecting text.
func translateStatus(status int, body []byte) error {
	var kind error
	switch status {
	case http.StatusUnauthorized:
		kind = port.ErrAuth
	case http.StatusForbidden:
		kind = port.ErrPermission
	case http.StatusTooManyRequests:
		kind = port.ErrRateLimited
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		kind = port.ErrUnavailable
	default:
		return fmt.Errorf("exchange http %d: %s", status, truncate(body, 200))
	}
	return fmt.Errorf("%w: http %d: %s", kind, status, truncate(body, 200))
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
