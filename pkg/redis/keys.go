package redis

import "fmt"

// CartKey names the session's serialized cart.
func CartKey(sessionID string) string {
	return fmt.Sprintf("shop:session:%s:cart", sessionID)
}

// CurrentOrderKey names the session's current-order pointer, set at
// checkout and read by the discount mutations.
func CurrentOrderKey(sessionID string) string {
	return fmt.Sprintf("shop:session:%s:order_id", sessionID)
}

// RateLimitSessionKey names the sliding-window limiter bucket for a session.
func RateLimitSessionKey(sessionID string) string {
	return fmt.Sprintf("shop:rate_limit:session:%s", sessionID)
}

// RateLimitIPKey is the limiter fallback when no session id is available.
func RateLimitIPKey(ip string) string {
	return fmt.Sprintf("shop:rate_limit:ip:%s", ip)
}
