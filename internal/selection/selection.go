// Package selection persists the viewer's channel choice in a cookie, as
// a JSON array of channel ids.
package selection

import (
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
)

const cookieName = "channels"

// a year, in seconds; the selection survives browser restarts
const cookieMaxAge = 365 * 24 * 60 * 60

// FromCookie reads the stored selection. Missing or unreadable cookies
// yield an empty selection, never an error; callers fall back to the
// default channel set.
func FromCookie(ctx *gin.Context) []string {
	raw, err := ctx.Cookie(cookieName)
	if err != nil {
		return nil
	}
	var channels []string
	if err := json.Unmarshal([]byte(raw), &channels); err != nil {
		return nil
	}
	return channels
}

// SetCookie stores the selection for subsequent requests.
func SetCookie(ctx *gin.Context, channels []string) error {
	payload, err := json.Marshal(channels)
	if err != nil {
		return err
	}
	ctx.SetCookie(cookieName, string(payload), cookieMaxAge, "/", "", false, false)
	return nil
}

// FromQuery parses a comma-separated channel list from a query parameter.
func FromQuery(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
