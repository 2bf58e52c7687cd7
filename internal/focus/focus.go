package focus

import "time"

// Session is an active focus session. At most one exists per subject; it
// expires automatically when the cap elapses (digital-detox backstop).
type Session struct {
	Sub       string    `json:"sub"`
	StartedAt time.Time `json:"startedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
