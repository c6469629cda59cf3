package entity

import "time"

// Audit actions recorded for authentication events.
const (
	AuditSignup        = "signup"
	AuditLoginSuccess  = "login_success"
	AuditLoginFailure  = "login_failure"
	AuditLogout        = "logout"
	AuditPasswordReset = "password_reset"
)

// AuditEvent is one row of the authentication audit trail.
type AuditEvent struct {
	ID        string         `json:"id,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	Email     string         `json:"email,omitempty"`
	Action    string         `json:"action"`
	IP        string         `json:"ip,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
