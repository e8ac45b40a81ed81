package model

// Caller roles as supplied by the gateway's auth layer.
const (
	RoleGuest = "guest"
	RoleHost  = "host"
	RoleAdmin = "admin"
)

// Caller is the acting user's identity, extracted from request headers by the
// identity middleware. Authentication itself happens upstream; this service
// only applies authorization rules against it.
type Caller struct {
	UserID string
	Role   string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

func (c Caller) Is(userID string) bool {
	return c.UserID != "" && c.UserID == userID
}
