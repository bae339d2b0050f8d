package auth

// Known OAuth scopes used by the care backend.
const (
	ScopeCareWrite = "care:write"
	ScopeCareRead  = "care:read"
)
