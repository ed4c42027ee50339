package constants

// Error messages used in API responses.
// These are the human-readable messages returned in the "message" field.
const (
	// Common messages
	MsgInvalidRequestBody = "Invalid request body"
	MsgInternalError      = "An internal error occurred"
	MsgUnauthorized       = "Unauthorized"
	MsgForbidden          = "Forbidden"
	MsgRateLimited        = "Too many requests"

	// Share-specific messages
	MsgShareNotFound  = "Share not found"
	MsgShareExpired   = "Share has expired"
	MsgSharePrivate   = "Share is private"
	MsgOwnerNotFound  = "User not found"
	MsgTokenMissing   = "GitHub token not found"
	MsgUpstreamFailed = "Failed to fetch shared data"
	MsgInvalidType    = "Invalid share type"
)
