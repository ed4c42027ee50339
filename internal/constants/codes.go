package constants

// Error codes used in API responses.
// These are the machine-readable codes returned in the "error" field.
const (
	// Common error codes
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternalError  = "INTERNAL_ERROR"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeRateLimited    = "RATE_LIMITED"

	// Share-specific codes
	CodeShareNotFound  = "SHARE_NOT_FOUND"
	CodeShareExpired   = "SHARE_EXPIRED"
	CodeSharePrivate   = "SHARE_PRIVATE"
	CodeOwnerNotFound  = "OWNER_NOT_FOUND"
	CodeTokenMissing   = "GITHUB_TOKEN_MISSING"
	CodeUpstreamFailed = "UPSTREAM_FAILED"
	CodeInvalidType    = "INVALID_SHARE_TYPE"

	// Success codes
	CodeShareFound     = "SHARE_FOUND"
	CodeShareCreated   = "SHARE_CREATED"
	CodeShareUpdated   = "SHARE_UPDATED"
	CodeShareDeleted   = "SHARE_DELETED"
	CodeSharesFound    = "SHARES_FOUND"
	CodeViewsFound     = "VIEWS_FOUND"
	CodeExported       = "EXPORT_READY"
	CodeProfileFound   = "PROFILE_FOUND"
	CodeProfileSaved   = "PROFILE_SAVED"
	CodeDashboardFound = "DASHBOARD_FOUND"
	CodeAuthenticated  = "AUTHENTICATED"
)
