package constants

import "net/http"

// APISuccess represents a standardized API success response with code and HTTP status.
// Use these predefined success constants for consistent API responses across the application.
type APISuccess struct {
	Code   string
	Status int
}

// Share-related success responses
var (
	SuccessShareFound = APISuccess{
		Code:   CodeShareFound,
		Status: http.StatusOK,
	}
	SuccessShareCreated = APISuccess{
		Code:   CodeShareCreated,
		Status: http.StatusCreated,
	}
	SuccessShareUpdated = APISuccess{
		Code:   CodeShareUpdated,
		Status: http.StatusOK,
	}
	SuccessShareDeleted = APISuccess{
		Code:   CodeShareDeleted,
		Status: http.StatusOK,
	}
	SuccessSharesFound = APISuccess{
		Code:   CodeSharesFound,
		Status: http.StatusOK,
	}
	SuccessViewsFound = APISuccess{
		Code:   CodeViewsFound,
		Status: http.StatusOK,
	}
	SuccessExported = APISuccess{
		Code:   CodeExported,
		Status: http.StatusOK,
	}
	SuccessProfileFound = APISuccess{
		Code:   CodeProfileFound,
		Status: http.StatusOK,
	}
	SuccessProfileSaved = APISuccess{
		Code:   CodeProfileSaved,
		Status: http.StatusOK,
	}
	SuccessDashboardFound = APISuccess{
		Code:   CodeDashboardFound,
		Status: http.StatusOK,
	}
	SuccessAuthenticated = APISuccess{
		Code:   CodeAuthenticated,
		Status: http.StatusOK,
	}
)
