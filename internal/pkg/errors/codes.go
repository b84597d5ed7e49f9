package errors

import "net/http"

const (
	CodeInvalidInput          = "INVALID_INPUT"
	CodeInvalidCoordinates    = "INVALID_COORDINATES"
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeProviderUnavailable   = "PROVIDER_UNAVAILABLE"
	CodeProviderTimeout       = "PROVIDER_TIMEOUT"
	CodeProviderNotConfigured = "PROVIDER_NOT_CONFIGURED"
	CodeRouteNotFound         = "ROUTE_NOT_FOUND"
	CodeComputationFailure    = "COMPUTATION_FAILURE"
	CodeNotFound              = "NOT_FOUND"
	CodeLocationNotFound      = "LOCATION_NOT_FOUND"
	CodeSessionNotFound       = "SESSION_NOT_FOUND"
	CodeTripNotFound          = "TRIP_NOT_FOUND"
	CodeTripStopped           = "TRIP_STOPPED"
	CodeDatabaseError         = "DATABASE_ERROR"
	CodeInternalServer        = "INTERNAL_SERVER_ERROR"
)

var (
	ErrInvalidInput = New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		CodeInvalidCoordinates,
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		CodeInvalidRequest,
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrProviderUnavailable = New(
		CodeProviderUnavailable,
		"Upstream provider unavailable",
		http.StatusInternalServerError,
	)

	ErrProviderTimeout = New(
		CodeProviderTimeout,
		"Upstream provider timed out",
		http.StatusInternalServerError,
	)

	ErrProviderNotConfigured = New(
		CodeProviderNotConfigured,
		"Upstream provider is not configured",
		http.StatusInternalServerError,
	)

	ErrRouteNotFound = New(
		CodeRouteNotFound,
		"Route not found",
		http.StatusInternalServerError,
	)

	ErrComputationFailure = New(
		CodeComputationFailure,
		"Failed to process provider payload",
		http.StatusInternalServerError,
	)

	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrLocationNotFound = New(
		CodeLocationNotFound,
		"Location not found",
		http.StatusNotFound,
	)

	ErrSessionNotFound = New(
		CodeSessionNotFound,
		"Emergency session not found",
		http.StatusNotFound,
	)

	ErrTripNotFound = New(
		CodeTripNotFound,
		"Trip not found",
		http.StatusNotFound,
	)

	ErrTripStopped = New(
		CodeTripStopped,
		"Trip is no longer active",
		http.StatusConflict,
	)

	ErrDatabaseError = New(
		CodeDatabaseError,
		"Database error",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		CodeInternalServer,
		"Internal server error",
		http.StatusInternalServerError,
	)
)
