package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidThreshold     ErrorCode = 102
	ErrCodeInvalidDateRange     ErrorCode = 103
	ErrCodeInvalidSymbol        ErrorCode = 104
	ErrCodeInsufficientData     ErrorCode = 105
	ErrCodeInvalidVersion       ErrorCode = 106

	// Data/Resource errors (200-299)
	ErrCodeSnapshotNotFound   ErrorCode = 200
	ErrCodeStoreUnavailable   ErrorCode = 201
	ErrCodeQueryFailed        ErrorCode = 202
	ErrCodeStoreWriteFailed   ErrorCode = 203
	ErrCodeCalendarLoadFailed ErrorCode = 204

	// Signal errors (300-399)
	ErrCodeClassifierFailed ErrorCode = 300
	ErrCodeUnknownPolicy    ErrorCode = 301
	ErrCodeInvalidSignal    ErrorCode = 302

	// Portfolio errors (400-499)
	ErrCodePositionNotFound  ErrorCode = 400
	ErrCodePositionRejected  ErrorCode = 401
	ErrCodeDuplicatePosition ErrorCode = 402
	ErrCodeInsufficientCash  ErrorCode = 403

	// Simulation errors (500-599)
	ErrCodeSimulationInitFailed ErrorCode = 500
	ErrCodeSimulationConfigNil  ErrorCode = 501
	ErrCodeSimulationNoStore    ErrorCode = 502
	ErrCodeSimulationNoSymbols  ErrorCode = 503
	ErrCodeResultsWriteFailed   ErrorCode = 504

	// Market data fetch errors (600-699)
	ErrCodeFetchFailed       ErrorCode = 600
	ErrCodeBarWriteFailed    ErrorCode = 601
	ErrCodeInvalidProvider   ErrorCode = 602
	ErrCodeProviderNoAPIKey  ErrorCode = 603
	ErrCodeWriterUnavailable ErrorCode = 604
)
