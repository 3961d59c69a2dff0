package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Document outcomes
	ErrSkipped     = "SKIPPED"
	ErrUnsupported = "UNSUPPORTED_CORRUPTION"
	ErrStructural  = "STRUCTURAL_FAULT"

	// File errors
	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"
	ErrFileChanged    = "FILE_CHANGED"

	// Config errors
	ErrConfigInvalid = "CONFIG_INVALID"

	// Input errors
	ErrInvalidInput = "INVALID_INPUT"

	// General errors
	ErrCanceled = "CANCELED"
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnLegacyFormat   = "LEGACY_FORMAT"
	WarnFixesRemaining = "FIXES_REMAINING"
)
