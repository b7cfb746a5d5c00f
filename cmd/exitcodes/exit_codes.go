package exitcodes

const (
	// ================================
	// Platform-universal exit codes
	// ================================

	// ExitCodeSuccess indicates no errors or failures had occurred.
	ExitCodeSuccess = 0

	// ExitCodeGeneralError indicates some type of general error occurred.
	ExitCodeGeneralError = 1

	// ================================
	// Application-specific exit codes
	// ================================

	// ExitCodeHandledError indicates that the compilation run failed and every diagnostic describing the failure has
	// already been written to the diagnostic channel, so the error should not be printed again.
	ExitCodeHandledError = 2
)
