package cmd

// Exit codes for hitref CLI
const (
	// ExitSuccess indicates the command completed
	ExitSuccess = 0

	// ExitFailure indicates a request completed with an error status
	ExitFailure = 1

	// ExitNotFound indicates a referenced request or response does not exist
	ExitNotFound = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
