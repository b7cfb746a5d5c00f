package logging

// These constants are used to identify the various services that may do some logging
const (
	// CLI_SERVICE is the constant used to identify the cmd package
	CLI_SERVICE = "cli"
	// DRIVER_SERVICE is the constant used to identify the driver package
	DRIVER_SERVICE = "driver"
	// COMPILATION_SERVICE is the constant used to identify the compilation package
	COMPILATION_SERVICE = "compilation"
	// CACHE_SERVICE is the constant used to identify the compilation cache
	CACHE_SERVICE = "cache"
)
