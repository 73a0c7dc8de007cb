package service

// Service defines the lifecycle interface for long-lived subsystems
// Services manage process resources: the audio device, the score store, the HTTP listener
//
// Lifecycle:
//  1. Construction (via New* constructor)
//  2. Init(args...) - configuration handed over at registration (config sections, peers)
//  3. Start() - open resources, launch background goroutines
//  4. [runtime operation]
//  5. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init and Start before this one
	// Return nil or empty slice if no dependencies
	Dependencies() []string

	// Init configures the service from the args given to Hub.Register
	Init(args ...any) error

	// Start begins service operation (launches goroutines if any)
	// Called after all services have initialized
	Start() error

	// Stop halts service operation and releases resources
	// Must be idempotent - safe to call multiple times
	Stop() error
}
