package main

// Exit codes
const (
	ExitSuccess       = 0 // Success
	ExitError         = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError   = 2 // Configuration error (unreadable or invalid config)
	ExitRegistryError = 3 // ORCID could not be read; nothing was written
	ExitPersistError  = 4 // Writing or removing a content file failed
	ExitDataError     = 5 // Content files failed validation
)
