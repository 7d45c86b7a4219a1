package types

import "errors"

// Errors returned by the switching engine. Callers match them with errors.Is;
// the wrapped message carries the human-readable detail.
var (
	// ErrLockAcquisition is returned once the store lock has been poisoned by a panic.
	ErrLockAcquisition = errors.New("failed to acquire config lock")
	// ErrAppKindNotFound is returned for an unrecognised application kind.
	ErrAppKindNotFound = errors.New("application kind not found")
	// ErrNotFound is returned when a provider id is not in the registry.
	ErrNotFound = errors.New("provider not found")
	// ErrInvalidOperation is returned when deleting the active provider.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrMissingField is returned when a dual-file payload lacks a required field.
	ErrMissingField = errors.New("missing required field")
	// ErrMissingDistroConfig is returned when WSL is selected without a distro name.
	ErrMissingDistroConfig = errors.New("WSL distro not configured")
	// ErrExternalTool is returned when wsl.exe cannot be run or fails.
	ErrExternalTool = errors.New("external tool failed")
	// ErrIO is returned for directory creation and file read/write failures.
	ErrIO = errors.New("I/O error")
	// ErrMalformedStore is returned when the store file parses in neither schema.
	ErrMalformedStore = errors.New("malformed config store")
	// ErrSerialization is returned when a value cannot be encoded or decoded.
	ErrSerialization = errors.New("serialization error")
	// ErrLiveConfigMissing is returned when importing without a live config on disk.
	ErrLiveConfigMissing = errors.New("live config file does not exist")
)
