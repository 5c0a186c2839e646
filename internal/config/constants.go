package config

// Defaults for the persistence layer and the digest pipeline.
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./wordpost.db"

	// DefaultDispatchBatchSize caps how many pending emails one dispatch
	// cycle will claim.
	DefaultDispatchBatchSize = 50
)
