package database

import "time"

// Connection pool defaults
const (
	DefaultMinConnections = 2
	PingTimeout           = 5 * time.Second
)

// Error messages
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string: %w"
	ErrMsgFailedToCreatePool      = "failed to create connection pool: %w"
	ErrMsgFailedToPingDatabase    = "failed to ping database: %w"
)

// Log messages
const (
	LogMsgConnectedToDatabase = "Connected to database"
)
