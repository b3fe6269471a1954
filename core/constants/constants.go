package constants

// Database pool settings
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Echo context keys set by the auth middleware
const (
	ContextActorKey = "actor"
)

// Defaults
const (
	DefaultServerPort      = 7070
	DefaultTokenExpiryHrs  = 24
	DefaultPageSize        = 20
	DefaultComposerTimeout = 5 // seconds
)
