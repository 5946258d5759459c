package config

// Table backings.
const (
	BackingHash    = "hash"
	BackingOrdered = "ordered"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Table defaults.
const (
	DefaultTableBacking  = BackingHash
	DefaultTableCapacity = 0
)

// Store defaults.
const (
	DefaultStoreDirectory    = "."
	DefaultStoreName         = "dictionary"
	DefaultStoreCodec        = "json"
	DefaultStoreCompress     = false
	DefaultStoreMaxInputSize = "64MB"
)

// Logging defaults.
const (
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = LogFormatText
)
