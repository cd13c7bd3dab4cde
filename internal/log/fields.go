package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldError       = "error"
	FieldSourceKey   = "source_key"
	FieldSourceLabel = "source_label"
	FieldTotalRows   = "total_rows"
	FieldValidRows   = "valid_rows"
	FieldDroppedRows = "dropped_rows"
	FieldCacheHit    = "cache_hit"
	FieldColumn      = "column"
	FieldGeneration  = "load_generation"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentExplorer = "explorer"
	ComponentLoader   = "loader"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentCache    = "cache"
	ComponentSheets   = "sheets"
)
