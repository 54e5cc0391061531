package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields, propagated through the call chain.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldRunID identifies one pipeline invocation
	FieldRunID = "run_id"

	// FieldItemID identifies the source item currently being processed
	FieldItemID = "item_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldSlug is the article slug once allocated
	FieldSlug = "slug"
)

// Standard metric fields, attached at the log-entry level.
const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldStatus is the operation status
	FieldStatus = "status"

	// FieldSize is a payload size in bytes
	FieldSize = "size"
)
