package log

// Attribute keys shared by every component.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldSessionID  = "session_id"
	FieldAction     = "action"
	FieldStatus     = "status"
	FieldPeriod     = "period"
	FieldCount      = "count"
)

const (
	ComponentApp    = "app"
	ComponentHTTP   = "http"
	ComponentIntent = "intent"
	ComponentWorker = "worker"
	ComponentCLI    = "cli"
)

const (
	OpDelete   = "delete"
	OpExecute  = "execute"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
