package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldMonth      = "month"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldAlertID    = "alert_id"
	FieldSeverity   = "severity"
	FieldTxID       = "transaction_id"
	FieldBudgetID   = "budget_id"
	FieldEntity     = "entity"
	FieldAction     = "action"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentExport  = "export"
	ComponentCache   = "cache"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpDismiss  = "dismiss"
	OpSweep    = "sweep"
	OpExport   = "export"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
