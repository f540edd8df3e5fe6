package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldExpenseID    = "expense_id"
	FieldExpenseTitle = "expense_title"
	FieldAmountCents  = "amount_cents"
	FieldCategory     = "category"
	FieldStorageKey   = "storage_key"
	FieldBackend      = "backend"
	FieldCount        = "count"
)

// Components defines standard component names.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentBackup  = "backup"
	ComponentProfile = "profile"
	ComponentBackend = "backend"
)

// Operations defines standard operation names.
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpImport   = "import"
	OpExport   = "export"
	OpClear    = "clear"
	OpLoad     = "load"
	OpSave     = "save"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
