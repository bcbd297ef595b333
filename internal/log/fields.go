package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldYear      = "year"
	FieldMonth     = "month"
	FieldTable     = "table"
	FieldPhase     = "phase"
	FieldState     = "state"
	FieldStatus    = "status"
	FieldRows      = "rows"
	FieldInserted  = "inserted"
	FieldSkipped   = "skipped"
	FieldNextID    = "next_id"
	FieldDuration  = "duration_ms"
	FieldPath      = "path"
	FieldBackend   = "backend"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentStorage  = "storage"
	ComponentPostgres = "postgres"
	ComponentMigrator = "migrator"
	ComponentFinance  = "finance"
	ComponentReport   = "report"
	ComponentShell    = "shell"
	ComponentBackend  = "backend"
)

// Operations defines standard operation names
const (
	OpSeed      = "seed"
	OpSchema    = "schema"
	OpData      = "data"
	OpSequences = "sequences"
	OpMonthly   = "monthly"
	OpAnnual    = "annual"
	OpCompare   = "compare"
	OpExport    = "export"
)
