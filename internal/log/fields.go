package log

// Field names shared across components.
const (
	FieldComponent     = "component"
	FieldOwner         = "owner"
	FieldAccountID     = "account_id"
	FieldCategoryID    = "category_id"
	FieldTransactionID = "transaction_id"
	FieldAmount        = "amount"
	FieldBalance       = "balance"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldError         = "error"
	FieldSheetsRef     = "sheets_ref"
)

// Component names.
const (
	ComponentApp    = "app"
	ComponentWorker = "worker"
)
