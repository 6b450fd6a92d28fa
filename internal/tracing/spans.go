package tracing

// Span attribute keys.
const (
	AttrDBSystem    = "db.system"
	AttrDBTable     = "db.collection.name"
	AttrDBOperation = "db.operation.name"
	AttrRowCount    = "registry.rows"
	AttrName        = "registry.name"
)

// Span names.
const (
	SpanSelectAll = "table.select_all"
	SpanInsert    = "table.insert"
)
