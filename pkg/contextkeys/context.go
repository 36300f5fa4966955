package contextkeys

// ContextKey is the typed key used for values stored in request contexts.
type ContextKey string

const (
	// DBContextKey carries the *gorm.DB handle (pool or per-test transaction)
	// injected by DBMiddleware.
	DBContextKey ContextKey = "studlance_db"
)
