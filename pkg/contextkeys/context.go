package contextkeys

// Custom type avoids collisions with other context values.
type contextKey string

// DBContextKey keys the *gorm.DB handle (pool or transaction) in a context.
const DBContextKey = contextKey("db")
