package authz

// Cond is a single equality constraint added to a data-access query.
type Cond struct {
	Field string
	Value any
}

// NarrowScope restricts a query's conditions to the caller's own resources
// when scope is "own". Scope "all" leaves conds unchanged. Every list, read,
// update, and delete path reachable by an own-scoped caller must apply this;
// skipping it on any one path leaks other users' data.
func NarrowScope(scope Scope, userID string, conds []Cond) []Cond {
	if scope == ScopeOwn {
		return append(conds, Cond{Field: "user_id", Value: userID})
	}
	return conds
}
