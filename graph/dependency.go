package graph

// A Dependency is a dependency for a single field between two resources.
type Dependency struct {
	// Field is the name of the input field on the child resource that
	// receives the evaluated expression value.
	Field string

	// Expression is the expression to resolve. The expression may refer to
	// multiple parent resources.
	Expression Expression
}

// Parents returns the names of the parent resources in the dependency's
// expression.
func (d Dependency) Parents() []string {
	return d.Expression.References()
}
