package fd

import "errors"

var (
	// ErrInvalidRelation reports an empty column set, a dependency that
	// references an attribute outside the columns, or a dependency with an
	// empty LHS.
	ErrInvalidRelation = errors.New("invalid relation")

	// ErrDegenerateDependency reports a dependency with an empty side handed
	// to a decomposition.
	ErrDegenerateDependency = errors.New("degenerate dependency")

	// ErrUnsupportedForm reports a decomposition target other than 2NF or 3NF
	ErrUnsupportedForm = errors.New("unsupported normal form")
)
