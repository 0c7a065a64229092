package manifest

import "github.com/ardnew/cmdsyntax/syntax"

var (
	ErrOpen             = syntax.NewError("open manifest")
	ErrDecode           = syntax.NewError("decode manifest")
	ErrInvalid          = syntax.NewError("invalid manifest")
	ErrPrefixConflict   = syntax.NewError("manifests declare different prefixes")
	ErrFilterExpr       = syntax.NewError("compile filter expression")
	ErrActionExpr       = syntax.NewError("compile action expression")
	ErrAction           = syntax.NewError("run action")
	ErrNoPrefix         = syntax.NewError("line does not start with the dispatch prefix")
	ErrInvalidTypeValue = syntax.NewError("type must be a name or a list of names")
)
