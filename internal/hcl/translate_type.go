// This file contains the logic for parsing HCL type expressions (e.g., `string`,
// `number`) into their corresponding cty.Type objects.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/shipgrid/internal/ctxlog"
)

// typeExprToCtyType converts an HCL type expression into its cty.Type equivalent.
// Variables are substituted into strings, so only primitive types are accepted.
func typeExprToCtyType(ctx context.Context, expr hcl.Expression) (cty.Type, error) {
	logger := ctxlog.FromContext(ctx)

	if !isExprDefined(expr) {
		logger.Debug("Type expression is absent, defaulting to string.")
		return cty.String, nil
	}

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return cty.NilType, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		rootName := v.Traversal.RootName()
		logger.Debug("Parsing type expression as a primitive.", "keyword", rootName)
		switch rootName {
		case "string":
			return cty.String, nil
		case "number":
			return cty.Number, nil
		case "bool":
			return cty.Bool, nil
		default:
			return cty.NilType, fmt.Errorf("unknown primitive type %q", rootName)
		}
	case *hclsyntax.FunctionCallExpr:
		return cty.NilType, fmt.Errorf("collection type %s(...) is not supported for variables", v.Name)
	default:
		return cty.NilType, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}

// isExprDefined reports whether an optional attribute was actually written.
// The decoder fills omitted optional expressions with zero-width placeholders,
// so a nil check is not enough.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}
