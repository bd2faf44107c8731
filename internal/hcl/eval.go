package hcl

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// functions available to every expression.
func functions() map[string]function.Function {
	return map[string]function.Function{
		"upper":    stdlib.UpperFunc,
		"lower":    stdlib.LowerFunc,
		"join":     stdlib.JoinFunc,
		"format":   stdlib.FormatFunc,
		"concat":   stdlib.ConcatFunc,
		"coalesce": stdlib.CoalesceFunc,
	}
}

// envValue exposes the process environment as the `env` map.
func envValue(environ []string) cty.Value {
	vals := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vals[k] = cty.StringVal(v)
	}
	if len(vals) == 0 {
		return cty.MapValEmpty(cty.String)
	}
	return cty.MapVal(vals)
}

// newEvalContext builds the context used for variable defaults: functions
// and env only.
func newEvalContext(environ []string) *hcl.EvalContext {
	if environ == nil {
		environ = os.Environ()
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envValue(environ),
		},
		Functions: functions(),
	}
}

// withVariables returns a child context that also exposes `var`.
func withVariables(parent *hcl.EvalContext, vars map[string]cty.Value) *hcl.EvalContext {
	child := parent.NewChild()
	if len(vars) == 0 {
		child.Variables = map[string]cty.Value{"var": cty.EmptyObjectVal}
	} else {
		child.Variables = map[string]cty.Value{"var": cty.ObjectVal(vars)}
	}
	return child
}
