package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

/* exprValue is the result of evaluating an EQU or operand expression:
   either an absolute constant, or a value relative to one or two
   named symbols (needed later to name the loader Modification
   record(s), not just compute the value). */
type exprValue struct {
	Value       int
	Relocatable bool   /* value is block-local, still pending base translation (already final by translate time) */
	Block       string /* the Relocatable symbol's block */
	SymName     string /* name of the Relocatable-or-External term, for +SYM modifications */
	External    bool   /* SymName is an EXTREF symbol, resolved at link time */
	Sym2Name    string /* set for "SYM1-SYM2": the subtracted symbol, for a -SYM2 modification */
	Sym2External bool
}

/* evalCtx supplies the symbol lookups and "*" (current LC) an
   expression may reference. */
type evalCtx struct {
	sym   func(name string) (*Symbol, bool)
	here  int    /* current location counter, for "*" */
	block string /* current block, for "*" */
}

/* evalExpr evaluates a restricted SIC/XE expression: a decimal or hex
   constant, "*", a single symbol, or a two-operand +/- combination of
   any of those. Precedence is trivial (one operator) which matches
   every documented use in spec.md. */
func evalExpr(expr string, ctx evalCtx) (exprValue, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return exprValue{}, errors.New("empty expression")
	}

	if pos, op := findTopOperator(expr); pos >= 0 {
		left, err := evalTerm(expr[:pos], ctx)
		if err != nil {
			return exprValue{}, err
		}
		right, err := evalTerm(expr[pos+1:], ctx)
		if err != nil {
			return exprValue{}, err
		}
		return combine(left, right, op)
	}

	return evalTerm(expr, ctx)
}

/* findTopOperator finds the rightmost +/- in expr, skipping a leading
   sign on the whole expression. */
func findTopOperator(expr string) (int, byte) {
	for i := len(expr) - 1; i > 0; i-- {
		if expr[i] == '+' || expr[i] == '-' {
			return i, expr[i]
		}
	}
	return -1, 0
}

func evalTerm(s string, ctx evalCtx) (exprValue, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return exprValue{}, errors.New("empty term")
	}
	if s == "*" {
		return exprValue{Value: ctx.here, Relocatable: true, Block: ctx.block}, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return exprValue{Value: int(n)}, nil
	}
	if strings.HasPrefix(s, "X'") && strings.HasSuffix(s, "'") {
		n, err := strconv.ParseInt(s[2:len(s)-1], 16, 64)
		if err != nil {
			return exprValue{}, errors.Wrapf(err, "bad hex constant %q", s)
		}
		return exprValue{Value: int(n)}, nil
	}

	sym, ok := ctx.sym(s)
	if !ok {
		return exprValue{}, errors.Errorf("undefined symbol: %s", s)
	}
	if sym.External {
		return exprValue{External: true, SymName: sym.Name}, nil
	}
	return exprValue{Value: sym.Value, Relocatable: sym.Relocatable, Block: sym.Block, SymName: sym.Name}, nil
}

func combine(left, right exprValue, op byte) (exprValue, error) {
	sign := 1
	if op == '-' {
		sign = -1
	}

	switch {
	case !left.Relocatable && !left.External && !right.Relocatable && !right.External:
		return exprValue{Value: left.Value + sign*right.Value}, nil

	case (left.Relocatable || left.External) && !right.Relocatable && !right.External:
		out := left
		out.Value = left.Value + sign*right.Value
		return out, nil

	case left.Relocatable && right.Relocatable && op == '-' && left.Block == right.Block:
		/* SYM1-SYM2 in the same block: the block base cancels, giving
		   an absolute distance known immediately, with no symbol to
		   relocate against. */
		return exprValue{Value: left.Value - right.Value}, nil

	case left.Relocatable && right.External && op == '-':
		return exprValue{Value: left.Value, Relocatable: true, Block: left.Block, SymName: left.SymName,
			Sym2Name: right.SymName, Sym2External: true}, nil

	case left.External && right.External && op == '-':
		return exprValue{External: true, SymName: left.SymName,
			Sym2Name: right.SymName, Sym2External: true}, nil

	default:
		return exprValue{}, errors.New("unsupported expression form (only constant+-constant, symbol+-constant, or symbol-symbol are supported)")
	}
}
