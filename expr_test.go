package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func symTable(syms map[string]*Symbol) func(string) (*Symbol, bool) {
	return func(name string) (*Symbol, bool) {
		s, ok := syms[name]
		return s, ok
	}
}

func TestEvalExprConstant(t *testing.T) {
	val, err := evalExpr("2+3", evalCtx{sym: symTable(nil)})
	require.NoError(t, err)
	assert.Equal(t, 5, val.Value)
	assert.False(t, val.Relocatable)
}

func TestEvalExprHexConstant(t *testing.T) {
	val, err := evalExpr("X'1A'", evalCtx{sym: symTable(nil)})
	require.NoError(t, err)
	assert.Equal(t, 26, val.Value)
}

func TestEvalExprStar(t *testing.T) {
	val, err := evalExpr("*", evalCtx{sym: symTable(nil), here: 100, block: "CODE"})
	require.NoError(t, err)
	assert.True(t, val.Relocatable)
	assert.Equal(t, 100, val.Value)
	assert.Equal(t, "CODE", val.Block)
}

func TestEvalExprEquChain(t *testing.T) {
	syms := map[string]*Symbol{
		"A": {Name: "A", Value: 10, Block: "", Relocatable: true},
	}
	val, err := evalExpr("A+3", evalCtx{sym: symTable(syms)})
	require.NoError(t, err)
	assert.True(t, val.Relocatable)
	assert.Equal(t, 13, val.Value)
	assert.Equal(t, "A", val.SymName)
}

func TestEvalExprSymbolDifferenceSameBlock(t *testing.T) {
	syms := map[string]*Symbol{
		"A": {Name: "A", Value: 10, Block: "", Relocatable: true},
		"B": {Name: "B", Value: 16, Block: "", Relocatable: true},
	}
	val, err := evalExpr("B-A", evalCtx{sym: symTable(syms)})
	require.NoError(t, err)
	assert.False(t, val.Relocatable)
	assert.Equal(t, 6, val.Value)
}

func TestEvalExprRelocatableMinusExternal(t *testing.T) {
	syms := map[string]*Symbol{
		"A":   {Name: "A", Value: 10, Block: "", Relocatable: true},
		"BAR": {Name: "BAR", External: true, Relocatable: true},
	}
	val, err := evalExpr("A-BAR", evalCtx{sym: symTable(syms)})
	require.NoError(t, err)
	assert.True(t, val.Relocatable)
	assert.Equal(t, "A", val.SymName)
	assert.Equal(t, "BAR", val.Sym2Name)
	assert.True(t, val.Sym2External)
}

func TestEvalExprUndefinedSymbol(t *testing.T) {
	_, err := evalExpr("NOPE", evalCtx{sym: symTable(nil)})
	assert.Error(t, err)
}
