package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolvedSection(t *testing.T, source string) *Section {
	t.Helper()
	frames, err := lexSource(source)
	require.NoError(t, err)
	secs := splitSections(frames)
	require.Len(t, secs, 1)
	sec := secs[0]
	rearrangeBlocks(sec)
	materializeLiterals(sec)
	require.NoError(t, resolveSection(sec))
	return sec
}

func TestResolveEquChain(t *testing.T) {
	sec := resolvedSection(t, "COPY START 0\nA EQU *\nB EQU A+3\n")
	require.Contains(t, sec.Symbols, "A")
	require.Contains(t, sec.Symbols, "B")
	assert.Equal(t, sec.Symbols["A"].Value, sec.Symbols["B"].Value-3)
}

func TestResolveUseBlockOrdering(t *testing.T) {
	source := "PROG START 0\nFIRST WORD 1\n USE DATA\nD1 WORD 2\n USE\nSECOND WORD 3\n USE DATA\nD2 WORD 4\n"
	sec := resolvedSection(t, source)

	assert.Equal(t, []string{"", "DATA"}, sec.BlockOrder)
	/* default block: FIRST(0..3), SECOND(3..6); DATA block: D1(0..3 local), D2(3..6 local) based after default block */
	assert.Equal(t, 0, sec.Symbols["FIRST"].Value)
	assert.Equal(t, 3, sec.Symbols["SECOND"].Value)
	assert.Equal(t, 6, sec.Symbols["D1"].Value)
	assert.Equal(t, 9, sec.Symbols["D2"].Value)
	assert.Equal(t, 12, sec.Length)
}

func TestResolveDuplicateSymbolErrors(t *testing.T) {
	frames, err := lexSource("PROG START 0\nA WORD 1\nA WORD 2\n")
	require.NoError(t, err)
	secs := splitSections(frames)
	sec := secs[0]
	rearrangeBlocks(sec)
	materializeLiterals(sec)
	assert.Error(t, resolveSection(sec))
}

func TestResolveExtrefMarksExternal(t *testing.T) {
	sec := resolvedSection(t, "PROG START 0\n EXTREF BAR\n JSUB BAR\n")
	sym, ok := sec.Symbols["BAR"]
	require.True(t, ok)
	assert.True(t, sym.External)
	assert.Contains(t, sec.ExtRefs, "BAR")
}

func TestResolveLiteralMaterialization(t *testing.T) {
	sec := resolvedSection(t, "PROG START 0\n LDA =C'EOF'\n LTORG\n")
	found := false
	for _, f := range sec.Frames {
		if f.Kind == FrameLiteralDef && f.LiteralSpelling == "=C'EOF'" {
			found = true
			assert.Equal(t, []byte("EOF"), f.LiteralBytes)
		}
	}
	assert.True(t, found, "expected literal to be materialized")
}
