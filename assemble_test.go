package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleEmptySource(t *testing.T) {
	out, err := assemble("")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestAssembleFormat4Example(t *testing.T) {
	out, err := assemble("COPY START 1000\nFIRST +LDA #0\n END FIRST\n")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "HCOPY  001000000004", lines[0])
	assert.Equal(t, "T0010000401100000", lines[1])
	assert.Equal(t, "E001000", lines[2])
}

func TestAssembleResGapBreaksTextRun(t *testing.T) {
	out, err := assemble("PROG START 0\nA WORD 1\n RESW 1\nB WORD 1\n END A\n")
	require.NoError(t, err)
	var tLines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "T") {
			tLines = append(tLines, line)
		}
	}
	require.Len(t, tLines, 2)
	assert.Equal(t, "03", tLines[0][7:9])
	assert.Equal(t, "03", tLines[1][7:9])
}

func TestAssembleEquNoObjectBytes(t *testing.T) {
	out, err := assemble("PROG START 0\nA EQU *\nB EQU A+3\n END A\n")
	require.NoError(t, err)
	for _, line := range strings.Split(out, "\n") {
		assert.False(t, strings.HasPrefix(line, "T"), "EQU-only program should emit no Text records")
	}
}

func TestAssembleExtrefProducesReferAndModification(t *testing.T) {
	out, err := assemble("PROG START 0\n EXTREF BAR\n+JSUB BAR\n END\n")
	require.NoError(t, err)
	assert.Contains(t, out, "RBAR")
	assert.Contains(t, out, "+BAR")
}

func TestAssembleUndefinedSymbolErrors(t *testing.T) {
	_, err := assemble("PROG START 0\n LDA NOPE\n END\n")
	assert.Error(t, err)
}

func TestAssembleOnlyResDirectivesEmitNoText(t *testing.T) {
	out, err := assemble("PROG START 0\n RESW 5\n RESB 10\n END\n")
	require.NoError(t, err)
	for _, line := range strings.Split(out, "\n") {
		assert.False(t, strings.HasPrefix(line, "T"))
	}
}

func TestOptimizeRepacksWithoutReassembling(t *testing.T) {
	assembled, err := assemble("PROG START 0\nA WORD 1\n RESW 1\nB WORD 1\n END A\n")
	require.NoError(t, err)

	optimized, err := optimize(assembled)
	require.NoError(t, err)
	assert.Equal(t, assembled, optimized)
}

func TestAssembleParallelMatchesSequential(t *testing.T) {
	source := "PROG START 0\nA WORD 1\n RESW 1\nB WORD 1\n END A\n"
	seq, err := assemble(source)
	require.NoError(t, err)
	par, err := assembleParallel(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, seq, par)
}
