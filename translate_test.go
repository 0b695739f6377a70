package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func translatedSection(t *testing.T, source string) []ObjectRecord {
	t.Helper()
	sec := resolvedSection(t, source)
	recs, err := translateSection(sec, true)
	require.NoError(t, err)
	return recs
}

func TestTranslateFormat4Immediate(t *testing.T) {
	recs := translatedSection(t, "COPY START 1000\nFIRST +LDA #0\n END FIRST\n")

	var header, end *ObjectRecord
	var texts []ObjectRecord
	for i := range recs {
		switch recs[i].Kind {
		case RecHeader:
			header = &recs[i]
		case RecEnd:
			end = &recs[i]
		case RecText:
			texts = append(texts, recs[i])
		}
	}
	require.NotNil(t, header)
	require.NotNil(t, end)
	require.Len(t, texts, 1)

	assert.Equal(t, "COPY", header.Name)
	assert.Equal(t, 0x1000, header.Start)
	assert.Equal(t, 4, header.Length) /* +LDA #0 is a 4-byte format-4 instruction */
	assert.Equal(t, []byte{0x01, 0x10, 0x00, 0x00}, texts[0].Data)
	assert.Equal(t, 0x1000, end.Start)
}

func TestTranslateExtrefModification(t *testing.T) {
	recs := translatedSection(t, "PROG START 0\n EXTREF BAR\n+JSUB BAR\n")

	var refer *ObjectRecord
	var mod *ObjectRecord
	for i := range recs {
		switch recs[i].Kind {
		case RecRefer:
			refer = &recs[i]
		case RecMod:
			mod = &recs[i]
		}
	}
	require.NotNil(t, refer)
	require.NotNil(t, mod)
	assert.Equal(t, "BAR", refer.Name)
	assert.Equal(t, "BAR", mod.Symbol)
	assert.False(t, mod.Negative)
	assert.Equal(t, 5, mod.HalfBytes)
	assert.Equal(t, 1, mod.Start) /* instruction at addr 0, modification at addr+1 */
}

func TestTranslatePCRelative(t *testing.T) {
	/* a forward reference small enough for the 12-bit signed PC-relative range */
	recs := translatedSection(t, "PROG START 0\nLOOP LDA FIVE\n LDA FIVE\nFIVE WORD 5\n")
	var texts []ObjectRecord
	for _, r := range recs {
		if r.Kind == RecText {
			texts = append(texts, r)
		}
	}
	require.GreaterOrEqual(t, len(texts), 2)
	first := texts[0]
	/* LDA FIVE: opcode 0x00, simple addressing n=i=1 -> byte0=0x03; p=1 set in flags nibble */
	assert.Equal(t, byte(0x03), first.Data[0])
	assert.Equal(t, byte(0x20), first.Data[1]&0xF0) /* p bit set, b clear */
}

func TestTranslateRSUB(t *testing.T) {
	recs := translatedSection(t, "PROG START 0\n RSUB\n")
	var texts []ObjectRecord
	for _, r := range recs {
		if r.Kind == RecText {
			texts = append(texts, r)
		}
	}
	require.Len(t, texts, 1)
	assert.Equal(t, []byte{0x4F, 0x00, 0x00}, texts[0].Data) /* RSUB: n=i=1, no operand */
}

func TestTranslateFormat2Registers(t *testing.T) {
	recs := translatedSection(t, "PROG START 0\n COMPR A,X\n")
	var texts []ObjectRecord
	for _, r := range recs {
		if r.Kind == RecText {
			texts = append(texts, r)
		}
	}
	require.Len(t, texts, 1)
	assert.Equal(t, []byte{0xA0, 0x01}, texts[0].Data)
}

func TestTranslateWordModification(t *testing.T) {
	recs := translatedSection(t, "PROG START 0\nVAL WORD 1\nREF WORD VAL\n")
	var mod *ObjectRecord
	for i := range recs {
		if recs[i].Kind == RecMod {
			mod = &recs[i]
		}
	}
	require.NotNil(t, mod)
	assert.Equal(t, "VAL", mod.Symbol)
	assert.Equal(t, 6, mod.HalfBytes)
}
