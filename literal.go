package main

/* materializeLiterals scans a section (already block-rearranged),
   replacing each LTORG and the implicit end-of-section with synthetic
   LiteralDef Frames for every literal referenced since the last flush
   and not yet emitted. Dedup is by literal spelling across the whole
   section. */
func materializeLiterals(sec *Section) {
	pool := sec.Literals
	var out []*Frame
	lastBlock := ""

	flush := func(block string) {
		for _, spelling := range pool.pending {
			lit := pool.byName[spelling]
			lit.Bytes = literalValueBytes(spelling)
			lit.Block = block
			out = append(out, &Frame{
				Kind:            FrameLiteralDef,
				LiteralSpelling: spelling,
				LiteralBytes:    lit.Bytes,
				Block:           block,
			})
		}
		pool.pending = nil
	}

	for _, f := range sec.Frames {
		if f.Kind == FrameInstruction && f.Operand.IsLiteral {
			pool.reference(f.Operand.Literal)
		}
		lastBlock = f.Block

		if f.Kind == FrameDirective && f.Directive == "LTORG" {
			flush(f.Block)
			continue
		}
		out = append(out, f)
	}
	flush(lastBlock)

	sec.Frames = out
}

/* literalValueBytes decodes a literal spelling (=C'...', =X'...',
   =W, =F) into its stored byte image. =W and =F are stored as zero
   bytes of their width (3 and 6); a value written in their spelling
   is not decoded. */
func literalValueBytes(spelling string) []byte {
	body := spelling[1:] /* drop leading '=' */
	switch {
	case body == "W" || hasWordPrefix(body):
		return []byte{0, 0, 0}
	case len(body) > 0 && body[0] == 'F':
		return make([]byte, 6) /* 48-bit SIC/XE float, always zero-filled */
	default:
		return literalBytes(body)
	}
}

func hasWordPrefix(s string) bool {
	return len(s) >= 1 && s[0] == 'W' && (len(s) == 1 || s[1] == '\'')
}
