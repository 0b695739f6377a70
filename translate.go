package main

import (
	"github.com/pkg/errors"
)

/* translateSection walks a resolved section's Frames in order and
   produces the raw, unpacked object records: one Define per EXTDEF
   name, one Refer per EXTREF name, one Text record per
   instruction/data Frame (packed later by pack.go), Modification
   records for relocatable or external values in format-4 operands and
   WORD directives, and a final
   End record. BASE/NOBASE state is tracked sequentially exactly as
   the assembler encounters them, since SIC/XE base-relative addressing
   is valid only between a BASE and the next NOBASE/BASE. Only the
   first section of a program names an entry address in its End
   record (spec §4.6/§6); isFirst controls whether this section's End
   record carries an address or is the bare "E" form. */
func translateSection(sec *Section, isFirst bool) ([]ObjectRecord, error) {
	var recs []ObjectRecord

	recs = append(recs, ObjectRecord{Kind: RecHeader, Name: sec.Name, Start: sec.StartAddr, Length: sec.Length})

	for _, name := range sec.ExtDefs {
		sym, ok := sec.Symbols[name]
		if !ok {
			return nil, errors.Errorf("EXTDEF %s never defined in this section", name)
		}
		recs = append(recs, ObjectRecord{Kind: RecDefine, Name: name, Value: sym.Value})
	}
	for _, name := range sec.ExtRefs {
		recs = append(recs, ObjectRecord{Kind: RecRefer, Name: name})
	}

	baseActive := false
	baseAddr := 0
	firstExec := -1

	for _, f := range sec.Frames {
		switch f.Kind {
		case FrameLiteralDef:
			recs = append(recs, ObjectRecord{Kind: RecText, Start: sec.StartAddr + f.Addr, Data: f.LiteralBytes, Line: f.Line})

		case FrameInstruction:
			if firstExec < 0 {
				firstExec = sec.StartAddr + f.Addr
			}
			data, mods, err := encodeInstruction(sec, f, baseActive, baseAddr)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", f.Line)
			}
			recs = append(recs, ObjectRecord{Kind: RecText, Start: sec.StartAddr + f.Addr, Data: data, Line: f.Line})
			for _, m := range mods {
				m.Start += sec.StartAddr
				recs = append(recs, m)
			}

		case FrameDirective:
			switch f.Directive {
			case "BASE":
				if len(f.Args) != 1 {
					return nil, errors.Errorf("line %d: BASE requires exactly one operand", f.Line)
				}
				val, err := evalExpr(f.Args[0], evalCtx{sym: symLookup(sec), here: f.Addr, block: f.Block})
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", f.Line)
				}
				baseActive = true
				baseAddr = val.Value

			case "NOBASE":
				baseActive = false

			case "WORD":
				data, mods, err := encodeWord(sec, f)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", f.Line)
				}
				recs = append(recs, ObjectRecord{Kind: RecText, Start: sec.StartAddr + f.Addr, Data: data, Line: f.Line})
				for _, m := range mods {
					m.Start += sec.StartAddr
					recs = append(recs, m)
				}

			case "BYTE":
				recs = append(recs, ObjectRecord{Kind: RecText, Start: sec.StartAddr + f.Addr, Data: literalBytes(f.Args[0]), Line: f.Line})
			}
		}
	}

	if !isFirst {
		recs = append(recs, ObjectRecord{Kind: RecEnd})
		return recs, nil
	}

	endOperand := sec.StartAddr
	if sec.EndOperand != "" {
		val, err := evalExpr(sec.EndOperand, evalCtx{sym: symLookup(sec)})
		if err != nil {
			return nil, errors.Wrap(err, "END operand")
		}
		endOperand = sec.StartAddr + val.Value
	} else if firstExec >= 0 {
		endOperand = firstExec
	}

	recs = append(recs, ObjectRecord{Kind: RecEnd, Start: endOperand, HasStart: true})

	return recs, nil
}

/* encodeWord produces the 3-byte image of a WORD directive and, if its
   expression references a relocatable or external symbol, the
   Modification record(s) required to fix it up at load/link time. A
   SYM1-SYM2 expression with an external SYM2 needs two records, +SYM1
   and -SYM2, mirroring the format-4 SYM1-SYM2 operand case in
   encodeFormat34; SYM1-SYM2 within one block is absolute and needs
   none. */
func encodeWord(sec *Section, f *Frame) ([]byte, []ObjectRecord, error) {
	if len(f.Args) != 1 {
		return nil, nil, errors.New("WORD requires exactly one operand")
	}
	val, err := evalExpr(f.Args[0], evalCtx{sym: symLookup(sec), here: f.Addr, block: f.Block})
	if err != nil {
		return nil, nil, err
	}
	data := []byte{
		byte(val.Value >> 16), byte(val.Value >> 8), byte(val.Value),
	}
	if !val.Relocatable && !val.External {
		return data, nil, nil
	}
	mods := []ObjectRecord{
		{Kind: RecMod, Start: f.Addr, HalfBytes: 6, Symbol: val.SymName, Negative: false, Line: f.Line},
	}
	if val.Sym2Name != "" {
		mods = append(mods, ObjectRecord{Kind: RecMod, Start: f.Addr, HalfBytes: 6, Symbol: val.Sym2Name, Negative: true, Line: f.Line})
	}
	return data, mods, nil
}

/* encodeInstruction assembles one instruction Frame into its 1/2/3/4
   byte image plus zero, one, or two Modification records (the latter
   only for a format-4 SYM1-SYM2 operand). */
func encodeInstruction(sec *Section, f *Frame, baseActive bool, baseAddr int) ([]byte, []ObjectRecord, error) {
	instr := lookupInstr(f.Mnemonic)

	switch instr.format {
	case FMT1:
		return []byte{instr.opcode}, nil, nil

	case FMT2:
		return encodeFormat2(instr, f)

	case FMT3:
		if f.Extended {
			return encodeFormat34(sec, instr, f, baseActive, baseAddr, true)
		}
		return encodeFormat34(sec, instr, f, baseActive, baseAddr, false)
	}
	return nil, nil, errors.Errorf("unhandled instruction format for %s", f.Mnemonic)
}

func encodeFormat2(instr *InstrDef, f *Frame) ([]byte, []ObjectRecord, error) {
	var r1, r2 int
	raw := f.Operand.Raw
	if f.Operand.Indexed {
		/* the lexer strips a trailing ",X" as an index flag; here it is
		   the second register operand */
		raw += ",X"
	}
	if raw != "" {
		parts := splitTopLevel(raw, ',')
		r1 = parseRegister(parts[0])
		if r1 < 0 {
			return nil, nil, errors.Errorf("unknown register %q", parts[0])
		}
		if len(parts) > 1 {
			r2 = parseRegister(parts[1])
			if r2 < 0 {
				return nil, nil, errors.Errorf("unknown register %q", parts[1])
			}
		}
	}
	return []byte{instr.opcode, byte(r1<<4 | r2)}, nil, nil
}

/* encodeFormat34 encodes a format-3 or format-4 instruction, choosing
   among immediate/indirect/simple addressing and PC-relative,
   base-relative, or (format 4 only) extended-absolute displacement per
   the standard SIC/XE decision tree: try PC-relative first, fall back
   to base-relative if BASE is active and the displacement still does
   not fit, and use format 4 unconditionally if the mnemonic carried a
   leading '+'. */
func encodeFormat34(sec *Section, instr *InstrDef, f *Frame, baseActive bool, baseAddr int, extended bool) ([]byte, []ObjectRecord, error) {
	n, i := true, true
	switch {
	case f.Operand.Immediate:
		n, i = false, true
	case f.Operand.Indirect:
		n, i = true, false
	}

	x := 0
	if f.Operand.Indexed {
		x = 1
	}

	size := 3
	if extended {
		size = 4
	}

	/* RSUB and other no-operand format-3/4 instructions (operand text
	   empty) need no target address resolution at all. */
	if f.Operand.Raw == "" && !f.Operand.IsLiteral {
		opcodeByte := instr.opcode | boolBit(n, 1) | boolBit(i, 0)
		if size == 3 {
			return []byte{opcodeByte, 0, 0}, nil, nil
		}
		return []byte{opcodeByte, 0, 0, 0}, nil, nil
	}

	var target exprValue
	var err error
	if f.Operand.IsLiteral {
		lit := sec.Literals.byName[f.Operand.Literal]
		if lit == nil {
			return nil, nil, errors.Errorf("unresolved literal %s", f.Operand.Literal)
		}
		target = exprValue{Value: lit.Addr, Relocatable: true, Block: lit.Block}
	} else {
		target, err = evalExpr(f.Operand.Raw, evalCtx{sym: symLookup(sec), here: f.Addr, block: f.Block})
		if err != nil {
			return nil, nil, err
		}
	}

	var mods []ObjectRecord

	if extended {
		/* Format 4: always a 20-bit absolute/relocatable displacement
		   (b=p=0, e=1), fixed up by a full Modification record unless
		   the value is a plain constant. */
		opcodeByte := instr.opcode | boolBit(n, 1) | boolBit(i, 0)
		flags := byte(x<<7 | 0<<6 | 0<<5 | 1<<4)
		disp := target.Value & 0xFFFFF
		data := []byte{
			opcodeByte,
			flags | byte(disp>>16),
			byte(disp >> 8),
			byte(disp),
		}
		if target.Relocatable || target.External {
			mods = append(mods, ObjectRecord{Start: f.Addr + 1, HalfBytes: 5, Symbol: target.SymName, Line: f.Line})
			if target.Sym2Name != "" {
				mods = append(mods, ObjectRecord{Start: f.Addr + 1, HalfBytes: 5, Symbol: target.Sym2Name, Negative: true, Line: f.Line})
			}
		}
		for mi := range mods {
			mods[mi].Kind = RecMod
		}
		return data, mods, nil
	}

	/* Format 3: try PC-relative, then base-relative; an external
	   symbol, or a SYM1-SYM2 pair with an external SYM2, cannot use
	   either and is rejected - SIC/XE requires format 4 (or EXTREF's
	   own linker fixup) for those. */
	if target.External || target.Sym2Name != "" {
		return nil, nil, errors.Errorf("external/two-symbol operand of %s requires format 4 (+)", f.Mnemonic)
	}

	/* A constant immediate that fits the 12-bit disp field is carried
	   directly, with neither PC- nor base-relative addressing. */
	if f.Operand.Immediate && !target.Relocatable && fitsSigned(target.Value, 12) {
		opcodeByte := instr.opcode | boolBit(n, 1) | boolBit(i, 0)
		disp := target.Value & 0xFFF
		data := []byte{opcodeByte, byte(x<<7) | byte((disp>>8)&0x0F), byte(disp)}
		return data, nil, nil
	}

	pc := f.Addr + size
	pcDisp := target.Value - pc
	if fitsSigned(pcDisp, 12) {
		opcodeByte := instr.opcode | boolBit(n, 1) | boolBit(i, 0)
		flags := byte(x<<7 | 0<<6 | 1<<5 | 0<<4) /* p=1, b=0 */
		data := []byte{
			opcodeByte,
			flags | byte((pcDisp>>8)&0x0F),
			byte(pcDisp),
		}
		return data, nil, nil
	}

	if baseActive {
		baseDisp := target.Value - baseAddr
		if fitsUnsigned(baseDisp, 12) {
			opcodeByte := instr.opcode | boolBit(n, 1) | boolBit(i, 0)
			flags := byte(x<<7 | 1<<6 | 0<<5 | 0<<4) /* b=1, p=0 */
			data := []byte{
				opcodeByte,
				flags | byte((baseDisp>>8)&0x0F),
				byte(baseDisp),
			}
			return data, nil, nil
		}
	}

	return nil, nil, errors.Errorf("operand of %s does not fit a format-3 displacement; use +%s", f.Mnemonic, f.Mnemonic)
}

func boolBit(b bool, shift uint) byte {
	if b {
		return 1 << shift
	}
	return 0
}
