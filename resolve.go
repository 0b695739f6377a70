package main

import "github.com/pkg/errors"

/* resolveSection runs pass 1 (location-counter assignment, symbol
   table construction, EQU evaluation) over a section whose Frames
   have already been block-rearranged and literal-materialized, then
   translates every block-local address into a section-absolute one.
   Frames are already laid out with each program block's frames
   contiguous (first-appearance order), so a single walk resetting the
   counter on every block change is equivalent to running one counter
   per block. */
func resolveSection(sec *Section) error {
	blockLen := map[string]int{}
	currentBlock := ""
	lc := 0
	seenBlock := map[string]bool{"": true}

	finishBlock := func() {
		blockLen[currentBlock] = lc
	}

	for _, f := range sec.Frames {
		if f.Block != currentBlock {
			finishBlock()
			currentBlock = f.Block
			if !seenBlock[currentBlock] {
				seenBlock[currentBlock] = true
			}
			lc = 0
		}

		if f.Label != "" && !(f.Kind == FrameDirective && f.Directive == "EQU") {
			if err := defineSymbol(sec, f.Label, &Symbol{Name: f.Label, Value: lc, Block: currentBlock, Relocatable: true}); err != nil {
				return errors.Wrapf(err, "line %d", f.Line)
			}
		}

		f.LocalAddr = lc

		switch f.Kind {
		case FrameLiteralDef:
			lc += len(f.LiteralBytes)

		case FrameDirective:
			if err := resolveDirective(sec, f, &lc); err != nil {
				return errors.Wrapf(err, "line %d", f.Line)
			}

		case FrameInstruction:
			instr := lookupInstr(f.Mnemonic)
			f.Format = instr.format
			if instr.format == FMT3 && f.Extended {
				f.Format = 4
			}
			size := f.Format
			if instr.format == FMT3 && !f.Extended {
				size = 3
			} else if instr.format == FMT1 {
				size = 1
			} else if instr.format == FMT2 {
				size = 2
			}
			lc += size
		}
	}
	finishBlock()

	sec.BlockLen = blockLen

	base := 0
	for _, name := range sec.BlockOrder {
		sec.BlockBase[name] = base
		base += blockLen[name]
	}
	sec.Length = base

	for _, f := range sec.Frames {
		f.Addr = sec.BlockBase[f.Block] + f.LocalAddr
		if f.Kind == FrameLiteralDef {
			sec.Literals.byName[f.LiteralSpelling].Addr = f.Addr
		}
	}
	for _, sym := range sec.Symbols {
		if sym.Relocatable && !sym.External {
			sym.Value = sec.BlockBase[sym.Block] + sym.Value
		}
	}

	return nil
}

func defineSymbol(sec *Section, name string, sym *Symbol) error {
	if _, exists := sec.Symbols[name]; exists {
		return errors.Errorf("duplicate symbol: %s", name)
	}
	sec.Symbols[name] = sym
	return nil
}

func symLookup(sec *Section) func(string) (*Symbol, bool) {
	return func(name string) (*Symbol, bool) {
		s, ok := sec.Symbols[name]
		return s, ok
	}
}

/* resolveDirective applies a directive's pass-1 effect: LC changes
   (ORG, RESW, RESB, WORD, BYTE; instructions are handled by the
   caller), symbol table mutation (EQU, EXTDEF, EXTREF), and recording
   END's operand. BASE and NOBASE take effect only in translation and
   are inert here. */
func resolveDirective(sec *Section, f *Frame, lc *int) error {
	switch f.Directive {
	case "EQU":
		if len(f.Args) != 1 {
			return errors.New("EQU requires exactly one expression")
		}
		val, err := evalExpr(f.Args[0], evalCtx{sym: symLookup(sec), here: *lc, block: f.Block})
		if err != nil {
			return err
		}
		if f.Label == "" {
			return errors.New("EQU requires a label")
		}
		return defineSymbol(sec, f.Label, &Symbol{
			Name: f.Label, Value: val.Value, Block: val.Block,
			Relocatable: val.Relocatable, External: val.External,
		})

	case "ORG":
		if len(f.Args) != 1 || f.Args[0] == "" {
			return nil
		}
		val, err := evalExpr(f.Args[0], evalCtx{sym: symLookup(sec), here: *lc, block: f.Block})
		if err != nil {
			return err
		}
		*lc = val.Value

	case "RESW":
		n, err := argCount(f)
		if err != nil {
			return err
		}
		*lc += 3 * n

	case "RESB":
		n, err := argCount(f)
		if err != nil {
			return err
		}
		*lc += n

	case "WORD":
		*lc += 3

	case "BYTE":
		if len(f.Args) != 1 {
			return errors.New("BYTE requires exactly one operand")
		}
		*lc += len(literalBytes(f.Args[0]))

	case "EXTDEF":
		for _, name := range f.Args {
			for _, existing := range sec.ExtDefs {
				if existing == name {
					return errors.Errorf("duplicate EXTDEF: %s", name)
				}
			}
			sec.ExtDefs = append(sec.ExtDefs, name)
		}

	case "EXTREF":
		for _, name := range f.Args {
			for _, existing := range sec.ExtRefs {
				if existing == name {
					return errors.Errorf("duplicate EXTREF: %s", name)
				}
			}
			sec.ExtRefs = append(sec.ExtRefs, name)
			if err := defineSymbol(sec, name, &Symbol{Name: name, External: true, Relocatable: true}); err != nil {
				return err
			}
		}

	case "END":
		if len(f.Args) > 0 {
			sec.EndOperand = f.Args[0]
		}
	}
	return nil
}

func argCount(f *Frame) (int, error) {
	if len(f.Args) != 1 {
		return 0, errors.Errorf("%s requires exactly one operand", f.Directive)
	}
	return parseNumber(f.Args[0])
}
