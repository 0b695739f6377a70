package main

/* Instruction formats, independent of the n/i/x/b/p/e addressing bits
   chosen at translation time. */
const (
	FMT1 = 1 /* no operand, 1 byte */
	FMT2 = 2 /* register operand(s), 2 bytes */
	FMT3 = 3 /* opcode+flags+12-bit disp, 3 bytes (4 if extended) */
)

/* InstrDef is one entry of the SIC/XE mnemonic table. */
type InstrDef struct {
	name   string
	opcode byte
	format int
}

/* Format-3/4 instruction set. Opcode values follow the standard SIC/XE
   teaching table. */
var instrTable = []InstrDef{
	{"ADD", 0x18, FMT3},
	{"ADDF", 0x58, FMT3},
	{"AND", 0x40, FMT3},
	{"COMP", 0x28, FMT3},
	{"COMPF", 0x88, FMT3},
	{"DIV", 0x24, FMT3},
	{"DIVF", 0x64, FMT3},
	{"J", 0x3C, FMT3},
	{"JEQ", 0x30, FMT3},
	{"JGT", 0x34, FMT3},
	{"JLT", 0x38, FMT3},
	{"JSUB", 0x48, FMT3},
	{"LDA", 0x00, FMT3},
	{"LDB", 0x68, FMT3},
	{"LDCH", 0x50, FMT3},
	{"LDF", 0x70, FMT3},
	{"LDL", 0x08, FMT3},
	{"LDS", 0x6C, FMT3},
	{"LDT", 0x74, FMT3},
	{"LDX", 0x04, FMT3},
	{"LPS", 0xD0, FMT3},
	{"MUL", 0x20, FMT3},
	{"MULF", 0x60, FMT3},
	{"OR", 0x44, FMT3},
	{"RD", 0xD8, FMT3},
	{"RSUB", 0x4C, FMT3},
	{"SSK", 0xEC, FMT3},
	{"STA", 0x0C, FMT3},
	{"STB", 0x78, FMT3},
	{"STCH", 0x54, FMT3},
	{"STF", 0x80, FMT3},
	{"STI", 0xD4, FMT3},
	{"STL", 0x14, FMT3},
	{"STS", 0x7C, FMT3},
	{"STSW", 0xE8, FMT3},
	{"STT", 0x84, FMT3},
	{"STX", 0x10, FMT3},
	{"SUB", 0x1C, FMT3},
	{"SUBF", 0x5C, FMT3},
	{"TD", 0xE0, FMT3},
	{"TIX", 0x2C, FMT3},
	{"WD", 0xDC, FMT3},

	/* Format 2: register-operand instructions */
	{"ADDR", 0x90, FMT2},
	{"CLEAR", 0xB4, FMT2},
	{"COMPR", 0xA0, FMT2},
	{"DIVR", 0x9C, FMT2},
	{"MULR", 0x98, FMT2},
	{"RMO", 0xAC, FMT2},
	{"SHIFTL", 0xA4, FMT2},
	{"SHIFTR", 0xA8, FMT2},
	{"SUBR", 0x94, FMT2},
	{"SVC", 0xB0, FMT2},
	{"TIXR", 0xB8, FMT2},

	/* Format 1: no-operand instructions */
	{"FIX", 0xC4, FMT1},
	{"FLOAT", 0xC0, FMT1},
	{"HIO", 0xF4, FMT1},
	{"NORM", 0xC8, FMT1},
	{"SIO", 0xF0, FMT1},
	{"TIO", 0xF8, FMT1},
}

var instrByName map[string]*InstrDef

func init() {
	instrByName = make(map[string]*InstrDef, len(instrTable))
	for i := range instrTable {
		instrByName[instrTable[i].name] = &instrTable[i]
	}
}

func lookupInstr(name string) *InstrDef {
	return instrByName[name]
}

/* Register numbers used by Format 2 operands. */
var regNames = map[string]int{
	"A": 0, "X": 1, "L": 2, "B": 3, "S": 4, "T": 5, "F": 6, "PC": 8, "SW": 9,
}

func parseRegister(s string) int {
	if val, ok := regNames[s]; ok {
		return val
	}
	return -1
}

var directiveNames = map[string]bool{
	"START": true, "END": true, "BASE": true, "NOBASE": true, "LTORG": true,
	"ORG": true, "EQU": true, "USE": true, "CSECT": true, "EXTDEF": true,
	"EXTREF": true, "WORD": true, "BYTE": true, "RESW": true, "RESB": true,
}

func isDirective(name string) bool {
	return directiveNames[name]
}

/* fitsSigned reports whether val fits in a two's-complement field of
   the given bit width. */
func fitsSigned(val int, bits int) bool {
	min := -(1 << (bits - 1))
	max := (1 << (bits - 1)) - 1
	return val >= min && val <= max
}

func fitsUnsigned(val int, bits int) bool {
	max := (1 << bits) - 1
	return val >= 0 && val <= max
}
