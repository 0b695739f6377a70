package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

/* build turns one source line into zero or one Frame. Blank lines and
   lines starting with '.' in column 1 produce none. Fields are
   whitespace-separated with fixed role: [LABEL] MNEMONIC [OPERAND]
   [.COMMENT]; a label is present only when the line has no leading
   whitespace and does not start with the '+' of an extended mnemonic. */
func build(line string, lineno int) (*Frame, error) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	if line[0] == '.' {
		return nil, nil
	}

	hasLabel := line[0] != ' ' && line[0] != '\t' && line[0] != '+'
	rest := line

	var label string
	if hasLabel {
		label, rest = scanToken(rest)
	} else {
		rest = strings.TrimLeft(rest, " \t")
	}
	rest = strings.TrimLeft(rest, " \t")
	if rest == "" {
		return nil, errors.Errorf("line %d: label with no mnemonic", lineno)
	}

	mnemonic, rest := scanToken(rest)
	rest = strings.TrimLeft(rest, " \t")

	extended := false
	if strings.HasPrefix(mnemonic, "+") {
		extended = true
		mnemonic = mnemonic[1:]
	}
	mnemonic = strings.ToUpper(mnemonic)

	operandText, trailing := scanToken(rest)
	if strings.HasPrefix(operandText, ".") {
		operandText, trailing = "", ""
	}
	trailing = strings.TrimLeft(trailing, " \t")
	if trailing != "" && trailing[0] != '.' {
		return nil, errors.Errorf("line %d: unexpected trailing text %q", lineno, trailing)
	}

	f := &Frame{Line: lineno, Label: label, Mnemonic: mnemonic, Extended: extended}

	if isDirective(mnemonic) {
		f.Kind = FrameDirective
		f.Directive = mnemonic
		f.Args = splitTopLevel(operandText, ',')
		if len(f.Args) == 1 && f.Args[0] == "" {
			f.Args = nil
		}
		return f, nil
	}

	if lookupInstr(mnemonic) == nil {
		return nil, errors.Errorf("line %d: unrecognized mnemonic: %s", lineno, mnemonic)
	}

	f.Kind = FrameInstruction
	op, err := parseOperand(operandText)
	if err != nil {
		return nil, errors.Wrapf(err, "line %d", lineno)
	}
	f.Operand = op
	return f, nil
}

/* scanToken consumes one whitespace-delimited token from the start of
   s, treating a single-quoted run as part of the token even if it
   contains whitespace or commas, and returns the token and what
   remains. */
func scanToken(s string) (string, string) {
	i := 0
	n := len(s)
	for i < n && s[i] != ' ' && s[i] != '\t' {
		if s[i] == '\'' {
			i++
			for i < n && s[i] != '\'' {
				i++
			}
			if i < n {
				i++
			}
			continue
		}
		i++
	}
	return s[:i], s[i:]
}

/* splitTopLevel splits s on sep, ignoring occurrences of sep inside a
   single-quoted run. */
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	start := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\'':
			inQuote = !inQuote
		case s[i] == sep && !inQuote:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

/* parseOperand classifies an instruction operand's addressing flags
   and strips them down to the raw expression/literal text. */
func parseOperand(tok string) (Operand, error) {
	var op Operand
	if tok == "" {
		return op, nil
	}

	if strings.HasPrefix(tok, "=") {
		op.IsLiteral = true
		op.Literal = tok
		return op, nil
	}

	if strings.HasPrefix(tok, "@") {
		op.Indirect = true
		tok = tok[1:]
	} else if strings.HasPrefix(tok, "#") {
		op.Immediate = true
		tok = tok[1:]
	}

	if strings.HasSuffix(strings.ToUpper(tok), ",X") {
		op.Indexed = true
		tok = tok[:len(tok)-2]
	}

	op.Raw = tok
	return op, nil
}

/* parseNumber parses a decimal, X'hex', or C'char-as-bytes-as-int'
   numeric literal used in directive arguments; callers needing the
   byte representation of C'...'/X'...' use literalBytes instead. */
func parseNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "X'") && strings.HasSuffix(s, "'") {
		v, err := strconv.ParseInt(s[2:len(s)-1], 16, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "bad hex literal %q", s)
		}
		return int(v), nil
	}
	if strings.HasPrefix(s, "C'") && strings.HasSuffix(s, "'") {
		b := literalBytes(s)
		v := 0
		for _, c := range b {
			v = v<<8 | int(c)
		}
		return v, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bad numeric operand %q", s)
	}
	return int(v), nil
}

/* literalBytes returns the byte encoding of a C'...'/X'...' constant,
   as used by BYTE and by literal pool entries. */
func literalBytes(spelling string) []byte {
	if len(spelling) < 4 {
		return nil
	}
	kind := spelling[0]
	body := spelling[2 : len(spelling)-1]
	switch kind {
	case 'C':
		return []byte(body)
	case 'X':
		if len(body)%2 != 0 {
			body = "0" + body
		}
		out := make([]byte, len(body)/2)
		for i := range out {
			v, _ := strconv.ParseUint(body[i*2:i*2+2], 16, 8)
			out[i] = byte(v)
		}
		return out
	}
	return nil
}
