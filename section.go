package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

/* parseStartAddr parses a START directive's operand, which SIC/XE
   convention gives in hexadecimal (unlike RESW/RESB counts and other
   decimal operands) unless it carries an explicit X'...'/C'...' form. */
func parseStartAddr(s string) (int, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "X'") || strings.HasPrefix(s, "C'") {
		return parseNumber(s)
	}
	v, err := strconv.ParseInt(s, 16, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bad START address %q", s)
	}
	return int(v), nil
}

/* splitSections partitions a Frame stream into one Section per CSECT,
   preserving order. The first section inherits its name and start
   address from START if present, else starts unnamed at address 0. */
func splitSections(frames []*Frame) []*Section {
	if len(frames) == 0 {
		return nil
	}

	var sections []*Section
	cur := newSection("")

	flush := func() {
		if len(cur.Frames) > 0 || cur.Name != "" || len(sections) == 0 {
			sections = append(sections, cur)
		}
	}

	for _, f := range frames {
		if f.Kind == FrameDirective && f.Directive == "CSECT" {
			flush()
			name := f.Label
			cur = newSection(name)
			continue
		}
		if f.Kind == FrameDirective && f.Directive == "START" {
			cur.Name = f.Label
			if len(f.Args) > 0 {
				if n, err := parseStartAddr(f.Args[0]); err == nil {
					cur.StartAddr = n
				}
			}
			continue
		}
		cur.Frames = append(cur.Frames, f)
	}
	flush()

	return sections
}
