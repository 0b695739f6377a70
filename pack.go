package main

import (
	"fmt"
	"strings"
)

const (
	maxTextBytes   = 30 /* T record data limit */
	maxDefinesLine = 6  /* D record name/value pairs per line */
	maxRefersLine  = 12 /* R record names per line */
)

/* packSection renders one section's raw object records into its final
   textual form: one H line, D lines grouped by 6, R lines grouped by
   12, coalesced T lines of at most 30 data bytes each, M lines, and a
   trailing E line. Adjacent Text records are merged into a single T
   line as long as they are contiguously addressed and the running
   line would not exceed the byte limit; a non-contiguous record or a
   full line forces a flush before the next record starts a new one. */
func packSection(recs []ObjectRecord) string {
	var tLines []string

	var defs, refs, mods []ObjectRecord
	var header ObjectRecord
	var end ObjectRecord

	var runStart int
	var runBytes []byte
	haveRun := false

	flushRun := func() {
		if !haveRun || len(runBytes) == 0 {
			haveRun = false
			runBytes = nil
			return
		}
		tLines = append(tLines, formatText(runStart, runBytes))
		haveRun = false
		runBytes = nil
	}

	for _, r := range recs {
		switch r.Kind {
		case RecHeader:
			header = r
		case RecDefine:
			defs = append(defs, r)
		case RecRefer:
			refs = append(refs, r)
		case RecEnd:
			end = r
		case RecText:
			if haveRun && r.Start == runStart+len(runBytes) && len(runBytes)+len(r.Data) <= maxTextBytes {
				runBytes = append(runBytes, r.Data...)
				continue
			}
			flushRun()
			runStart = r.Start
			runBytes = append([]byte{}, r.Data...)
			haveRun = true
		case RecMod:
			mods = append(mods, r)
		}
	}
	flushRun()

	out := make([]string, 0, len(tLines)+len(mods)+4)
	out = append(out, formatHeader(header))
	out = append(out, formatDefineLines(defs)...)
	out = append(out, formatReferLines(refs)...)

	/* Text records are coalesced independently of Modification records
	   (a Mod never breaks an in-progress Text run); all T lines are
	   emitted before any M line, per the required record order. */
	out = append(out, tLines...)
	for _, m := range mods {
		out = append(out, formatMod(m))
	}
	out = append(out, formatEnd(end))

	return strings.Join(out, "\n")
}

func formatHeader(h ObjectRecord) string {
	return fmt.Sprintf("H%-6s%06X%06X", truncName(h.Name), h.Start, h.Length)
}

func formatDefineLines(defs []ObjectRecord) []string {
	var lines []string
	for i := 0; i < len(defs); i += maxDefinesLine {
		end := i + maxDefinesLine
		if end > len(defs) {
			end = len(defs)
		}
		var b strings.Builder
		b.WriteByte('D')
		for _, d := range defs[i:end] {
			fmt.Fprintf(&b, "%-6s%06X", truncName(d.Name), d.Value)
		}
		lines = append(lines, b.String())
	}
	return lines
}

func formatReferLines(refs []ObjectRecord) []string {
	var lines []string
	for i := 0; i < len(refs); i += maxRefersLine {
		end := i + maxRefersLine
		if end > len(refs) {
			end = len(refs)
		}
		var b strings.Builder
		b.WriteByte('R')
		for _, r := range refs[i:end] {
			fmt.Fprintf(&b, "%-6s", truncName(r.Name))
		}
		lines = append(lines, b.String())
	}
	return lines
}

func formatText(start int, data []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "T%06X%02X", start, len(data))
	for _, by := range data {
		fmt.Fprintf(&b, "%02X", by)
	}
	return b.String()
}

func formatMod(m ObjectRecord) string {
	sign := "+"
	if m.Negative {
		sign = "-"
	}
	return fmt.Sprintf("M%06X%02X%s%s", m.Start, m.HalfBytes, sign, truncName(m.Symbol))
}

func formatEnd(e ObjectRecord) string {
	if !e.HasStart {
		return "E"
	}
	return fmt.Sprintf("E%06X", e.Start)
}

func truncName(name string) string {
	if len(name) > 6 {
		return name[:6]
	}
	return name
}
