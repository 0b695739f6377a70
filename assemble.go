package main

import (
	"strings"

	"github.com/pkg/errors"
)

/* assemble runs the full pipeline over one source program's text and
   returns its object-program text: lex each line into a Frame, split
   into CSECT Sections, rearrange each section's Frames by USE block,
   materialize its literal pool, resolve addresses and symbols (pass
   1), translate into raw object records, and pack each section's
   records into its final textual form. Sections are joined by a
   single newline, one after another. */
func assemble(source string) (string, error) {
	frames, err := lexSource(source)
	if err != nil {
		return "", err
	}

	sections := splitSections(frames)

	var rendered []string
	for idx, sec := range sections {
		rearrangeBlocks(sec)
		materializeLiterals(sec)

		if err := resolveSection(sec); err != nil {
			return "", errors.Wrapf(err, "section %q", sectionLabel(sec))
		}

		recs, err := translateSection(sec, idx == 0)
		if err != nil {
			return "", errors.Wrapf(err, "section %q", sectionLabel(sec))
		}

		rendered = append(rendered, packSection(recs))
	}

	return strings.Join(rendered, "\n"), nil
}

func sectionLabel(sec *Section) string {
	if sec.Name == "" {
		return "(unnamed)"
	}
	return sec.Name
}

/* lexSource turns every non-blank, non-comment line of source into a
   Frame, in order. */
func lexSource(source string) ([]*Frame, error) {
	var frames []*Frame
	for i, line := range strings.Split(source, "\n") {
		f, err := build(line, i+1)
		if err != nil {
			return nil, err
		}
		if f != nil {
			frames = append(frames, f)
		}
	}
	return frames, nil
}

/* optimize re-renders an existing object-program text by unpacking
   then repacking every section, which collapses any accidental
   record fragmentation (e.g. hand-edited or previously
   minimally-packed text) into the packer's maximal-coalescing form
   without re-running assembly. */
func optimize(objectText string) (string, error) {
	var out []string
	for _, secText := range splitObjectSections(objectText) {
		recs, err := unpackSection(secText)
		if err != nil {
			return "", err
		}
		out = append(out, packSection(recs))
	}
	return strings.Join(out, "\n"), nil
}

/* splitObjectSections partitions a multi-section object-program text
   back into one text block per section, each running from an H line
   to its terminating E line inclusive. */
func splitObjectSections(text string) []string {
	var sections []string
	var cur []string
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		cur = append(cur, line)
		if line[0] == 'E' {
			sections = append(sections, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	if len(cur) > 0 {
		sections = append(sections, strings.Join(cur, "\n"))
	}
	return sections
}
