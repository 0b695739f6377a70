package main

/* rearrangeBlocks groups a section's Frames by USE-named program
   block and replaces the section's Frame list with the concatenation
   of block Frame lists in first-appearance order. USE frames
   themselves are dropped; each surviving Frame is tagged with the
   block it belongs to so pass 1 can restart the location counter per
   block. */
func rearrangeBlocks(sec *Section) {
	blockFrames := map[string][]*Frame{}
	var order []string
	seen := map[string]bool{}

	active := ""
	seen[active] = true
	order = append(order, active)

	for _, f := range sec.Frames {
		if f.Kind == FrameDirective && f.Directive == "USE" {
			name := ""
			if len(f.Args) > 0 {
				name = f.Args[0]
			}
			active = name
			if !seen[active] {
				seen[active] = true
				order = append(order, active)
			}
			continue
		}
		f.Block = active
		blockFrames[active] = append(blockFrames[active], f)
	}

	var out []*Frame
	for _, name := range order {
		out = append(out, blockFrames[name]...)
	}
	sec.Frames = out
	sec.BlockOrder = order
}
