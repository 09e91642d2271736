package command

import "sort"

// Place converts algorithm-level commands to placed commands by walking
// them in order with a running write cursor (§4.6 step 1). This is the
// exact destination assignment in-place conversion starts from.
func Place(cmds []Command) []PlacedCommand {
	out := make([]PlacedCommand, len(cmds))

	var writePos uint32

	for i, c := range cmds {
		switch c.Kind {
		case KindCopy:
			out[i] = PlacedCopy(c.Offset, writePos, c.Length)
		case KindAdd:
			out[i] = PlacedAdd(writePos, c.Data)
		}

		writePos += c.Span()
	}

	return out
}

// Unplace sorts placed commands by destination and strips destinations,
// recovering the algorithm-level Command sequence (§6.2). Used to
// convert a decoded standard delta to in-place without re-diffing.
func Unplace(placed []PlacedCommand) []Command {
	sorted := make([]PlacedCommand, len(placed))
	copy(sorted, placed)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Dst < sorted[j].Dst
	})

	out := make([]Command, len(sorted))

	for i, p := range sorted {
		switch p.Kind {
		case KindCopy:
			out[i] = Copy(p.Src, p.Length)
		case KindAdd:
			out[i] = Add(p.Data)
		}
	}

	return out
}
