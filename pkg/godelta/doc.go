package godelta

// Typical standard usage:
//
//	cmds, err := godelta.Diff(godelta.Greedy, r, v, godelta.DefaultOptions())
//	placed := godelta.PlaceCommands(cmds)
//	data := godelta.EncodeDelta(placed, false, uint32(len(v)))
//	// ... later, possibly in another process ...
//	decoded, inplace, versionSize, err := godelta.DecodeDelta(data)
//	reconstructed, err := godelta.ApplyPlaced(r, decoded, versionSize)
//
// In-place usage, when the caller wants to reconstruct v inside the
// same buffer that holds r (no second allocation the size of v):
//
//	cmds, err := godelta.Diff(godelta.Correcting, r, v, godelta.DefaultOptions())
//	placed := godelta.MakeInplace(r, cmds, godelta.LocalMin)
//	data := godelta.EncodeDelta(placed, true, uint32(len(v)))
//	// ... later ...
//	decoded, _, versionSize, err := godelta.DecodeDelta(data)
//	reconstructed, err := godelta.ApplyPlacedInplace(r, decoded, versionSize)
