package engine

import "godelta/internal/command"

// Diff runs the requested differencing algorithm over (r, v) and
// returns its command list (spec §6.2: diff(algorithm, R, V, options)).
//
// Diff validates opts and algorithm before doing any work (spec §7);
// given valid inputs it is infallible - it never rejects input content,
// only malformed arguments.
func Diff(algorithm Algorithm, r, v []byte, opts Options) ([]command.Command, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	switch algorithm {
	case Greedy:
		return greedyDiff(r, v, opts), nil
	case OnePass:
		return onepassDiff(r, v, opts), nil
	case Correcting:
		return correctingDiff(r, v, opts), nil
	default:
		return nil, ErrUnknownAlgorithm
	}
}
