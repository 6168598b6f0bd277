package engine

// Lagrange kernel geometry
const (
	// HistoryLength is the number of taps of the 4th-degree kernel.
	HistoryLength = 5

	// nodeOffset maps tap k to node k-2, centering the nodes on zero.
	nodeOffset = 2

	// LatencySamples is the input delay of the kernel: offset 0 evaluates
	// to the sample two pushes behind the newest one.
	LatencySamples = nodeOffset
)

// Driver constants
const (
	// primedPosition forces one input sample to be consumed before the
	// first output after a reset.
	primedPosition = 1.0

	// unityRatio selects the pass-through path.
	unityRatio = 1.0

	// inputStep is the phase advanced by one consumed input sample.
	inputStep = 1.0
)
