package resampler

// Channel constants
const (
	stereoChannels = 2   // Stereo channel count (used by interleave functions)
	maxChannels    = 256 // Maximum supported channel count
)

// Resampling ratio limits
const (
	minRatioFactor = 1.0 / 256.0 // Minimum resampling ratio (1/256)
	maxRatioFactor = 256.0       // Maximum resampling ratio (256x)
)

// Buffer constants
const (
	defaultBufferSize    = 8192 // Default pending buffer size in samples
	bufferSizeMultiplier = 2    // Multiplier for buffer size based on input size
)

const unityGain = 1.0

// Algorithm names reported by GetInfo
const (
	algorithmLagrange    = "lagrange-5"
	algorithmPassThrough = "pass-through"
)
