package ring

// Buffer growth constants
const (
	bufferGrowthFactor = 2 // Capacity multiplier when the buffer fills up
)
