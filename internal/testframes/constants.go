package testframes

// HTTP status code constants.
const (
	StatusOK = 200
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	// percentTolerance absorbs float summation error in the outer layer total.
	percentTolerance = 1e-6
)
