package testgrid

// HTTP status codes the service responds with.
const (
	StatusOK       = 200
	StatusCreated  = 201
	StatusAccepted = 202
)

// Limits for the synthetic field.
const (
	MaxDrivers = 256
	MaxClasses = 6
	MinLaps    = 2
)

// waveGapSlots is the trailing gap configured behind the first wave.
const waveGapSlots = 2

// frontRowsShown caps the per-wave rows printed after a build.
const frontRowsShown = 5

// PercentageMultiplier converts a ratio to a percentage.
const PercentageMultiplier = 100
