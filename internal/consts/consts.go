package consts

const (
	// PinTolerance is the geometric merge radius for pin clustering, in
	// editor canvas length units. Two pins closer than this belong to the
	// same electrical node.
	PinTolerance = 8.0
)
