package connection

const (
	CodeSessionID uint8 = iota
	CodeCreateGame
	CodeDeleteGame
	CodeProbe
	CodeShipInfo
	CodeSolution
	CodeGameStatus

	// Sent after the probe that sinks the last ship
	CodeGameOver

	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent
)
