package cryptoalg

// GenerationStage identifies a step of key pair generation.
type GenerationStage int

const (
	// StageGeneratingPrimes is emitted before the two primes are drawn.
	StageGeneratingPrimes GenerationStage = iota
	// StagePrimesReady is emitted once both primes are known.
	StagePrimesReady
	// StageDerivingKeys is emitted before the modulus and private exponent are computed.
	StageDerivingKeys
	// StageKeysReady is emitted once the key pair exists.
	StageKeysReady
	// StageStoringKeys is emitted before the key pair is persisted.
	StageStoringKeys
	// StageKeysStored is emitted once the key pair has been persisted.
	StageKeysStored
)

// String returns a short name for the stage.
func (s GenerationStage) String() string {
	switch s {
	case StageGeneratingPrimes:
		return "generating-primes"
	case StagePrimesReady:
		return "primes-ready"
	case StageDerivingKeys:
		return "deriving-keys"
	case StageKeysReady:
		return "keys-ready"
	case StageStoringKeys:
		return "storing-keys"
	case StageKeysStored:
		return "keys-stored"
	default:
		return "unknown"
	}
}

// ProgressEvent describes a generation step. PrimeDigits is set for StageGeneratingPrimes.
type ProgressEvent struct {
	Stage       GenerationStage
	PrimeDigits int
}

// ProgressObserver receives generation progress. Implementations must not block for long.
type ProgressObserver interface {
	OnProgress(event ProgressEvent)
}

// ProgressFunc adapts an ordinary function to a ProgressObserver.
type ProgressFunc func(event ProgressEvent)

// OnProgress calls f(event).
func (f ProgressFunc) OnProgress(event ProgressEvent) {
	f(event)
}

// Notify forwards event to observer when it is non-nil.
func Notify(observer ProgressObserver, event ProgressEvent) {
	if observer != nil {
		observer.OnProgress(event)
	}
}
