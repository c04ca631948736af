package commands

import (
	"fmt"
	"io"

	"github.com/AastromSecurity/Crypto/internal/domain/cryptoalg"
)

// consoleProgress prints one "(~) step... OK" line per generation step.
type consoleProgress struct {
	out     io.Writer
	pending bool
}

func newConsoleProgress(out io.Writer) *consoleProgress {
	return &consoleProgress{out: out}
}

func (p *consoleProgress) OnProgress(event cryptoalg.ProgressEvent) {
	switch event.Stage {
	case cryptoalg.StageGeneratingPrimes:
		p.begin(fmt.Sprintf("Generating two %d digits-long random prime numbers, please wait...", event.PrimeDigits))
	case cryptoalg.StageDerivingKeys:
		p.begin("Generating public and private keys based on prime numbers...")
	case cryptoalg.StageStoringKeys:
		p.begin("Storing public and private keys...")
	case cryptoalg.StagePrimesReady, cryptoalg.StageKeysReady, cryptoalg.StageKeysStored:
		p.end("OK")
	}
}

func (p *consoleProgress) begin(step string) {
	// A step that never finished belongs to a failed attempt.
	p.end("FAILED")
	fmt.Fprintf(p.out, "(~) %s ", step)
	p.pending = true
}

func (p *consoleProgress) end(status string) {
	if !p.pending {
		return
	}
	fmt.Fprintln(p.out, status)
	p.pending = false
}
