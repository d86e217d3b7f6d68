package common

import (
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog/log"
)

const (
	defaultGOGC       = 400
	defaultMemLimitGB = 2
)

// InitRuntime applies GC and scheduler settings suited to a long-running
// cache-heavy service. Environment variables GOGC, GOMAXPROCS and GOMEMLIMIT
// take precedence when set.
func InitRuntime() {
	if os.Getenv("GOGC") == "" {
		// The pool snapshot and history arenas are long-lived; a higher
		// GC target cuts scan frequency without growing the live set.
		debug.SetGCPercent(defaultGOGC)
	}

	if os.Getenv("GOMEMLIMIT") == "" {
		debug.SetMemoryLimit(defaultMemLimitGB << 30)
	}

	if os.Getenv("GOMAXPROCS") == "" {
		procs := runtime.NumCPU()
		if procs < 1 {
			procs = 1
		}
		runtime.GOMAXPROCS(procs)
	}

	log.Info().
		Int("num_cpu", runtime.NumCPU()).
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Str("go_version", runtime.Version()).
		Msg("runtime initialized")
}
