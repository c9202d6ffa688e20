// Command vaultgate-sim runs the simulation model checker from the shell.
//
// It executes a range of seeded runs against the reference stack and
// prints any invariant violation as a minimal, replayable operation
// sequence.
//
//	vaultgate-sim -seed 1 -runs 500 -ops 100 -p 0.08
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/vaultgate/vaultgate/sim"
)

func main() {
	var (
		seed     = flag.Int64("seed", 1, "first seed; run n uses seed+n")
		runs     = flag.Int("runs", 100, "number of simulated runs")
		maxOps   = flag.Int("ops", 100, "maximum operations per run")
		faultP   = flag.Float64("p", 0.08, "per-step trigger-arming probability")
		capacity = flag.Int("capacity", 0, "identity capacity of the store (0 = unbounded)")
	)
	flag.Parse()

	checker := sim.NewChecker(sim.Config{
		MaxOps:           *maxOps,
		FaultProbability: *faultP,
		MaxIdentities:    *capacity,
	})

	log.Printf("checking %d runs (seeds %d..%d, ops<=%d, p=%.2f)",
		*runs, *seed, *seed+int64(*runs)-1, *maxOps, *faultP)

	failures := 0
	for n := int64(0); n < int64(*runs); n++ {
		if f := checker.Run(*seed + n); f != nil {
			failures++
			fmt.Print(f)
		}
	}

	if failures > 0 {
		log.Printf("%d of %d runs violated invariants", failures, *runs)
		os.Exit(1)
	}
	log.Printf("all %d runs passed", *runs)
}
