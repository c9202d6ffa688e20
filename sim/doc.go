// Package sim is a simulation-based model checker for the vaultgate
// stack. It generates randomized operation sequences, including trigger
// arming, executes them against a real Engine backed by a fault-injecting
// store decorator, and checks consistency invariants after every step
// against an oracle model tracked inside the checker.
//
// # What it checks
//
// After each executed operation the checker asserts that no identity is
// simultaneously session-open and open-failed in the oracle, and that the
// stack's live IsAuthorized answer agrees with the oracle's session set.
// Injected
// storage failures are treated as "the call never happened"; genuine
// failures (other than the documented capacity rejection) fail the run on
// the spot.
//
// # Determinism
//
// A run is single-threaded and fully determined by its seed: the same
// seed yields the same operation sequence and the same verdict, so every
// reported failure is replayable. Failing sequences are shrunk to a
// minimal reproduction by iterative operation removal before being
// reported.
package sim
