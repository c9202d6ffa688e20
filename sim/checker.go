package sim

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	vaultgate "github.com/vaultgate/vaultgate"
	"github.com/vaultgate/vaultgate/basicauth"
	"github.com/vaultgate/vaultgate/faultinject"
	"github.com/vaultgate/vaultgate/store"
)

// wrongSuffix is appended to a registered secret to build a secret that is
// guaranteed not to verify. Unregistered identities use a fixed decoy.
const (
	wrongSuffix = "-wrong"
	decoySecret = "hunter2"
)

// Config bounds a checker. The zero value is usable; defaults are applied
// by NewChecker.
type Config struct {
	// MaxOps caps the length of a generated sequence (default 50).
	MaxOps int
	// FaultProbability is the per-step chance of generating an ArmTrigger
	// op instead of a domain op (default 0.08).
	FaultProbability float64
	// MaxIdentities is passed to the default in-memory store and tells the
	// oracle when a capacity rejection is legitimate. <= 0 means
	// unbounded.
	MaxIdentities int
	// NewStore overrides the backend built for each run. The store must
	// honor MaxIdentities if it is set; every run gets a fresh instance.
	NewStore func() store.Store
}

func (cfg Config) withDefaults() Config {
	if cfg.MaxOps <= 0 {
		cfg.MaxOps = 50
	}
	if cfg.FaultProbability <= 0 {
		cfg.FaultProbability = 0.08
	}
	return cfg
}

// Checker drives operation sequences against a real Engine and an oracle
// model in lockstep. A Checker is stateless across runs and safe to reuse.
type Checker struct {
	cfg Config
}

// NewChecker returns a Checker for cfg.
func NewChecker(cfg Config) *Checker {
	return &Checker{cfg: cfg.withDefaults()}
}

// Failure describes a minimal reproduction of an invariant violation.
type Failure struct {
	Seed   int64
	Ops    []Op
	Step   int
	Reason string
}

func (f *Failure) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invariant violated at step %d (seed %d): %s\n", f.Step, f.Seed, f.Reason)
	for i, op := range f.Ops {
		marker := "  "
		if i == f.Step {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%s\n", marker, op)
	}
	return b.String()
}

// Run generates the sequence for seed, executes it against a fresh stack,
// and returns nil if every step upheld the invariants. On violation the
// failing sequence is shrunk to a minimal reproduction first.
func (c *Checker) Run(seed int64) *Failure {
	ops := newGenerator(seed, c.cfg).sequence()

	v := c.execute(ops)
	if v == nil {
		return nil
	}

	ops = c.shrink(ops, v)
	v = c.execute(ops)
	return &Failure{Seed: seed, Ops: ops, Step: v.step, Reason: v.reason}
}

// RunSequence replays an explicit sequence, for regression cases. No
// shrinking is applied.
func (c *Checker) RunSequence(ops []Op) *Failure {
	v := c.execute(ops)
	if v == nil {
		return nil
	}
	return &Failure{Seed: -1, Ops: slices.Clone(ops), Step: v.step, Reason: v.reason}
}

// shrink minimizes a failing sequence: truncate to the failing prefix,
// then repeatedly drop single operations as long as the remainder still
// fails.
func (c *Checker) shrink(ops []Op, v *violation) []Op {
	ops = slices.Clone(ops[:v.step+1])

	for {
		removed := false
		for i := 0; i < len(ops); i++ {
			candidate := slices.Delete(slices.Clone(ops), i, i+1)
			if c.execute(candidate) != nil {
				ops = candidate
				removed = true
				break
			}
		}
		if !removed {
			return ops
		}
	}
}

type violation struct {
	step   int
	reason string
}

// oracle is the checker-side model: what must be true of the store given
// the observed outcomes. Injected failures leave it untouched, because the
// decorator guarantees the wrapped store never saw the call.
type oracle struct {
	registered map[string]string
	open       map[string]bool
	failedOpen map[string]bool
}

func (c *Checker) execute(ops []Op) *violation {
	ctx := context.Background()

	inj := faultinject.NewInjector()
	var backend store.Store
	if c.cfg.NewStore != nil {
		backend = c.cfg.NewStore()
	} else {
		backend = store.NewMemoryStore(c.cfg.MaxIdentities)
	}

	cfg := vaultgate.DefaultConfig()
	cfg.Password = vaultgate.PasswordConfig{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLength: 16}
	cfg.Store.MaxIdentities = c.cfg.MaxIdentities

	engine, err := vaultgate.New().
		WithConfig(cfg).
		WithStore(faultinject.Wrap(backend, inj)).
		Build()
	if err != nil {
		return &violation{step: 0, reason: fmt.Sprintf("engine build failed: %v", err)}
	}

	model := &oracle{
		registered: make(map[string]string),
		open:       make(map[string]bool),
		failedOpen: make(map[string]bool),
	}

	for i, op := range ops {
		if reason := c.step(ctx, engine, inj, model, op); reason != "" {
			return &violation{step: i, reason: reason}
		}
		if reason := c.checkInvariants(ctx, engine, inj, model, op); reason != "" {
			return &violation{step: i, reason: reason}
		}
	}
	return nil
}

func (c *Checker) step(ctx context.Context, engine *vaultgate.Engine, inj *faultinject.Injector, model *oracle, op Op) string {
	switch op.Kind {
	case OpRegister:
		err := engine.Register(ctx, op.Identity, op.Secret)
		switch {
		case err == nil:
			model.registered[op.Identity] = op.Secret
		case store.IsInjected(err):
			// Call never reached the store; credential unchanged.
		case errors.Is(err, store.ErrCapacityExceeded):
			if !c.capacityRejectionExpected(model, op.Identity) {
				return fmt.Sprintf("unexpected capacity rejection for %q", op.Identity)
			}
		default:
			return fmt.Sprintf("genuine register failure: %v", err)
		}

	case OpAuthCorrect:
		secret, known := model.registered[op.Identity]
		if !known {
			return ""
		}
		identity, err := engine.Authenticate(ctx, basicauth.Encode(op.Identity, secret))
		switch {
		case err == nil:
			if identity != op.Identity {
				return fmt.Sprintf("authenticated as %q, expected %q", identity, op.Identity)
			}
			model.open[op.Identity] = true
			delete(model.failedOpen, op.Identity)
		case store.IsInjected(err):
			if !model.open[op.Identity] {
				model.failedOpen[op.Identity] = true
			}
		default:
			return fmt.Sprintf("correct secret rejected for %q: %v", op.Identity, err)
		}

	case OpAuthWrong:
		if secret, known := model.registered[op.Identity]; known {
			_, err := engine.Authenticate(ctx, basicauth.Encode(op.Identity, secret+wrongSuffix))
			switch {
			case err == nil:
				return fmt.Sprintf("wrong secret accepted for %q", op.Identity)
			case errors.Is(err, vaultgate.ErrInvalidCredentials), store.IsInjected(err):
			default:
				return fmt.Sprintf("unexpected wrong-secret failure for %q: %v", op.Identity, err)
			}
		} else {
			_, err := engine.Authenticate(ctx, basicauth.Encode(op.Identity, decoySecret))
			switch {
			case err == nil:
				return fmt.Sprintf("unregistered identity %q authenticated", op.Identity)
			case errors.Is(err, vaultgate.ErrNotRegistered), store.IsInjected(err):
			default:
				return fmt.Sprintf("unexpected unregistered-auth failure for %q: %v", op.Identity, err)
			}
		}

	case OpDeauth:
		secret, known := model.registered[op.Identity]
		if !known {
			secret = decoySecret
		}
		err := engine.Deauthenticate(ctx, basicauth.Encode(op.Identity, secret))
		switch {
		case err == nil:
			delete(model.open, op.Identity)
		case store.IsInjected(err):
			// Session set untouched; the oracle keeps its view.
		default:
			return fmt.Sprintf("genuine deauthenticate failure for %q: %v", op.Identity, err)
		}

	case OpCheckAccess:
		got, err := engine.IsAuthorized(ctx, op.Identity)
		switch {
		case err == nil:
			if got != model.open[op.Identity] {
				return fmt.Sprintf("IsAuthorized(%q) = %v, oracle says %v", op.Identity, got, model.open[op.Identity])
			}
		case store.IsInjected(err):
		default:
			return fmt.Sprintf("genuine authorization failure for %q: %v", op.Identity, err)
		}

	case OpArmTrigger:
		inj.Arm(op.Trigger)

	default:
		return fmt.Sprintf("unknown op kind %d", op.Kind)
	}
	return ""
}

// checkInvariants runs after every step: the oracle must be internally
// consistent, and where the is_authorized path is not sabotaged, the real
// stack's answer for the step's identity must agree with the oracle.
func (c *Checker) checkInvariants(ctx context.Context, engine *vaultgate.Engine, inj *faultinject.Injector, model *oracle, op Op) string {
	for identity := range model.open {
		if model.failedOpen[identity] {
			return fmt.Sprintf("%q is both open and failed-open in the oracle", identity)
		}
	}

	if op.Identity == "" || inj.Armed(store.OpIsAuthorized) {
		return ""
	}
	live, err := engine.IsAuthorized(ctx, op.Identity)
	if err != nil {
		return fmt.Sprintf("genuine authorization failure during cross-check for %q: %v", op.Identity, err)
	}
	if live != model.open[op.Identity] {
		return fmt.Sprintf("live IsAuthorized(%q) = %v disagrees with oracle %v", op.Identity, live, model.open[op.Identity])
	}
	return ""
}

func (c *Checker) capacityRejectionExpected(model *oracle, identity string) bool {
	if c.cfg.MaxIdentities <= 0 {
		return false
	}
	if _, known := model.registered[identity]; known {
		return false
	}
	return len(model.registered) >= c.cfg.MaxIdentities
}
