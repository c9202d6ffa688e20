package sim

import (
	"math/rand"

	"github.com/vaultgate/vaultgate/store"
)

// identityPool is deliberately small so generated sequences collide on the
// same identities: re-registration, double login and logout-after-failure
// interleavings only show up when identities repeat.
var identityPool = []string{
	"Alice", "Bob", "Carol", "David", "Erin", "Frank", "Greta", "Holger",
	"Isabelle", "Jacob", "Kate", "Larry", "Margaret", "Noah", "Olivia",
	"Paul", "Quinn", "Robert", "Susan", "Thomas", "Ursula", "Vincent",
	"Wanda", "Xavier", "Yvonne", "Zachary",
}

// Secrets avoid the colon (reserved as the token separator) and control
// characters; everything else printable is fair game.
const secretAlphabet = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!#$%&'()*+,-./;<=>?@[]^_`{|}~ "

type generator struct {
	rng *rand.Rand
	cfg Config
}

func newGenerator(seed int64, cfg Config) *generator {
	return &generator{rng: rand.New(rand.NewSource(seed)), cfg: cfg}
}

// sequence draws a finite operation sequence of up to cfg.MaxOps steps.
func (g *generator) sequence() []Op {
	n := 1 + g.rng.Intn(g.cfg.MaxOps)
	ops := make([]Op, 0, n)
	for i := 0; i < n; i++ {
		ops = append(ops, g.op())
	}
	return ops
}

func (g *generator) op() Op {
	if g.rng.Float64() < g.cfg.FaultProbability {
		triggers := store.Operations()
		return Op{Kind: OpArmTrigger, Trigger: triggers[g.rng.Intn(len(triggers))]}
	}

	identity := identityPool[g.rng.Intn(len(identityPool))]
	switch g.rng.Intn(5) {
	case 0:
		return Op{Kind: OpRegister, Identity: identity, Secret: g.secret()}
	case 1:
		return Op{Kind: OpAuthCorrect, Identity: identity}
	case 2:
		return Op{Kind: OpAuthWrong, Identity: identity}
	case 3:
		return Op{Kind: OpDeauth, Identity: identity}
	default:
		return Op{Kind: OpCheckAccess, Identity: identity}
	}
}

func (g *generator) secret() string {
	n := 1 + g.rng.Intn(12)
	b := make([]byte, n)
	for i := range b {
		b[i] = secretAlphabet[g.rng.Intn(len(secretAlphabet))]
	}
	return string(b)
}
