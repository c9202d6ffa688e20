package sim

import "fmt"

// OpKind enumerates the operations a simulated sequence can contain.
type OpKind uint8

const (
	// OpRegister registers an identity with a fresh secret.
	OpRegister OpKind = iota
	// OpAuthCorrect authenticates with the last successfully registered
	// secret. A no-op if the identity is not registered in the oracle.
	OpAuthCorrect
	// OpAuthWrong authenticates with a secret known to be wrong.
	OpAuthWrong
	// OpDeauth closes the identity's session.
	OpDeauth
	// OpCheckAccess compares IsAuthorized against the oracle.
	OpCheckAccess
	// OpArmTrigger arms a named storage fault trigger.
	OpArmTrigger
)

func (k OpKind) String() string {
	switch k {
	case OpRegister:
		return "Register"
	case OpAuthCorrect:
		return "AuthCorrect"
	case OpAuthWrong:
		return "AuthWrong"
	case OpDeauth:
		return "Deauth"
	case OpCheckAccess:
		return "CheckAccess"
	case OpArmTrigger:
		return "ArmTrigger"
	default:
		return fmt.Sprintf("OpKind(%d)", uint8(k))
	}
}

// Op is one step of a simulated sequence. Identity and Secret are set for
// identity-directed operations; Trigger only for OpArmTrigger.
type Op struct {
	Kind     OpKind
	Identity string
	Secret   string
	Trigger  string
}

// String renders the op in replayable literal form.
func (op Op) String() string {
	switch op.Kind {
	case OpRegister:
		return fmt.Sprintf("Register(%q, %q)", op.Identity, op.Secret)
	case OpArmTrigger:
		return fmt.Sprintf("ArmTrigger(%q)", op.Trigger)
	default:
		return fmt.Sprintf("%s(%q)", op.Kind, op.Identity)
	}
}
