package protocol

// Kind names a channel protocol.
type Kind string

const (
	KindSetup     Kind = "setup"
	KindInstall   Kind = "install"
	KindUninstall Kind = "uninstall"
	KindUpdate    Kind = "update"
)

// Kinds lists every protocol kind in a fixed order.
func Kinds() []Kind {
	return []Kind{KindSetup, KindInstall, KindUninstall, KindUpdate}
}

// Role names a participant's side of a protocol round.
type Role string

const (
	// RoleInitiator starts a protocol round.
	RoleInitiator Role = "initiator"
	// RoleAcknowledger responds to a round another participant started.
	RoleAcknowledger Role = "acknowledger"
)

// Roles lists both roles in a fixed order.
func Roles() []Role {
	return []Role{RoleInitiator, RoleAcknowledger}
}

// Step is one atomic phase of a protocol round.
type Step int

const (
	// StepKeyGenerate generates the fresh keys an install transports.
	StepKeyGenerate Step = iota
	// StepStateTransitionPropose proposes the next channel state.
	StepStateTransitionPropose
	// StepStateTransitionCommit commits the proposed state.
	StepStateTransitionCommit
	// StepOpGenerate generates the operation both sides must sign.
	StepOpGenerate
	// StepOpSign signs the generated operation.
	StepOpSign
	// StepOpSignValidate validates the counterparty's signature over the
	// generated operation.
	StepOpSignValidate
	// StepIOPrepareSend assembles the outbound message.
	StepIOPrepareSend
	// StepIOSend transmits the prepared message.
	StepIOSend
	// StepIOWait suspends until the counterparty's message arrives.
	StepIOWait
)

var stepNames = map[Step]string{
	StepKeyGenerate:            "KEY_GENERATE",
	StepStateTransitionPropose: "STATE_TRANSITION_PROPOSE",
	StepStateTransitionCommit:  "STATE_TRANSITION_COMMIT",
	StepOpGenerate:             "OP_GENERATE",
	StepOpSign:                 "OP_SIGN",
	StepOpSignValidate:         "OP_SIGN_VALIDATE",
	StepIOPrepareSend:          "IO_PREPARE_SEND",
	StepIOSend:                 "IO_SEND",
	StepIOWait:                 "IO_WAIT",
}

func (s Step) String() string {
	name, ok := stepNames[s]
	if !ok {
		return "UNKNOWN"
	}
	return name
}
