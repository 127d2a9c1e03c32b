package protocol

import "fmt"

// schedules holds the full step sequence for every (kind, role) pair. The
// tables are loaded once and never mutated.
var schedules = map[Kind]map[Role][]Step{
	KindSetup: {
		RoleInitiator:    initiatorExchange(),
		RoleAcknowledger: acknowledgerExchange(),
	},
	KindInstall: {
		RoleInitiator: {
			StepKeyGenerate,
			StepIOPrepareSend,
			StepIOSend,
			StepIOWait,
			StepStateTransitionPropose,
			StepOpGenerate,
			StepOpSign,
			StepIOPrepareSend,
			StepIOSend,
			StepStateTransitionCommit,
		},
		RoleAcknowledger: {
			StepKeyGenerate,
			StepIOPrepareSend,
			StepIOSend,
			StepIOWait,
			StepStateTransitionPropose,
			StepOpGenerate,
			StepOpSignValidate,
			StepOpSign,
			StepStateTransitionCommit,
		},
	},
	KindUninstall: {
		RoleInitiator:    initiatorExchange(),
		RoleAcknowledger: acknowledgerExchange(),
	},
	KindUpdate: {
		RoleInitiator:    initiatorExchange(),
		RoleAcknowledger: acknowledgerExchange(),
	},
}

// initiatorExchange is the single-round initiator sequence shared by every
// protocol except install: sign first, send, wait, then validate the
// countersigned result.
func initiatorExchange() []Step {
	return []Step{
		StepStateTransitionPropose,
		StepOpGenerate,
		StepOpSign,
		StepIOPrepareSend,
		StepIOSend,
		StepIOWait,
		StepOpSignValidate,
		StepStateTransitionCommit,
	}
}

// acknowledgerExchange is the single-round acknowledger sequence shared by
// every protocol except install: validate the initiator's signature before
// countersigning, and reply without waiting.
func acknowledgerExchange() []Step {
	return []Step{
		StepStateTransitionPropose,
		StepOpGenerate,
		StepOpSignValidate,
		StepOpSign,
		StepIOPrepareSend,
		StepIOSend,
		StepStateTransitionCommit,
	}
}

// Steps returns the ordered step sequence for the kind and role. The returned
// slice is a copy and safe to modify.
func Steps(k Kind, r Role) ([]Step, error) {
	roles, ok := schedules[k]
	if !ok {
		return nil, fmt.Errorf("no schedule for protocol kind %q", k)
	}
	steps, ok := roles[r]
	if !ok {
		return nil, fmt.Errorf("no schedule for role %q", r)
	}
	out := make([]Step, len(steps))
	copy(out, steps)
	return out, nil
}
