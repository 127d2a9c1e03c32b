package protocol

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSteps_everyPairHasASchedule(t *testing.T) {
	for _, k := range Kinds() {
		for _, r := range Roles() {
			steps, err := Steps(k, r)
			require.NoError(t, err, "%s %s", k, r)
			require.NotEmpty(t, steps, "%s %s", k, r)
			assert.Equal(t, StepStateTransitionCommit, steps[len(steps)-1], "%s %s must end with a commit", k, r)
		}
	}
}

func TestSteps_initiatorShape(t *testing.T) {
	for _, k := range []Kind{KindSetup, KindUninstall, KindUpdate} {
		steps, err := Steps(k, RoleInitiator)
		require.NoError(t, err)
		// Propose first, then sign, send, wait, and validate the
		// countersigned result before committing.
		assert.Equal(t, StepStateTransitionPropose, steps[0], "%s", k)
		assert.Equal(t, []Step{StepOpSign, StepIOPrepareSend, StepIOSend, StepIOWait, StepOpSignValidate}, steps[2:7], "%s", k)
	}

	// Install alone is preceded by a key exchange round, and its second round
	// sends without waiting.
	steps, err := Steps(KindInstall, RoleInitiator)
	require.NoError(t, err)
	assert.Equal(t, StepKeyGenerate, steps[0])
	assert.Equal(t, []Step{StepIOPrepareSend, StepIOSend, StepIOWait}, steps[1:4])
	assert.Equal(t, []Step{StepIOSend, StepStateTransitionCommit}, steps[len(steps)-2:])
	assert.NotContains(t, steps[4:], StepIOWait)
}

func TestSteps_acknowledgerValidatesBeforeSigning(t *testing.T) {
	for _, k := range Kinds() {
		steps, err := Steps(k, RoleAcknowledger)
		require.NoError(t, err)
		validate := indexOf(steps, StepOpSignValidate)
		sign := indexOf(steps, StepOpSign)
		require.GreaterOrEqual(t, validate, 0, "%s", k)
		require.GreaterOrEqual(t, sign, 0, "%s", k)
		assert.Less(t, validate, sign, "%s acknowledger must validate before countersigning", k)
	}

	// No explicit wait before replying: the triggering message has already
	// arrived when a single-round acknowledger schedule runs.
	for _, k := range []Kind{KindSetup, KindUninstall, KindUpdate} {
		steps, err := Steps(k, RoleAcknowledger)
		require.NoError(t, err)
		assert.NotContains(t, steps, StepIOWait, "%s", k)
	}
}

func TestSteps_returnsACopy(t *testing.T) {
	steps, err := Steps(KindUpdate, RoleInitiator)
	require.NoError(t, err)
	steps[0] = StepIOWait

	again, err := Steps(KindUpdate, RoleInitiator)
	require.NoError(t, err)
	assert.Equal(t, StepStateTransitionPropose, again[0])
}

func TestSteps_unknownPair(t *testing.T) {
	_, err := Steps(Kind("teardown"), RoleInitiator)
	require.Error(t, err)

	_, err = Steps(KindSetup, Role("observer"))
	require.Error(t, err)
}

func TestSchedules_golden(t *testing.T) {
	b := strings.Builder{}
	for _, k := range Kinds() {
		for _, r := range Roles() {
			steps, err := Steps(k, r)
			require.NoError(t, err)
			names := make([]string, len(steps))
			for i, s := range steps {
				names[i] = s.String()
			}
			fmt.Fprintf(&b, "%s %s: %s\n", k, r, strings.Join(names, " "))
		}
	}
	g := goldie.New(t)
	g.Assert(t, "schedules", []byte(b.String()))
}

func indexOf(steps []Step, step Step) int {
	for i, s := range steps {
		if s == step {
			return i
		}
	}
	return -1
}
