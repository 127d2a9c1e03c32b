/*
Package protocol defines the ordered step sequences that the channel
protocols execute, per protocol kind and per role.

A schedule is constant data, not an executable machine. An executor walks a
schedule as a finite sequence, invoking a handler per step and advancing
only on success; retry and abort policy belong to the executor, not the
schedule.

The schedules are asymmetric between the two roles. An initiator signs its
proposal first, sends it, waits, and validates the acknowledger's
countersignature; an acknowledger validates the initiator's proposal before
countersigning, and never waits before replying because the triggering
message has already arrived. Both sides commit only after validating a
signature over the identical generated operation.

	+-----------+      +--------------+
	| Initiator |      | Acknowledger |
	+-----+-----+      +------+-------+
	      |                   |
	 propose/sign             |
	      +------------------>+
	      |             validate/sign
	      +<------------------+
	 validate/commit        commit
	      |                   |

Install is the exception on the initiator side: it runs a preliminary
send/wait round transporting freshly generated keys, and its second round
only sends, the counterpart answering through its own schedule.
*/
package protocol
