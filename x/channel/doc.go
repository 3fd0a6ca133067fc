/*
Package channel implements unidirectional payment channels.

A sender escrows funds for a receiver under a channel id. Payments are made
off the chain: the sender signs cumulative claims and hands them to the
receiver. Only the settlement touches the state. The receiver withdraws with
the latest claim, and a fee is taken from every withdrawal if an owner is
configured.

A channel is closed either cooperatively, with a zero spend claim signed by
the receiver, or unilaterally by the sender. A unilateral close can be
finished only after HardCloseTimeout, which leaves the receiver time to
withdraw.

Closed channels are never removed. The record is reset to its zero value and
the id stays taken, so old claims cannot be replayed against a new channel
with the same id.
*/
package channel
