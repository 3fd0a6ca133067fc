/*
Package client keeps the off chain side of payment channels.

The sender uses it to open channels with a fresh signing key and to sign
cumulative claims for every payment. The receiver uses it to verify incoming
claims, keep the best one for withdrawal and sign the voucher that closes a
channel cooperatively. Channel records are kept as JSON files, one per
channel.
*/
package client
