/*
Package ownership implements the optional fee regime of the payment channels.

A single ownership record may exist. It names the operator account, the fee
rate taken from every channel withdrawal and the fee balance accrued so far.
Without the record no fee is collected.

The record is updated or removed by the contract account only. Accrued fees
are paid out to the owner with the withdraw operation.
*/
package ownership
