/*
Package bank keeps the native token balance of every account.

There is no logic in the tokens, except that the balance of any account may
not go below zero and not above the maximum amount. Deposits attached to
payable operations are moved to the contract account with MoveCoins, payouts
are returned by handlers as transfer effects and executed by the host once
the operation succeeded.
*/
package bank
