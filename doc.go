/*

Package paychan defines interfaces used throughout the payment channel engine,
such as: storage, messages, handlers, deferred effects and queries.
It also contains the value types shared by all extensions: amounts, fee
fractions, account identifiers and timestamps.
Look into this package to get a brief overview of design decisions made around
interfaces and extension building blocks. Channel logic lives in x/channel, fee
accounting in x/ownership and native balances in x/bank.

*/

package paychan
