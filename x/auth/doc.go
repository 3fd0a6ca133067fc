/*
Package auth identifies the caller of an operation and gates privileged
operations.

The host puts the calling account into the context (paychan.WithCaller)
and Authenticator exposes it to handlers. Privileged operations are allowed
only for the contract account, configured in the genesis:

	"conf": {
	  "auth": {"contract": "paychan.near"}
	}
*/
package auth
