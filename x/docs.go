/*
Package x contains the extensions that build up the payment channel
engine.

Extensions implement a single area of functionality (Handler, Controller,
bucket, genesis initializer) and are combined together in the app package.
Every extension receives an Authenticator instead of reading the caller
directly, so that tests can plug in a different authentication system.

Note that exported types will be prefixed by the package, so follow
standard go naming conventions and avoid stutter. Use eg. `bank.Controller`
in place of `bank.BankController`.
*/
package x
