/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each package owns a single configuration entity stored under the "_c:<pkg>"
key. Configuration is loaded from the genesis file ("conf" section) and
validated before it is written.
*/
package gconf
