/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps a single configuration object stored under the
"_c:<package name>" key. The configuration is created from the genesis file
and can be later updated by its owner. Fields tagged `gconf:"immutable"`
keep the value they were created with.
*/
package gconf
