/*
Package errors implements the error types used by all custody packages.

Reuse errors declared in this package whenever possible and register custom
package errors only when necessary, using Register(code, description).
Each code is unique; extensions reserve their own range:

	100~199  orm
	300~399  x/token
	400~499  x/avatar
	500~599  x/vault
	600~699  x/registry
	700~799  x/sigs

The code is returned to the client (ABCIInfo) so that a caller can tell an
allowance failure from an authorization failure from an invariant
violation without parsing the message.

Create errors with errors.Wrap(ErrXyz, "...") at the
point of failure so that a stacktrace is attached. Format with %+v to print
it.
*/
package errors
