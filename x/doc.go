/*
Package x contains the building blocks shared by all extensions.

Extensions live in subpackages of x. Each of them exposes its models, a
controller used by other extensions and the message handlers that are
registered with the application router.
*/
package x
