/*
Package app contains the pieces that turn extensions into a running state
machine: a Router dispatching messages to handlers, a decorator chain, a
CommitStore keeping separate check and deliver caches and a BaseApp
implementing abci.Application on top of them.
*/
package app
