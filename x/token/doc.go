/*
Package token implements a fungible token ledger with balances and
allowances. A ledger is identified by an address allocated when the token is
created. Accounts holding an allowance can move funds on behalf of the owner
using TransferFrom.
*/
package token
