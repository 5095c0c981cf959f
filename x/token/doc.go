/*
Package token implements the token program, the service that keeps token
balances and moves them on behalf of their owners.

It is a subset of the SPL token program: mints, token accounts, transfers,
authority changes, minting and closing of token accounts. Instruction tags
follow the SPL numbering.

A token account, like any other account, is created by the system program
and assigned to the token program before it is initialized.
*/
package token
