/*
Package system implements the system program.

The system program owns every account that was not assigned to another
program. It creates accounts, funding them and assigning them to their
owning program, and transfers lamports between the accounts it owns.

It also funds the accounts declared in the genesis file.
*/
package system
