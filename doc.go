/*
Package tokenswap defines the interfaces and primitives shared by the ledger
runtime and the programs it hosts: storage, addresses, accounts, program
derived authorities, instructions and the rent sysvar.

The runtime (package app) owns the state and executes transactions. Programs
(packages under x/) only ever see the accounts passed to an instruction and an
Invoker capability for calling other programs. This keeps every program
testable without a running node.
*/
package tokenswap
