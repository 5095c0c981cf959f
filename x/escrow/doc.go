/*
Package escrow implements an atomic token for token swap.

An initializer moves the tokens to trade into a temporary token account and
gives custody of that account to an authority derived from the escrow program
id. The swap terms are recorded in an escrow account owned by the program:

	InitEscrow{amount}: the initializer offers the content of the temporary
	account for amount tokens paid into its receiving account.

	Exchange{amount}: a taker accepting the offer pays the expected amount
	and receives the content of the temporary account, which must be exactly
	amount tokens.

Exchange settles both legs in one transaction. The temporary account is
closed, the escrow account is cleared and the lamports of both go back to
the initializer.

The derived authority has no private key. The program acts on its behalf by
presenting the seed material to the runtime, which re-derives the address
under the calling program id.
*/
package escrow
