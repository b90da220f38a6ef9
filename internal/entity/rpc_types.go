package entity

// Response shapes of the Solana JSON-RPC node API, reduced to the methods the
// on-chain strategy needs.

// RPCTokenAmount is the jsonParsed token amount of an SPL token account.
// Amount is the raw integer balance as a decimal string.
type RPCTokenAmount struct {
	Amount   string `json:"amount"`
	Decimals uint8  `json:"decimals"`
}

// RPCTokenAccount is one jsonParsed entry of getTokenAccountsByOwner.
type RPCTokenAccount struct {
	Mint   string
	Owner  string
	Amount RPCTokenAmount
}

// RPCParsedMint is the jsonParsed account info of a mint account.
type RPCParsedMint struct {
	Decimals uint8  `json:"decimals"`
	Supply   string `json:"supply"`
}
