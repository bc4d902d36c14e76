package custody

import "errors"

var (
	ErrUnknownAccount      = errors.New("account not found in ledger")
	ErrUnknownMint         = errors.New("mint not found in ledger")
	ErrUnauthorized        = errors.New("authority does not control the account or mint")
	ErrInsufficientBalance = errors.New("account balance below requested amount")
	ErrSupplyUnderflow     = errors.New("burn exceeds recorded supply")
	ErrMintMismatch        = errors.New("account holds a different mint")
	ErrAccountExists       = errors.New("account already exists")
	ErrMintExists          = errors.New("mint already exists")
	ErrZeroAmount          = errors.New("amount must be positive")
)
