package ledger

import "errors"

// Error kinds surfaced by the ledger. Handlers map these to HTTP statuses;
// only ErrStoreUnavailable is ever produced by retrying.
var (
	ErrNotFound            = errors.New("miner not found")                   // Lookup miss
	ErrDuplicateKey        = errors.New("pubkey already registered")        // Registration conflict
	ErrInsufficientBalance = errors.New("debit exceeds available balance")  // Over-debit, never retried
	ErrInvalidPubkey       = errors.New("invalid pubkey")                   // Malformed public key
	ErrStoreUnavailable    = errors.New("store unavailable")                // Persistence failure after retries
)

// IsDomainError reports whether err is a caller error that must not be
// retried automatically.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicateKey) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInvalidPubkey)
}
