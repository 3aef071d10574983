package ledger

import "regexp"

// Pubkeys are base58-encoded 32-byte keys, which encode to 32-44 characters.
// The column is VARCHAR(44), so anything longer is rejected outright.
var pubkeyPattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`) // Base58 alphabet, no 0, O, I, l

// ValidatePubkey checks that pubkey is a plausible base58 public key
func ValidatePubkey(pubkey string) error {
	if !pubkeyPattern.MatchString(pubkey) {
		return ErrInvalidPubkey // Wrong length or character outside the base58 alphabet
	}
	return nil
}
