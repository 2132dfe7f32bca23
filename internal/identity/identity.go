package identity

import "github.com/google/uuid"

// ID is an opaque handle for a wallet, an owner, or a deployed ledger.
// The rest of the system never inspects its contents; two IDs are either
// equal or they are not.
type ID string

// New produces a fresh globally unique identity.
func New() ID {
	return ID(uuid.NewString())
}

// NewBatch produces n fresh unique identities.
func NewBatch(n int) []ID {
	ids := make([]ID, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, New())
	}
	return ids
}
