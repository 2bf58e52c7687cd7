package wallet

import "time"

// Wallet is a per-subject token balance for the study app's economy.
type Wallet struct {
	Sub       string    `bson:"sub" json:"sub"`
	Balance   int64     `bson:"balance" json:"balance"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
