package entities

// CryptoPrices are USD spot prices for the coins shown next to the rate board.
type CryptoPrices struct {
	Bitcoin          float64 `json:"bitcoin"`
	Ethereum         float64 `json:"ethereum"`
	RetrievedAtLocal int64   `json:"retrieved_at_local"` // epoch milliseconds
}
