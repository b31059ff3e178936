package snapshotv1

// Snapshot represents a snapshot of the order book at a specific point in time.
type Snapshot struct {
	OrderOffset       int64             `json:"orderOffset"`
	OrderBookSnapshot OrderBookSnapshot `json:"orderBookSnapshot"`
}

// OrderBookSnapshot represents the state of the order book at a specific point in time.
type OrderBookSnapshot struct {
	Orders        []BookOrder `json:"orders"`
	ArrivalSeq    int64       `json:"arrivalSeq"`
	TradeSequence int64       `json:"tradeSequence"`
}

// BookOrder represents a resting order in the order book with its details.
type BookOrder struct {
	OrderID   string  `json:"orderID"`
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"`
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity"`
	Remaining float64 `json:"remaining"`
	Sequence  int64   `json:"sequence"`
	Timestamp int64   `json:"timestamp"`
}
