package orderbookv1

// Trade represents one execution between a resting (maker) order and an
// incoming (taker) order. Trades are immutable once created; the execution
// price is always the maker's price, so price improvement benefits the taker.
type Trade struct {
	ID            int64   `json:"trade_id"`
	Symbol        string  `json:"symbol"`
	MakerOrderID  string  `json:"maker_order_id"`
	TakerOrderID  string  `json:"taker_order_id"`
	Price         float64 `json:"price"`
	Quantity      float64 `json:"quantity"`
	AggressorSide Side    `json:"aggressor_side"`
	Timestamp     int64   `json:"timestamp"`
}
