package marketdatav1

import (
	orderbookv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/orderbook/v1"
)

// BBO is the best bid and offer snapshot published after every submission.
// Bid and Ask are nil when the respective side of the book is empty.
type BBO struct {
	Type      string   `json:"type"` // always "bbo"
	Symbol    string   `json:"symbol"`
	Bid       *float64 `json:"bid"`
	Ask       *float64 `json:"ask"`
	Timestamp int64    `json:"timestamp"`
}

// DepthLevel is one aggregated price level of a depth snapshot.
type DepthLevel struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// Depth is the top-N aggregated book snapshot, bids descending and asks
// ascending, published after every submission.
type Depth struct {
	Type      string       `json:"type"` // always "l2_update"
	Symbol    string       `json:"symbol"`
	Bids      []DepthLevel `json:"bids"`
	Asks      []DepthLevel `json:"asks"`
	Timestamp int64        `json:"timestamp"`
}

// NewBBO builds a BBO snapshot from the book's best prices.
func NewBBO(symbol string, bid, ask float64, hasBid, hasAsk bool, ts int64) BBO {
	bbo := BBO{
		Type:      "bbo",
		Symbol:    symbol,
		Timestamp: ts,
	}
	if hasBid {
		bbo.Bid = &bid
	}
	if hasAsk {
		bbo.Ask = &ask
	}
	return bbo
}

// TradeEvent is the wire shape of an execution on the market-data channels.
type TradeEvent = orderbookv1.Trade
