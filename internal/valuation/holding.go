package valuation

import (
	"slices"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/model"
)

// holding is the running state of one symbol while folding the transaction log.
// WeightedDate is a quantity-weighted mean of transaction times in epoch milliseconds.
type holding struct {
	Symbol       string
	Quantity     float64
	WeightedDate float64
	TotalCost    float64
}

// apply returns the holding after tx, leaving h untouched.
//
// The weighted date is updated with the signed quantity, so a sell moves it using the
// sell's own date.
// TODO: decide with users whether sells should leave the acquisition date of the
// remaining shares untouched; changing it shifts every reported holding period.
func (h holding) apply(tx model.Transaction, price float64) holding {
	delta := tx.SignedQuantity()
	newQuantity := h.Quantity + delta

	next := h
	if newQuantity > 0 {
		txMillis := float64(tx.Date.UnixMilli())
		next.WeightedDate = (h.WeightedDate*h.Quantity + txMillis*delta) / newQuantity
	}
	next.Quantity = newQuantity
	next.TotalCost = h.TotalCost + delta*price
	return next
}

// open reports whether the holding still has a positive position.
func (h holding) open() bool {
	return h.Quantity > 0
}

// book is the set of open holdings keyed by symbol. order records the sequence in which
// symbols were opened so that iteration is deterministic.
type book struct {
	holdings map[string]holding
	order    []string
}

func newBook() *book {
	return &book{holdings: make(map[string]holding)}
}

// set replaces the holding of its symbol. Closed holdings are removed.
func (b *book) set(h holding) {
	_, exists := b.holdings[h.Symbol]
	switch {
	case h.open() && exists:
		b.holdings[h.Symbol] = h
	case h.open():
		b.holdings[h.Symbol] = h
		b.order = append(b.order, h.Symbol)
	case exists:
		delete(b.holdings, h.Symbol)
		b.order = slices.DeleteFunc(b.order, func(s string) bool { return s == h.Symbol })
	}
}

// get returns the current holding of symbol, or a fresh zero holding.
func (b *book) get(symbol string) holding {
	if h, ok := b.holdings[symbol]; ok {
		return h
	}
	return holding{Symbol: symbol}
}

// fold replays transactions in order into a book of open holdings.
// Buys alone commute. Once sells are involved the order matters: a position that
// closes starts again from the next buy, and a sell weights by its own date.
func fold(transactions []model.Transaction, prices model.PriceMap) *book {
	b := newBook()
	for _, tx := range transactions {
		b.set(b.get(tx.Symbol).apply(tx, prices.Price(tx.Symbol)))
	}
	return b
}

// Holdings returns the net open quantity per symbol after replaying transactions.
// Closed positions are absent.
func Holdings(transactions []model.Transaction) map[string]float64 {
	b := fold(transactions, nil)
	out := make(map[string]float64, len(b.holdings))
	for symbol, h := range b.holdings {
		out[symbol] = h.Quantity
	}
	return out
}
