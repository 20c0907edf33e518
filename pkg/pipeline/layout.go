package pipeline

import (
	"github.com/matzehuels/cardtable/pkg/deal"
)

// Deal computes the layout for opts without caching.
func Deal(opts Options) (*deal.Layout, error) {
	d, err := newDealer(opts)
	if err != nil {
		return nil, err
	}
	return d.Layout(opts.Cards)
}

func newDealer(opts Options) (*deal.Dealer, error) {
	return deal.New(opts.Deal, deal.WithLogger(opts.Logger))
}
