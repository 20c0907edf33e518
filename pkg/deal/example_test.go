package deal_test

import (
	"fmt"

	"github.com/matzehuels/cardtable/pkg/deal"
	"github.com/matzehuels/cardtable/pkg/geom"
)

func ExampleDealer_Layout() {
	dealer, err := deal.New(deal.Config{
		AreaSize: geom.Vec(300, 200),
		CardSize: geom.Vec(100, 100),
	})
	if err != nil {
		panic(err)
	}

	layout, err := dealer.Layout(8)
	if err != nil {
		panic(err)
	}
	fmt.Println("grid:", layout.Stats.MinGrid)
	fmt.Println("seeded:", layout.Stats.Seeded, "extras:", layout.Stats.Extras)
	fmt.Println("placements:", layout.Len())

	_, err = dealer.Layout(5)
	fmt.Println(err)
	// Output:
	// grid: [3 2]
	// seeded: 6 extras: 2
	// placements: 8
	// INSUFFICIENT_CARDS: a 300x200 deal area needs 3x2=6 cards of size 100x100, only 5 given
}
