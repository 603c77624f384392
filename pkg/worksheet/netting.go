package worksheet

// Capital gain/loss categories, ordered by how favorably each is taxed. The
// netting loop consumes them from the back so that losses soak up the most
// expensive gain category first.
const (
	CategoryShortTerm       = "short_term"
	CategoryLongTerm        = "long_term"
	CategoryUnrecaptured250 = "unrecaptured_1250"
	CategoryCollectibles    = "collectibles"
)

var nettingOrder = []string{
	CategoryShortTerm,
	CategoryLongTerm,
	CategoryUnrecaptured250,
	CategoryCollectibles,
}

// GainLoss allocates one transaction across the categories that can apply to
// it. Depreciation recapture in particular splits a single sale between
// ordinary income and several capital categories. Gains are positive, losses
// negative.
type GainLoss struct {
	Ordinary         float64 `json:"ordinary" yaml:"ordinary"`
	ShortTerm        float64 `json:"short_term" yaml:"short_term"`
	LongTerm         float64 `json:"long_term" yaml:"long_term"`
	Unrecaptured1250 float64 `json:"unrecaptured_1250" yaml:"unrecaptured_1250"`
	Collectibles     float64 `json:"collectibles" yaml:"collectibles"`
}

// Total sums every category of the item, ordinary income included.
func (g GainLoss) Total() float64 {
	return g.Ordinary + g.ShortTerm + g.LongTerm + g.Unrecaptured1250 + g.Collectibles
}

func (g GainLoss) category(name string) float64 {
	switch name {
	case CategoryShortTerm:
		return g.ShortTerm
	case CategoryLongTerm:
		return g.LongTerm
	case CategoryUnrecaptured250:
		return g.Unrecaptured1250
	case CategoryCollectibles:
		return g.Collectibles
	}
	return 0
}

// NettingStep records one cross-category offset performed during netting.
type NettingStep struct {
	From   string  `json:"from"`
	Into   string  `json:"into"`
	Amount float64 `json:"amount"`
}

// NettingResult is the netted position: the per-category leftovers, the
// combined capital amount (gain positive, loss negative), and the offsets
// taken to get there. Ordinary income passes through untouched.
type NettingResult struct {
	Net      GainLoss      `json:"net"`
	Combined float64       `json:"combined"`
	Steps    []NettingStep `json:"steps,omitempty"`
}

type bucket struct {
	name   string
	amount float64
}

// NetCapitalGains nets the given items. Within each category the items simply
// sum; across categories a net loss offsets a net gain (and vice versa),
// walking the categories from least to most favorably taxed so the most
// expensive gain is negated first. Losses offset fully before any leftover is
// reported.
func NetCapitalGains(items ...GainLoss) NettingResult {
	var ordinary float64
	stack := make([]*bucket, len(nettingOrder))
	for i, name := range nettingOrder {
		stack[i] = &bucket{name: name}
	}
	for _, item := range items {
		ordinary += item.Ordinary
		for _, b := range stack {
			b.amount += item.category(b.name)
		}
	}

	var steps []NettingStep
	var remaining []*bucket
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		kept := remaining[:0]
		for _, settled := range remaining {
			if oppositeSigns(settled.amount, next.amount) {
				moved := offset(settled, next)
				steps = append(steps, moved)
			}
			if settled.amount != 0 {
				kept = append(kept, settled)
			}
		}
		remaining = append(kept, next)
	}

	result := NettingResult{Net: GainLoss{Ordinary: ordinary}, Steps: steps}
	for _, b := range remaining {
		switch b.name {
		case CategoryShortTerm:
			result.Net.ShortTerm = b.amount
		case CategoryLongTerm:
			result.Net.LongTerm = b.amount
		case CategoryUnrecaptured250:
			result.Net.Unrecaptured1250 = b.amount
		case CategoryCollectibles:
			result.Net.Collectibles = b.amount
		}
		result.Combined += b.amount
	}
	return result
}

// offset nets two opposite-signed buckets. The leftover stays in whichever
// bucket's sign survives; the other empties.
func offset(a, b *bucket) NettingStep {
	pos, neg := a, b
	if b.amount > 0 {
		pos, neg = b, a
	}
	moved := min(pos.amount, -neg.amount)

	netted := pos.amount + neg.amount
	if netted > 0 {
		pos.amount, neg.amount = netted, 0
	} else {
		pos.amount, neg.amount = 0, netted
	}
	return NettingStep{From: neg.name, Into: pos.name, Amount: moved}
}

// oppositeSigns reports whether two amounts can be netted at all. Two gains
// (or two losses) cannot; a zero bucket nets with nothing.
func oppositeSigns(a, b float64) bool {
	return (a > 0 && b < 0) || (a < 0 && b > 0)
}
