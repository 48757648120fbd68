package payment

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Separator joins the two legs of a composite payment label
// (e.g. "DINHEIRO + PIX").
const Separator = "+"

// Breakdown accumulates amounts per bucket. The zero value is ready to use.
// Inconsistent is set when a composite label's split math produced a negative
// remainder; the remainder is clamped to zero instead of propagating a
// negative bucket, and the caller is expected to log the occurrence.
type Breakdown struct {
	Dinheiro     decimal.Decimal
	Pix          decimal.Decimal
	Credito      decimal.Decimal
	Debito       decimal.Decimal
	Outros       decimal.Decimal
	Inconsistent bool
}

// Add credits amount to the given bucket.
func (b *Breakdown) Add(bucket Bucket, amount decimal.Decimal) {
	switch bucket {
	case BucketDinheiro:
		b.Dinheiro = b.Dinheiro.Add(amount)
	case BucketPix:
		b.Pix = b.Pix.Add(amount)
	case BucketCredito:
		b.Credito = b.Credito.Add(amount)
	case BucketDebito:
		b.Debito = b.Debito.Add(amount)
	default:
		b.Outros = b.Outros.Add(amount)
	}
}

// Merge folds other into b bucket-wise.
func (b *Breakdown) Merge(other Breakdown) {
	b.Dinheiro = b.Dinheiro.Add(other.Dinheiro)
	b.Pix = b.Pix.Add(other.Pix)
	b.Credito = b.Credito.Add(other.Credito)
	b.Debito = b.Debito.Add(other.Debito)
	b.Outros = b.Outros.Add(other.Outros)
	b.Inconsistent = b.Inconsistent || other.Inconsistent
}

// Total is the sum of all buckets.
func (b Breakdown) Total() decimal.Decimal {
	return b.Dinheiro.Add(b.Pix).Add(b.Credito).Add(b.Debito).Add(b.Outros)
}

// ParseAllocation distributes total across buckets according to label.
//
// A plain label assigns the full total to its classified bucket. A composite
// label ("A + B") assigns split1 to the first leg and total−split1 to the
// second; each leg is classified independently. When split1 is nil on a
// composite label the first leg gets zero. A negative second-leg remainder
// (split1 > total, malformed capture data) is clamped to zero and the
// breakdown is flagged Inconsistent.
func ParseAllocation(label string, total decimal.Decimal, split1 *decimal.Decimal) Breakdown {
	var out Breakdown

	if !strings.Contains(label, Separator) {
		out.Add(Classify(label), total)
		return out
	}

	parts := strings.SplitN(label, Separator, 2)
	first := strings.TrimSpace(parts[0])
	second := strings.TrimSpace(parts[1])

	firstShare := decimal.Zero
	if split1 != nil {
		firstShare = *split1
	}
	secondShare := total.Sub(firstShare)
	if secondShare.IsNegative() {
		secondShare = decimal.Zero
		out.Inconsistent = true
	}

	out.Add(Classify(first), firstShare)
	out.Add(Classify(second), secondShare)
	return out
}
