package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		label string
		want  Bucket
	}{
		{"DINHEIRO", BucketDinheiro},
		{"dinheiro", BucketDinheiro},
		{"PIX", BucketPix},
		{"Pix ", BucketPix},
		{"CREDITO", BucketCredito},
		{"Cartão de Crédito", BucketCredito},
		{"DEBITO", BucketDebito},
		{"Cartão de Débito", BucketDebito},
		{"VALE REFEIÇÃO", BucketOutros},
		{"", BucketOutros},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.label), "label %q", tc.label)
	}
}

func TestParseAllocationSimples(t *testing.T) {
	b := ParseAllocation("DINHEIRO", decimal.NewFromInt(100), nil)

	assert.True(t, b.Dinheiro.Equal(decimal.NewFromInt(100)))
	assert.True(t, b.Pix.IsZero())
	assert.True(t, b.Total().Equal(decimal.NewFromInt(100)))
	assert.False(t, b.Inconsistent)
}

func TestParseAllocationComposto(t *testing.T) {
	parcial := decimal.NewFromInt(40)
	b := ParseAllocation("DINHEIRO + PIX", decimal.NewFromInt(100), &parcial)

	assert.True(t, b.Dinheiro.Equal(decimal.NewFromInt(40)))
	assert.True(t, b.Pix.Equal(decimal.NewFromInt(60)))
	assert.True(t, b.Total().Equal(decimal.NewFromInt(100)))
	assert.False(t, b.Inconsistent)
}

func TestParseAllocationCompostoSemParcial(t *testing.T) {
	// Missing split amount: first leg gets zero, second the full total.
	b := ParseAllocation("DINHEIRO + PIX", decimal.NewFromInt(80), nil)

	assert.True(t, b.Dinheiro.IsZero())
	assert.True(t, b.Pix.Equal(decimal.NewFromInt(80)))
	assert.False(t, b.Inconsistent)
}

func TestParseAllocationRestanteNegativo(t *testing.T) {
	// Split amount exceeds the order total: the negative remainder is
	// clamped to zero and the breakdown is flagged, never propagated.
	parcial := decimal.NewFromInt(120)
	b := ParseAllocation("DINHEIRO + PIX", decimal.NewFromInt(100), &parcial)

	assert.True(t, b.Dinheiro.Equal(decimal.NewFromInt(120)))
	assert.True(t, b.Pix.IsZero())
	assert.True(t, b.Inconsistent)
}

func TestParseAllocationDesconhecido(t *testing.T) {
	b := ParseAllocation("CHEQUE", decimal.NewFromInt(55), nil)

	assert.True(t, b.Outros.Equal(decimal.NewFromInt(55)))
	assert.True(t, b.Dinheiro.IsZero())
}

func TestBreakdownMerge(t *testing.T) {
	var total Breakdown
	total.Add(BucketDinheiro, decimal.NewFromInt(10))

	var outro Breakdown
	outro.Add(BucketPix, decimal.NewFromInt(5))
	outro.Inconsistent = true

	total.Merge(outro)

	assert.True(t, total.Dinheiro.Equal(decimal.NewFromInt(10)))
	assert.True(t, total.Pix.Equal(decimal.NewFromInt(5)))
	assert.True(t, total.Total().Equal(decimal.NewFromInt(15)))
	assert.True(t, total.Inconsistent)
}
