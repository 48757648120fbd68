// Package payment classifies free-form payment method labels into the fixed
// set of buckets the cash drawer reconciles against. Labels come from the
// order capture UI and are not normalized at the source, so classification
// is substring-based and tolerant of casing and accents.
package payment

import "strings"

// Bucket is one of the fixed drawer categories. Every amount that enters a
// cash session lands in exactly one bucket; anything unrecognized goes to
// BucketOutros so money is never silently dropped into a wrong category.
type Bucket string

const (
	BucketDinheiro Bucket = "dinheiro"
	BucketPix      Bucket = "pix"
	BucketCredito  Bucket = "credito"
	BucketDebito   Bucket = "debito"
	BucketOutros   Bucket = "outros"
)

// accentFold maps the accented characters that appear in real labels
// ("Crédito", "Débito", "Cartão") to their ASCII forms.
var accentFold = strings.NewReplacer(
	"á", "a", "â", "a", "ã", "a", "à", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u",
	"ç", "c",
)

// Classify maps a single (non-composite) label to its bucket.
// Matching is case- and accent-insensitive substring search, so
// "Cartão de Crédito" and "CREDITO" both land in BucketCredito.
func Classify(label string) Bucket {
	norm := accentFold.Replace(strings.ToLower(strings.TrimSpace(label)))
	switch {
	case strings.Contains(norm, "dinheiro"):
		return BucketDinheiro
	case strings.Contains(norm, "pix"):
		return BucketPix
	case strings.Contains(norm, "credito"):
		return BucketCredito
	case strings.Contains(norm, "debito"):
		return BucketDebito
	default:
		return BucketOutros
	}
}

// Valid reports whether b is one of the declared buckets.
func Valid(b Bucket) bool {
	switch b {
	case BucketDinheiro, BucketPix, BucketCredito, BucketDebito, BucketOutros:
		return true
	}
	return false
}
