package internal

// Operator describes how an operator binds in expressions.
type Operator struct {
	// Prec is the operator's precedence. Higher is more binding.
	Prec int
	// Unary is true for prefix operators.
	Unary bool
}

// negate is the operator name of unary minus, distinguishing it from binary
// subtraction after disambiguation.
const negate = "neg"

// OpTable maps operator names to their precedence. All binary operators are
// left-associative.
var OpTable = map[string]Operator{
	"or":  {1, false},
	"and": {2, false},
	"|":   {3, false},
	"^":   {4, false},
	"&":   {5, false},
	"==":  {6, false},
	"!=":  {6, false},
	"<":   {7, false},
	"<=":  {7, false},
	">":   {7, false},
	">=":  {7, false},
	"<<":  {8, false},
	">>":  {8, false},
	"+":   {9, false},
	"-":   {9, false},
	"*":   {10, false},
	"/":   {10, false},
	"%":   {10, false},
	"not": {11, true},
	"neg": {12, true},
	"new": {13, true},
	".":   {14, false},
}
