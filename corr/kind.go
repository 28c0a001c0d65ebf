package corr

import (
	"strings"

	"github.com/grailbio/base/errors"
)

// Kind is a set of coefficient kinds.
type Kind uint8

const (
	// Pearson is the mean-centred correlation coefficient.
	Pearson Kind = 1 << iota
	// Signal is the uncentred correlation coefficient.
	Signal

	// Both requests Pearson and Signal.
	Both = Pearson | Signal
)

// Has returns whether every kind of o is in k.
func (k Kind) Has(o Kind) bool {
	return k&o == o
}

// String implements fmt.Stringer, using the notation accepted by ParseKind.
func (k Kind) String() string {
	var names []string
	if k.Has(Pearson) {
		names = append(names, "P")
	}
	if k.Has(Signal) {
		names = append(names, "S")
	}
	return strings.Join(names, ",")
}

// ParseKind parses a comma-separated combination of "P" (Pearson) and "S"
// (Signal), case-insensitively.
func ParseKind(s string) (Kind, error) {
	var k Kind
	for _, field := range strings.Split(s, ",") {
		switch strings.ToUpper(strings.TrimSpace(field)) {
		case "P":
			k |= Pearson
		case "S":
			k |= Signal
		default:
			return 0, errors.E(errors.Invalid, "corr.ParseKind: unknown coefficient", field, "in", s)
		}
	}
	return k, nil
}

// Output selects which coefficients are reported.
type Output uint8

const (
	// Local requests one coefficient per chromosome.
	Local Output = 1 << iota
	// Total requests the genome-wide coefficient.
	Total
)

// Has returns whether every selector of o is in out.
func (out Output) Has(o Output) bool {
	return out&o == o
}

// ParseOutput parses a comma-separated combination of "IND" (Local) and "TOT"
// (Total), case-insensitively.
func ParseOutput(s string) (Output, error) {
	var out Output
	for _, field := range strings.Split(s, ",") {
		switch strings.ToUpper(strings.TrimSpace(field)) {
		case "IND":
			out |= Local
		case "TOT":
			out |= Total
		default:
			return 0, errors.E(errors.Invalid, "corr.ParseOutput: unknown selector", field, "in", s)
		}
	}
	return out, nil
}
