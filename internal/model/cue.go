package model

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/filterql/internal/filterir"
)

// compileCUE evaluates a CUE document and returns its root as an Element.
func compileCUE(data []byte, filename string) (filterir.Element, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}
	return cueElement{v: v}, nil
}

// formatCUEError keeps the first error and its source position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return filterir.NewConfigError("", "%v", err)
	}

	first := errs[0]
	positions := cueerrors.Positions(first)
	if len(positions) > 0 {
		return filterir.NewConfigError(positions[0].String(), "%v", first)
	}
	return filterir.NewConfigError("", "%v", first)
}

// cueElement adapts a cue.Value to filterir.Element. Struct fields are
// visited in declaration order.
type cueElement struct {
	v cue.Value
}

func (e cueElement) Kind() filterir.ElementKind {
	switch e.v.IncompleteKind() {
	case cue.StructKind:
		return filterir.ObjectElement
	case cue.ListKind:
		return filterir.ListElement
	default:
		return filterir.ScalarElement
	}
}

func (e cueElement) Entries(fn func(string, filterir.Element) bool) {
	iter, err := e.v.Fields()
	if err != nil {
		return
	}
	for iter.Next() {
		if !fn(iter.Label(), cueElement{v: iter.Value()}) {
			return
		}
	}
}

func (e cueElement) Items(fn func(filterir.Element) bool) {
	iter, err := e.v.List()
	if err != nil {
		return
	}
	for iter.Next() {
		if !fn(cueElement{v: iter.Value()}) {
			return
		}
	}
}

func (e cueElement) Scalar() (any, error) {
	switch e.v.Kind() {
	case cue.NullKind:
		return nil, nil
	case cue.BoolKind:
		return e.v.Bool()
	case cue.IntKind:
		return e.v.Int64()
	case cue.FloatKind:
		return e.v.Float64()
	case cue.StringKind:
		return e.v.String()
	default:
		return nil, fmt.Errorf("not a concrete scalar: %s", e.Describe())
	}
}

func (e cueElement) Describe() string {
	switch e.Kind() {
	case filterir.ObjectElement:
		return "object"
	case filterir.ListElement:
		return "list"
	default:
		s := fmt.Sprint(e.v)
		if len(s) > 40 {
			s = s[:40] + "..."
		}
		return s
	}
}
