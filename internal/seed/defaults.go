package seed

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/vihar/internal/model"
)

//go:embed seed.cue
var seedCUE string

// Defaults is the content written on first run.
type Defaults struct {
	Vihars []model.Vihar `json:"vihars"`
	Polls  []model.Poll  `json:"polls"`
}

// Clone returns a deep copy so callers may filter or mutate freely.
func (d Defaults) Clone() Defaults {
	out := Defaults{
		Vihars: make([]model.Vihar, 0, len(d.Vihars)),
		Polls:  make([]model.Poll, 0, len(d.Polls)),
	}
	for _, v := range d.Vihars {
		out.Vihars = append(out.Vihars, v.Clone())
	}
	for _, p := range d.Polls {
		out.Polls = append(out.Polls, p.Clone())
	}
	return out
}

var builtin = sync.OnceValues(func() (Defaults, error) {
	return Parse("seed.cue", seedCUE)
})

// Builtin returns the embedded default content.
func Builtin() (Defaults, error) {
	d, err := builtin()
	if err != nil {
		return Defaults{}, err
	}
	return d.Clone(), nil
}

// Parse compiles CUE source that declares vihars and polls against the
// seed schema and decodes the concrete result.
func Parse(filename, src string) (Defaults, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return Defaults{}, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Defaults{}, formatCUEError(err)
	}

	var d Defaults
	if err := v.LookupPath(cue.ParsePath("vihars")).Decode(&d.Vihars); err != nil {
		return Defaults{}, fmt.Errorf("decode vihars: %w", formatCUEError(err))
	}
	if err := v.LookupPath(cue.ParsePath("polls")).Decode(&d.Polls); err != nil {
		return Defaults{}, fmt.Errorf("decode polls: %w", formatCUEError(err))
	}
	return d, nil
}

// formatCUEError keeps the first error and its source position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if pos := errors.Positions(first); len(pos) > 0 && pos[0].IsValid() {
		return fmt.Errorf("%s:%d:%d: %w", pos[0].Filename(), pos[0].Line(), pos[0].Column(), first)
	}
	return first
}
