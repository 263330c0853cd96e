package grid

import (
	"errors"

	"github.com/maxwellito/tetrispad/internal/core"
)

// Fanout returns a Driver that forwards every call to each of drivers, in
// order. All drivers receive the call even when one fails; the errors are
// joined.
func Fanout(drivers ...Driver) Driver {
	if len(drivers) == 1 {
		return drivers[0]
	}
	return fanout(drivers)
}

type fanout []Driver

func (f fanout) ClearAll(c core.Color) error {
	var errs []error
	for _, d := range f {
		errs = append(errs, d.ClearAll(c))
	}
	return errors.Join(errs...)
}

func (f fanout) WriteBatch(writes []Write) error {
	var errs []error
	for _, d := range f {
		errs = append(errs, d.WriteBatch(writes))
	}
	return errors.Join(errs...)
}

func (f fanout) WriteOne(index int, c core.Color) error {
	var errs []error
	for _, d := range f {
		errs = append(errs, d.WriteOne(index, c))
	}
	return errors.Join(errs...)
}
