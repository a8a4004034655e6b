package scene

import "fmt"

// ValidationError is a problem that makes the scene unusable.
type ValidationError struct {
	Subject string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Subject, e.Message)
}

// ValidationWarning is advisory.
type ValidationWarning struct {
	Subject string
	Message string
}

// Validate checks class geometry and grids. Errors block a run; warnings
// point at setups that are legal but will never snap.
func Validate(s *Scene) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	for _, c := range s.Classes() {
		errs = append(errs, validateSize(c)...)

		g, ok := c.Grid()
		if !ok {
			continue
		}
		if err := g.Validate(); err != nil {
			errs = append(errs, ValidationError{Subject: c.name, Message: err.Error()})
		}
		if g.Counts[0] <= 0 && g.Counts[1] <= 0 && g.Counts[2] <= 0 {
			warnings = append(warnings, ValidationWarning{
				Subject: c.name,
				Message: "slot grid has no enabled axis; nothing will snap to or from this class",
			})
		}
	}

	if _, err := s.Mover(); err != nil {
		warnings = append(warnings, ValidationWarning{
			Subject: "hologram",
			Message: "no hologram class selected; probes will not be replayed",
		})
	}

	return errs, warnings
}

// validateSize checks that every class box has positive X, Y, Z.
func validateSize(c *Class) []ValidationError {
	var errs []ValidationError
	dims := []struct {
		axis string
		v    float64
	}{{"X", c.size.X}, {"Y", c.size.Y}, {"Z", c.size.Z}}

	for _, d := range dims {
		if d.v <= 0 {
			errs = append(errs, ValidationError{
				Subject: c.name,
				Message: fmt.Sprintf("size %s is %.4f, must be positive", d.axis, d.v),
			})
		}
	}
	return errs
}
