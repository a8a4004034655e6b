package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/slotsnap/pkg/pose"
	"github.com/chazu/slotsnap/pkg/scene"
	"github.com/chazu/slotsnap/pkg/slot"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene script source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: rotation-step -> rotation_step
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpRot wraps a pose.Rotator.
type sexpRot struct {
	rot pose.Rotator
}

func (r *sexpRot) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(rot %g %g %g)", r.rot.Pitch, r.rot.Yaw, r.rot.Roll)
}
func (r *sexpRot) Type() *zygo.RegisteredType { return nil }

// sexpCounts wraps slot counts so `slots` can feed `defclass`.
type sexpCounts struct {
	counts slot.Counts
}

func (c *sexpCounts) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(slots %d %d %d)", c.counts[0], c.counts[1], c.counts[2])
}
func (c *sexpCounts) Type() *zygo.RegisteredType { return nil }

// sexpClass wraps a registered class.
type sexpClass struct {
	class *scene.Class
}

func (c *sexpClass) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(class %q)", c.class.Name())
}
func (c *sexpClass) Type() *zygo.RegisteredType { return nil }

// sexpActor refers to a spawned actor by name. Steps resolve the name when
// they are replayed, so a reference may outlive the actor.
type sexpActor struct {
	name string
}

func (a *sexpActor) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(actor %q)", a.name)
}
func (a *sexpActor) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok && !strings.HasPrefix(str.S, kwPrefix) {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a v3.Vec from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toRot extracts a pose.Rotator from a sexpRot.
func toRot(s zygo.Sexp) (pose.Rotator, error) {
	if r, ok := s.(*sexpRot); ok {
		return r.rot, nil
	}
	return pose.Rotator{}, fmt.Errorf("expected rot, got %T (%s)", s, s.SexpString(nil))
}

// toCounts extracts slot counts from a sexpCounts.
func toCounts(s zygo.Sexp) (slot.Counts, error) {
	if c, ok := s.(*sexpCounts); ok {
		return c.counts, nil
	}
	return slot.Counts{}, fmt.Errorf("expected slots, got %T (%s)", s, s.SexpString(nil))
}

// toClass extracts a class from a sexpClass.
func toClass(s zygo.Sexp) (*scene.Class, error) {
	if c, ok := s.(*sexpClass); ok {
		return c.class, nil
	}
	return nil, fmt.Errorf("expected class, got %T (%s)", s, s.SexpString(nil))
}

// toActorName accepts an actor reference or a plain name string.
func toActorName(s zygo.Sexp) (string, error) {
	switch v := s.(type) {
	case *sexpActor:
		return v.name, nil
	case *zygo.SexpStr:
		return toString(v)
	}
	return "", fmt.Errorf("expected actor, got %T (%s)", s, s.SexpString(nil))
}

// numbers reads exactly three numeric arguments.
func numbers(fn string, args []zygo.Sexp, labels [3]string) ([3]float64, error) {
	var out [3]float64
	if len(args) != 3 {
		return out, fmt.Errorf("%s requires exactly 3 arguments, got %d", fn, len(args))
	}
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return out, fmt.Errorf("%s: %s: %w", fn, labels[i], err)
		}
		out[i] = f
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all scene DSL builtins into a zygomys environment.
// The builtins operate on the provided Scene, populating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sc *scene.Scene) {
	anon := 0

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := numbers("vec3", args, [3]string{"x", "y", "z"})
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{vec: v3.Vec{X: n[0], Y: n[1], Z: n[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (rot pitch yaw roll), degrees
	// -----------------------------------------------------------------------
	env.AddFunction("rot", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := numbers("rot", args, [3]string{"pitch", "yaw", "roll"})
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpRot{rot: pose.Rotator{Pitch: n[0], Yaw: n[1], Roll: n[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (slots 2 2 0)
	// -----------------------------------------------------------------------
	env.AddFunction("slots", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("slots requires exactly 3 arguments, got %d", len(args))
		}
		var c slot.Counts
		for i, a := range args {
			n, err := toInt(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("slots: %s: %w", slot.Axis(i), err)
			}
			c[i] = n
		}
		return &sexpCounts{counts: c}, nil
	})

	// -----------------------------------------------------------------------
	// (defclass "shelf" :size (vec3 100 50 50) :slots (slots 2 2 2)
	//           :center (vec3 0 0 0) :extent (vec3 50 25 25)
	//           :rotation-step 90 :pitch 25)
	// -----------------------------------------------------------------------
	env.AddFunction("defclass", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("defclass requires a name argument")
		}
		className, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defclass: name: %w", err)
		}

		v, ok := pa.kw["size"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("defclass %q: :size is required", className)
		}
		size, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defclass %q: size: %w", className, err)
		}

		var c *scene.Class
		if v, ok := pa.kw["slots"]; ok {
			params, err := gridArgs(pa, size)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defclass %q: %w", className, err)
			}
			params.Counts, err = toCounts(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defclass %q: slots: %w", className, err)
			}
			if err := params.Validate(); err != nil {
				return zygo.SexpNull, fmt.Errorf("defclass %q: %w", className, err)
			}
			c = scene.NewSlottedClass(className, size, params)
		} else {
			c = scene.NewClass(className, size)
		}

		if err := sc.AddClass(c); err != nil {
			return zygo.SexpNull, fmt.Errorf("defclass: %w", err)
		}
		return &sexpClass{class: c}, nil
	})

	// -----------------------------------------------------------------------
	// (class "shelf")
	// -----------------------------------------------------------------------
	env.AddFunction("class", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("class requires a name argument")
		}
		className, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("class: name: %w", err)
		}
		c, err := sc.Class(className)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("class: %w", err)
		}
		return &sexpClass{class: c}, nil
	})

	// -----------------------------------------------------------------------
	// (spawn shelf "left" :at (vec3 0 0 0) :rotation (rot 0 90 0))
	// -----------------------------------------------------------------------
	env.AddFunction("spawn", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("spawn requires a class argument")
		}
		c, err := toClass(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("spawn: %w", err)
		}

		var actorName string
		if len(pa.positional) > 1 {
			actorName, err = toString(pa.positional[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("spawn: name: %w", err)
			}
		} else {
			anon++
			actorName = fmt.Sprintf("%s_%d", c.Name(), anon)
		}

		var p pose.Pose
		if v, ok := pa.kw["at"]; ok {
			p.Position, err = toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("spawn %q: at: %w", actorName, err)
			}
		}
		if v, ok := pa.kw["rotation"]; ok {
			p.Rotation, err = toRot(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("spawn %q: rotation: %w", actorName, err)
			}
		}

		if _, err := sc.Spawn(actorName, c, p); err != nil {
			return zygo.SexpNull, fmt.Errorf("spawn: %w", err)
		}
		return &sexpActor{name: actorName}, nil
	})

	// -----------------------------------------------------------------------
	// (actor "left")
	// -----------------------------------------------------------------------
	env.AddFunction("actor", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("actor requires a name argument")
		}
		actorName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("actor: name: %w", err)
		}
		if _, err := sc.Actor(actorName); err != nil {
			return zygo.SexpNull, fmt.Errorf("actor: %w", err)
		}
		return &sexpActor{name: actorName}, nil
	})

	// -----------------------------------------------------------------------
	// (hologram shelf)
	// -----------------------------------------------------------------------
	env.AddFunction("hologram", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("hologram requires exactly 1 argument, got %d", len(args))
		}
		c, err := toClass(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hologram: %w", err)
		}
		if err := sc.SetMover(c.Name()); err != nil {
			return zygo.SexpNull, err
		}
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (probe left :at (vec3 60 0 0)) or (probe :at (vec3 0 0 0)) for terrain
	// -----------------------------------------------------------------------
	env.AddFunction("probe", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		st := scene.Step{Kind: scene.StepProbe}

		if len(pa.positional) > 0 {
			target, err := toActorName(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("probe: target: %w", err)
			}
			st.Target = target
		}

		v, ok := pa.kw["at"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("probe: :at is required")
		}
		loc, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("probe: at: %w", err)
		}
		st.Location = loc

		sc.AddStep(st)
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (scroll 1)
	// -----------------------------------------------------------------------
	env.AddFunction("scroll", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("scroll requires exactly 1 argument, got %d", len(args))
		}
		n, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scroll: %w", err)
		}
		sc.AddStep(scene.Step{Kind: scene.StepScroll, Scroll: n})
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (destroy left)
	// -----------------------------------------------------------------------
	env.AddFunction("destroy", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("destroy requires exactly 1 argument, got %d", len(args))
		}
		target, err := toActorName(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("destroy: %w", err)
		}
		if _, err := sc.Actor(target); err != nil {
			return zygo.SexpNull, fmt.Errorf("destroy: %w", err)
		}
		sc.AddStep(scene.Step{Kind: scene.StepDestroy, Target: target})
		return zygo.SexpNull, nil
	})
}

// gridArgs builds slot params from the optional grid keywords of defclass.
// The box defaults to the class size centered on the origin.
func gridArgs(pa kwArgs, size v3.Vec) (slot.Params, error) {
	half := size.MulScalar(0.5)
	p := slot.FromBounds(half.MulScalar(-1), half, slot.Counts{}, 0)

	var err error
	if v, ok := pa.kw["center"]; ok {
		if p.BoxCenter, err = toVec3(v); err != nil {
			return p, fmt.Errorf("center: %w", err)
		}
	}
	if v, ok := pa.kw["extent"]; ok {
		if p.BoxExtent, err = toVec3(v); err != nil {
			return p, fmt.Errorf("extent: %w", err)
		}
	}
	if v, ok := pa.kw["rotation-step"]; ok {
		if p.RotationStep, err = toInt(v); err != nil {
			return p, fmt.Errorf("rotation-step: %w", err)
		}
	}
	if v, ok := pa.kw["pitch"]; ok {
		if p.SlotPitch, err = toFloat64(v); err != nil {
			return p, fmt.Errorf("pitch: %w", err)
		}
	}
	return p, nil
}
