// Package selfcheck exercises glutil's failure paths against a live driver.
// Every check provokes an error on purpose and passes when the error has the
// expected identity and kind. After all checks Run requires the driver's
// error register to be clean; objects a check creates are released by the
// glutil call that fails or by the check itself.
package selfcheck

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/glkit/pkg/glutil"
)

// Check provokes one expected failure.
type Check struct {
	Name string
	Want error
	Kind glutil.Kind
	Run  func(d glutil.Driver) error
}

// Result is the outcome of one Check.
type Result struct {
	Name string
	Err  error // error returned by the check
	OK   bool
}

// BadShaderSource does not compile on any conforming GLSL compiler.
const BadShaderSource = `#version 460 core
void main() {
    gl_Position = undeclared_identifier;
}
`

// VertexShaderSource is a minimal shader used where compilation must succeed.
const VertexShaderSource = `#version 460 core
void main() {
    gl_Position = vec4(0.0);
}
`

// Checks returns the default set.
func Checks() []Check {
	return []Check{
		{
			Name: "empty buffer",
			Want: glutil.ErrEmptyData,
			Kind: glutil.KindValidation,
			Run: func(d glutil.Driver) error {
				_, err := glutil.CreateBuffer[float32](d, nil, glutil.StaticDraw)
				return err
			},
		},
		{
			Name: "invalid usage hint",
			Want: glutil.ErrInvalidUsageHint,
			Kind: glutil.KindValidation,
			Run: func(d glutil.Driver) error {
				_, err := glutil.CreateBuffer(d, []float32{1}, glutil.Usage(0x1234))
				return err
			},
		},
		{
			Name: "texture size mismatch",
			Want: glutil.ErrSizeMismatch,
			Kind: glutil.KindValidation,
			Run: func(d glutil.Driver) error {
				_, err := glutil.CreateTexture2DRGBA(d, 2, 2, make([]byte, 2*2*4-1))
				return err
			},
		},
		{
			Name: "attribute size out of range",
			Want: glutil.ErrInvalidAttributeSize,
			Kind: glutil.KindValidation,
			Run: func(d glutil.Driver) error {
				return glutil.EnableInterleavedAttributes(d, 0, 0, glutil.Float32, false, 0, 3, 5)
			},
		},
		{
			Name: "empty program",
			Want: glutil.ErrEmptyProgram,
			Kind: glutil.KindValidation,
			Run: func(d glutil.Driver) error {
				_, err := glutil.NewProgramBuilder(d).Build()
				return err
			},
		},
		{
			Name: "shader compile error",
			Want: glutil.ErrCompile,
			Kind: glutil.KindDriverRejected,
			Run: func(d glutil.Driver) error {
				_, err := glutil.CompileShader(d, glutil.Vertex, BadShaderSource)
				return err
			},
		},
		{
			Name: "duplicate stage",
			Want: glutil.ErrDuplicateStage,
			Kind: glutil.KindValidation,
			Run: func(d glutil.Driver) error {
				b := glutil.NewProgramBuilder(d)
				defer b.Close()
				if err := b.AddVertex(VertexShaderSource); err != nil {
					return fmt.Errorf("first vertex stage: %w", err)
				}
				return b.AddVertex(VertexShaderSource)
			},
		},
	}
}

// Run executes checks in order and logs each outcome. The returned error
// combines every failed check.
func Run(d glutil.Driver, checks []Check) ([]Result, error) {
	log := zap.L().Named("selfcheck")

	results := make([]Result, 0, len(checks))
	var errs error
	for _, c := range checks {
		err := c.Run(d)
		failure := verify(c, err)
		results = append(results, Result{Name: c.Name, Err: err, OK: failure == nil})

		if failure == nil {
			log.Info("check passed", zap.String("check", c.Name), zap.NamedError("expected", err))
			continue
		}
		log.Error("check failed", zap.String("check", c.Name), zap.Error(failure))
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", c.Name, failure))
	}

	// Checks must leave the error register clean.
	if err := glutil.CheckError(d); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("driver error after checks: %w", err))
	}
	return results, errs
}

func verify(c Check, err error) error {
	switch {
	case err == nil:
		return fmt.Errorf("expected %v, got success", c.Want)
	case !errors.Is(err, c.Want):
		return fmt.Errorf("expected %v, got %w", c.Want, err)
	case glutil.KindOf(err) != c.Kind:
		return fmt.Errorf("expected kind %s, got %s", c.Kind, glutil.KindOf(err))
	}
	return nil
}
