package glutil

import (
	"fmt"

	"go.uber.org/zap"
)

// Program is an owned, linked program object.
type Program struct {
	handle
}

// Use installs the program as part of the current rendering state.
func (p *Program) Use() {
	p.d.UseProgram(p.id)
}

// Uniform returns the location of the named uniform, or -1 if it is not
// found or inactive.
func (p *Program) Uniform(name string) int32 {
	return p.d.GetUniformLocation(p.id, name)
}

// MustUniform is like Uniform but panics if the uniform is missing.
func (p *Program) MustUniform(name string) int32 {
	loc := p.Uniform(name)
	if loc < 0 {
		panic(fmt.Sprintf("uniform %q not found in program %d", name, p.id))
	}
	return loc
}

// CreateProgram links the given shaders into a new program. The shaders are
// attached for the link and detached afterwards; their ownership stays with
// the caller. On link failure the program is deleted and a *LinkError is
// returned.
func CreateProgram(d Driver, shaders ...*Shader) (*Program, error) {
	const op = "create program"

	if len(shaders) == 0 {
		return nil, validationError(op, ErrEmptyProgram)
	}
	for _, s := range shaders {
		if s == nil || !s.Valid() {
			return nil, validationError(op, fmt.Errorf("%w: shader", ErrInvalidHandle))
		}
	}

	id := d.CreateProgram()
	if id == 0 {
		return nil, &Error{Op: op, Kind: KindResourceExhausted, Err: ErrZeroHandle}
	}

	for _, s := range shaders {
		d.AttachShader(id, s.ID())
	}
	d.LinkProgram(id)
	for _, s := range shaders {
		d.DetachShader(id, s.ID())
	}

	if d.GetProgramiv(id, linkStatus) == glFalse {
		log := d.GetProgramInfoLog(id)
		d.DeleteProgram(id)
		return nil, &LinkError{Log: log}
	}

	return &Program{handle: newHandle(d, id, "program", deleteProgram)}, nil
}

// ProgramBuilder collects at most one shader per stage and links them.
//
// The builder owns every shader it compiles and deletes all of them exactly
// once: in Build, whatever its outcome, or in Close. It is single use; after
// Build or Close every method returns ErrBuilderConsumed.
//
//	b := glutil.NewProgramBuilder(d)
//	defer b.Close()
//	if err := b.AddVertex(vs); err != nil { ... }
//	if err := b.AddFragment(fs); err != nil { ... }
//	prog, err := b.Build()
type ProgramBuilder struct {
	d        Driver
	shaders  map[ShaderStage]*Shader
	consumed bool
}

// NewProgramBuilder returns an empty builder.
func NewProgramBuilder(d Driver) *ProgramBuilder {
	return &ProgramBuilder{
		d:       d,
		shaders: make(map[ShaderStage]*Shader),
	}
}

// AddStage compiles source for stage. A stage that is already populated is
// rejected before compiling, and the stored shader is left untouched.
func (b *ProgramBuilder) AddStage(stage ShaderStage, source string) error {
	const op = "add shader stage"

	if b.consumed {
		return validationError(op, ErrBuilderConsumed)
	}
	if err := stage.Validate(); err != nil {
		return validationError(op, err)
	}
	if _, ok := b.shaders[stage]; ok {
		return validationError(op, fmt.Errorf("%w: %s", ErrDuplicateStage, stage))
	}

	s, err := CompileShader(b.d, stage, source)
	if err != nil {
		return err
	}
	b.shaders[stage] = s
	return nil
}

func (b *ProgramBuilder) AddVertex(source string) error { return b.AddStage(Vertex, source) }

func (b *ProgramBuilder) AddFragment(source string) error { return b.AddStage(Fragment, source) }

func (b *ProgramBuilder) AddGeometry(source string) error { return b.AddStage(Geometry, source) }

func (b *ProgramBuilder) AddTessControl(source string) error { return b.AddStage(TessControl, source) }

func (b *ProgramBuilder) AddTessEvaluation(source string) error {
	return b.AddStage(TessEvaluation, source)
}

func (b *ProgramBuilder) AddCompute(source string) error { return b.AddStage(Compute, source) }

// Has reports whether stage is populated.
func (b *ProgramBuilder) Has(stage ShaderStage) bool {
	_, ok := b.shaders[stage]
	return ok
}

// Len returns the number of populated stages.
func (b *ProgramBuilder) Len() int {
	return len(b.shaders)
}

// Build links the collected stages into a program and consumes the builder.
func (b *ProgramBuilder) Build() (*Program, error) {
	const op = "build program"

	if b.consumed {
		return nil, validationError(op, ErrBuilderConsumed)
	}
	defer b.Close()

	if len(b.shaders) == 0 {
		return nil, validationError(op, ErrEmptyProgram)
	}

	shaders := make([]*Shader, 0, len(b.shaders))
	for _, stage := range Stages {
		if s, ok := b.shaders[stage]; ok {
			shaders = append(shaders, s)
		}
	}

	p, err := CreateProgram(b.d, shaders...)
	if err != nil {
		return nil, err
	}
	logger().Debug("program linked",
		zap.Uint32("program", p.ID()),
		zap.Int("stages", len(shaders)),
	)
	return p, nil
}

// Close deletes every shader the builder still owns and consumes it.
// It is safe to call more than once and after Build.
func (b *ProgramBuilder) Close() {
	for stage, s := range b.shaders {
		s.Destroy()
		delete(b.shaders, stage)
	}
	b.consumed = true
}

// CompileProgram compiles a vertex and a fragment shader and links them.
func CompileProgram(d Driver, vertexSrc, fragmentSrc string) (*Program, error) {
	b := NewProgramBuilder(d)
	defer b.Close()

	if err := b.AddVertex(vertexSrc); err != nil {
		return nil, err
	}
	if err := b.AddFragment(fragmentSrc); err != nil {
		return nil, err
	}
	return b.Build()
}
