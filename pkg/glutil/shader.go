package glutil

import "fmt"

// ShaderStage is one stage of the programmable pipeline. Values are the GL
// shader type enums.
type ShaderStage uint32

const (
	Vertex         ShaderStage = vertexShader
	Fragment       ShaderStage = fragmentShader
	Geometry       ShaderStage = geometryShader
	TessControl    ShaderStage = tessControlShader
	TessEvaluation ShaderStage = tessEvaluationShader
	Compute        ShaderStage = computeShader
)

// Stages lists every stage in pipeline order.
var Stages = []ShaderStage{Vertex, TessControl, TessEvaluation, Geometry, Fragment, Compute}

func (s ShaderStage) String() string {
	switch s {
	case Vertex:
		return "Vertex"
	case Fragment:
		return "Fragment"
	case Geometry:
		return "Geometry"
	case TessControl:
		return "Tess Control"
	case TessEvaluation:
		return "Tess Evaluation"
	case Compute:
		return "Compute"
	}
	return fmt.Sprintf("ShaderStage(0x%X)", uint32(s))
}

// Validate returns ErrInvalidStage for values outside the six stages.
func (s ShaderStage) Validate() error {
	switch s {
	case Vertex, Fragment, Geometry, TessControl, TessEvaluation, Compute:
		return nil
	}
	return fmt.Errorf("%w: 0x%X", ErrInvalidStage, uint32(s))
}

// CompileShader compiles source for the given stage.
// On failure the shader object is deleted and a *CompileError carrying the
// compiler log is returned.
func CompileShader(d Driver, stage ShaderStage, source string) (*Shader, error) {
	const op = "compile shader"

	if err := stage.Validate(); err != nil {
		return nil, validationError(op, err)
	}

	id := d.CreateShader(uint32(stage))
	if id == 0 {
		return nil, &Error{Op: op, Kind: KindResourceExhausted, Err: fmt.Errorf("%w: %s shader", ErrZeroHandle, stage)}
	}

	d.ShaderSource(id, source)
	d.CompileShader(id)

	if d.GetShaderiv(id, compileStatus) == glFalse {
		log := d.GetShaderInfoLog(id)
		d.DeleteShader(id)
		return nil, &CompileError{Stage: stage, Log: log}
	}

	return &Shader{handle: newHandle(d, id, "shader", deleteShader), stage: stage}, nil
}
