// Package glcore implements glutil.Driver on top of go-gl's OpenGL 4.6 core
// bindings. A context must be current on the calling thread before New.
package glcore

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/Faultbox/glkit/pkg/glutil"
)

// Driver forwards to the process-wide go-gl function table.
type Driver struct{}

var _ glutil.Driver = (*Driver)(nil)

// New loads the GL function pointers for the current context.
func New() (*Driver, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	return &Driver{}, nil
}

// Version returns the GL_VERSION string.
func (*Driver) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Renderer returns the GL_RENDERER string.
func (*Driver) Renderer() string {
	return gl.GoStr(gl.GetString(gl.RENDERER))
}

func (*Driver) GetError() uint32 { return gl.GetError() }

func (*Driver) Enable(capability uint32) { gl.Enable(capability) }

func (*Driver) CreateBuffer() uint32 {
	var id uint32
	gl.CreateBuffers(1, &id)
	return id
}

func (*Driver) NamedBufferData(buffer uint32, size int, data unsafe.Pointer, usage uint32) {
	gl.NamedBufferData(buffer, size, data, usage)
}

func (*Driver) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (*Driver) BindBuffer(target, buffer uint32) { gl.BindBuffer(target, buffer) }

func (*Driver) CreateShader(stage uint32) uint32 { return gl.CreateShader(stage) }

func (*Driver) ShaderSource(shader uint32, source string) {
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
}

func (*Driver) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (*Driver) GetShaderiv(shader, pname uint32) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (*Driver) GetShaderInfoLog(shader uint32) string {
	var logLen int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return ""
	}
	log := make([]byte, logLen)
	var written int32
	gl.GetShaderInfoLog(shader, logLen, &written, &log[0])
	return string(log[:written])
}

func (*Driver) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (*Driver) CreateProgram() uint32 { return gl.CreateProgram() }

func (*Driver) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (*Driver) DetachShader(program, shader uint32) { gl.DetachShader(program, shader) }

func (*Driver) LinkProgram(program uint32) { gl.LinkProgram(program) }

func (*Driver) GetProgramiv(program, pname uint32) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (*Driver) GetProgramInfoLog(program uint32) string {
	var logLen int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
	if logLen == 0 {
		return ""
	}
	log := make([]byte, logLen)
	var written int32
	gl.GetProgramInfoLog(program, logLen, &written, &log[0])
	return string(log[:written])
}

func (*Driver) UseProgram(program uint32) { gl.UseProgram(program) }

func (*Driver) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*Driver) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (*Driver) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (*Driver) BindTexture(target, texture uint32) { gl.BindTexture(target, texture) }

func (*Driver) PixelStorei(pname uint32, param int32) { gl.PixelStorei(pname, param) }

func (*Driver) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.TexImage2D(target, level, internalFormat, width, height, 0, format, xtype, pixels)
}

func (*Driver) TextureParameteri(texture, pname uint32, param int32) {
	gl.TextureParameteri(texture, pname, param)
}

func (*Driver) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

func (*Driver) CreateVertexArray() uint32 {
	var id uint32
	gl.CreateVertexArrays(1, &id)
	return id
}

func (*Driver) BindVertexArray(array uint32) { gl.BindVertexArray(array) }

func (*Driver) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (*Driver) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	gl.VertexAttribPointerWithOffset(index, size, xtype, normalized, stride, offset)
}

func (*Driver) DeleteVertexArray(array uint32) { gl.DeleteVertexArrays(1, &array) }

// DebugMessageCallback installs fn as the debug message callback. A nil fn
// removes the current callback. go-gl keeps the callback reachable for the
// lifetime of the process.
func (*Driver) DebugMessageCallback(fn glutil.DebugFunc) {
	if fn == nil {
		gl.DebugMessageCallback(nil, nil)
		return
	}
	gl.DebugMessageCallback(func(source, gltype, id, severity uint32, length int32, message string, userParam unsafe.Pointer) {
		fn(glutil.DebugMessage{
			Source:   glutil.DebugSource(source),
			Type:     glutil.DebugType(gltype),
			ID:       id,
			Severity: glutil.DebugSeverity(severity),
			Message:  message,
		})
	}, nil)
}
