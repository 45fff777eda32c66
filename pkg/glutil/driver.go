// Package glutil provides validated helpers over an OpenGL 4.6 core context:
// buffer creation, shader compilation and program linking, texture upload,
// interleaved vertex attributes, and driver error/debug message reporting.
//
// Every helper talks to the driver through the Driver interface, so the
// package itself has no cgo dependency. See package glcore for the go-gl
// implementation.
//
// All calls must happen on the thread that owns the GL context.
package glutil

import (
	"unsafe"

	"go.uber.org/zap"
)

// Driver is the subset of the OpenGL API used by this package.
// Method names and argument order follow the GL entry points they wrap.
type Driver interface {
	GetError() uint32
	Enable(capability uint32)

	CreateBuffer() uint32
	NamedBufferData(buffer uint32, size int, data unsafe.Pointer, usage uint32)
	DeleteBuffer(buffer uint32)
	BindBuffer(target, buffer uint32)

	CreateShader(stage uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader, pname uint32) int32
	// GetShaderInfoLog returns the info log without the trailing NUL.
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program, pname uint32) int32
	// GetProgramInfoLog returns the info log without the trailing NUL.
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	GetUniformLocation(program uint32, name string) int32
	DeleteProgram(program uint32)

	GenTexture() uint32
	BindTexture(target, texture uint32)
	PixelStorei(pname uint32, param int32)
	TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels unsafe.Pointer)
	TextureParameteri(texture, pname uint32, param int32)
	DeleteTexture(texture uint32)

	CreateVertexArray() uint32
	BindVertexArray(array uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	DeleteVertexArray(array uint32)

	DebugMessageCallback(fn DebugFunc)
}

// GL enum values used by this package. Kept local so callers do not need a
// particular binding version.
const (
	glFalse = 0

	noError                     = 0
	invalidEnum                 = 0x0500
	invalidValue                = 0x0501
	invalidOperation            = 0x0502
	stackOverflow               = 0x0503
	stackUnderflow              = 0x0504
	outOfMemory                 = 0x0505
	invalidFramebufferOperation = 0x0506
	contextLost                 = 0x0507

	streamDraw  = 0x88E0
	streamRead  = 0x88E1
	streamCopy  = 0x88E2
	staticDraw  = 0x88E4
	staticRead  = 0x88E5
	staticCopy  = 0x88E6
	dynamicDraw = 0x88E8
	dynamicRead = 0x88E9
	dynamicCopy = 0x88EA

	vertexShader         = 0x8B31
	fragmentShader       = 0x8B30
	geometryShader       = 0x8DD9
	tessControlShader    = 0x8E88
	tessEvaluationShader = 0x8E87
	computeShader        = 0x91B9

	compileStatus = 0x8B81
	linkStatus    = 0x8B82

	typeByte          = 0x1400
	typeUnsignedByte  = 0x1401
	typeShort         = 0x1402
	typeUnsignedShort = 0x1403
	typeInt           = 0x1404
	typeUnsignedInt   = 0x1405
	typeFloat         = 0x1406
	typeDouble        = 0x140A

	arrayBuffer = 0x8892
	texture2D   = 0x0DE1

	formatRed   = 0x1903
	formatGreen = 0x1904
	formatRG    = 0x8227
	formatRGB   = 0x1907
	formatRGBA  = 0x1908

	internalR8    = 0x8229
	internalRG8   = 0x822B
	internalRGB8  = 0x8051
	internalRGBA8 = 0x8058

	unpackAlignment  = 0x0CF5
	textureMinFilter = 0x2801
	textureMagFilter = 0x2800
	textureWrapS     = 0x2802
	textureWrapT     = 0x2803
	textureSwizzleG  = 0x8E43
	textureSwizzleB  = 0x8E44
	textureSwizzleA  = 0x8E45
	filterLinear     = 0x2601
	clampToEdge      = 0x812F

	debugOutput            = 0x92E0
	debugOutputSynchronous = 0x8242
)

// Exported aliases for constants that callers pass back into the Driver.
const (
	ArrayBuffer = arrayBuffer
	Texture2D   = texture2D
)

func logger() *zap.Logger {
	return zap.L().Named("glutil")
}
