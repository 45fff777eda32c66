package glutil

import (
	"strings"
	"unsafe"
)

// fakeDriver records every call that matters for ownership and binding
// checks. Shader sources containing "bad" fail to compile.
type fakeDriver struct {
	nextID uint32
	errs   []uint32

	created   map[string]int
	deleted   map[uint32]int
	live      map[uint32]string
	kindOf    map[uint32]string
	shaderSrc map[uint32]string
	stages    map[uint32]uint32

	attached map[uint32][]uint32
	detached map[uint32][]uint32
	linked   []uint32

	zeroHandles     bool
	failCreate      uint32 // error raised by CreateBuffer
	failBufferData  uint32 // error raised by NamedBufferData
	failBindTexture uint32
	failTexImage    uint32
	linkFail        bool
	linkLog         string
	compileLog      string

	uploads      map[uint32]int
	texImages    map[uint32]texImage
	texParams    map[uint32]map[uint32]int32
	pixelStore   map[uint32]int32
	boundVAO     uint32
	boundBuffer  uint32
	boundTexture uint32
	enabledAttrs []uint32
	pointers     []attribPointer
	enabledCaps  []uint32
	debugFn      DebugFunc
	usedProgram  uint32
	uniforms     map[string]int32
	calls        int
}

var _ Driver = (*fakeDriver)(nil)

type texImage struct {
	internal       int32
	width, height  int32
	format, xtype  uint32
	firstPixelByte byte
}

type attribPointer struct {
	index      uint32
	size       int32
	xtype      uint32
	normalized bool
	stride     int32
	offset     uintptr
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		created:    make(map[string]int),
		deleted:    make(map[uint32]int),
		live:       make(map[uint32]string),
		kindOf:     make(map[uint32]string),
		shaderSrc:  make(map[uint32]string),
		stages:     make(map[uint32]uint32),
		attached:   make(map[uint32][]uint32),
		detached:   make(map[uint32][]uint32),
		uploads:    make(map[uint32]int),
		texImages:  make(map[uint32]texImage),
		texParams:  make(map[uint32]map[uint32]int32),
		pixelStore: make(map[uint32]int32),
		uniforms:   make(map[string]int32),
		compileLog: "0:1(1): error: syntax error, unexpected IDENTIFIER",
		linkLog:    "error: vertex shader output `color' not consumed",
	}
}

func (f *fakeDriver) alloc(kind string) uint32 {
	f.calls++
	if f.zeroHandles {
		return 0
	}
	f.nextID++
	id := f.nextID
	f.created[kind]++
	f.live[id] = kind
	f.kindOf[id] = kind
	return id
}

func (f *fakeDriver) free(id uint32) {
	f.calls++
	f.deleted[id]++
	delete(f.live, id)
}

func (f *fakeDriver) raise(code uint32) {
	if code != 0 {
		f.errs = append(f.errs, code)
	}
}

// liveOf counts objects of kind that were created and not yet deleted.
func (f *fakeDriver) liveOf(kind string) int {
	n := 0
	for _, k := range f.live {
		if k == kind {
			n++
		}
	}
	return n
}

// idsOf returns every id ever created for kind.
func (f *fakeDriver) idsOf(kind string) []uint32 {
	var ids []uint32
	for id, k := range f.kindOf {
		if k == kind {
			ids = append(ids, id)
		}
	}
	return ids
}

func (f *fakeDriver) GetError() uint32 {
	if len(f.errs) == 0 {
		return noError
	}
	code := f.errs[0]
	f.errs = f.errs[1:]
	return code
}

func (f *fakeDriver) Enable(capability uint32) {
	f.calls++
	f.enabledCaps = append(f.enabledCaps, capability)
}

func (f *fakeDriver) CreateBuffer() uint32 {
	id := f.alloc("buffer")
	f.raise(f.failCreate)
	return id
}

func (f *fakeDriver) NamedBufferData(buffer uint32, size int, data unsafe.Pointer, usage uint32) {
	f.calls++
	if f.failBufferData != 0 {
		f.raise(f.failBufferData)
		return
	}
	f.uploads[buffer] = size
}

func (f *fakeDriver) DeleteBuffer(buffer uint32) { f.free(buffer) }

func (f *fakeDriver) BindBuffer(target, buffer uint32) {
	f.calls++
	if target == arrayBuffer {
		f.boundBuffer = buffer
	}
}

func (f *fakeDriver) CreateShader(stage uint32) uint32 {
	id := f.alloc("shader")
	if id != 0 {
		f.stages[id] = stage
	}
	return id
}

func (f *fakeDriver) ShaderSource(shader uint32, source string) {
	f.calls++
	f.shaderSrc[shader] = source
}

func (f *fakeDriver) CompileShader(shader uint32) { f.calls++ }

func (f *fakeDriver) GetShaderiv(shader, pname uint32) int32 {
	if pname == compileStatus {
		if strings.Contains(f.shaderSrc[shader], "bad") {
			return glFalse
		}
		return 1
	}
	return 0
}

func (f *fakeDriver) GetShaderInfoLog(shader uint32) string { return f.compileLog }

func (f *fakeDriver) DeleteShader(shader uint32) { f.free(shader) }

func (f *fakeDriver) CreateProgram() uint32 { return f.alloc("program") }

func (f *fakeDriver) AttachShader(program, shader uint32) {
	f.calls++
	f.attached[program] = append(f.attached[program], shader)
}

func (f *fakeDriver) DetachShader(program, shader uint32) {
	f.calls++
	f.detached[program] = append(f.detached[program], shader)
}

func (f *fakeDriver) LinkProgram(program uint32) {
	f.calls++
	f.linked = append(f.linked, program)
}

func (f *fakeDriver) GetProgramiv(program, pname uint32) int32 {
	if pname == linkStatus && f.linkFail {
		return glFalse
	}
	return 1
}

func (f *fakeDriver) GetProgramInfoLog(program uint32) string { return f.linkLog }

func (f *fakeDriver) UseProgram(program uint32) { f.usedProgram = program }

func (f *fakeDriver) GetUniformLocation(program uint32, name string) int32 {
	if loc, ok := f.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (f *fakeDriver) DeleteProgram(program uint32) { f.free(program) }

func (f *fakeDriver) GenTexture() uint32 { return f.alloc("texture") }

func (f *fakeDriver) BindTexture(target, texture uint32) {
	f.calls++
	f.boundTexture = texture
	f.raise(f.failBindTexture)
}

func (f *fakeDriver) PixelStorei(pname uint32, param int32) {
	f.calls++
	f.pixelStore[pname] = param
}

func (f *fakeDriver) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	f.calls++
	if f.failTexImage != 0 {
		f.raise(f.failTexImage)
		return
	}
	f.texImages[f.boundTexture] = texImage{
		internal:       internalFormat,
		width:          width,
		height:         height,
		format:         format,
		xtype:          xtype,
		firstPixelByte: *(*byte)(pixels),
	}
}

func (f *fakeDriver) TextureParameteri(texture, pname uint32, param int32) {
	f.calls++
	if f.texParams[texture] == nil {
		f.texParams[texture] = make(map[uint32]int32)
	}
	f.texParams[texture][pname] = param
}

func (f *fakeDriver) DeleteTexture(texture uint32) { f.free(texture) }

func (f *fakeDriver) CreateVertexArray() uint32 { return f.alloc("vertex array") }

func (f *fakeDriver) BindVertexArray(array uint32) {
	f.calls++
	f.boundVAO = array
}

func (f *fakeDriver) EnableVertexAttribArray(index uint32) {
	f.calls++
	f.enabledAttrs = append(f.enabledAttrs, index)
}

func (f *fakeDriver) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	f.calls++
	f.pointers = append(f.pointers, attribPointer{index, size, xtype, normalized, stride, offset})
}

func (f *fakeDriver) DeleteVertexArray(array uint32) { f.free(array) }

func (f *fakeDriver) DebugMessageCallback(fn DebugFunc) {
	f.calls++
	f.debugFn = fn
}
