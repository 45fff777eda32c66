package glutil

import "go.uber.org/zap"

// handle owns one driver object. The zero id means "nothing owned".
type handle struct {
	d    Driver
	id   uint32
	kind string
	del  func(Driver, uint32)
}

func newHandle(d Driver, id uint32, kind string, del func(Driver, uint32)) handle {
	logger().Debug("created "+kind, zap.Uint32("id", id))
	return handle{d: d, id: id, kind: kind, del: del}
}

// ID returns the driver id, or 0 once destroyed or released.
func (h *handle) ID() uint32 {
	return h.id
}

// Valid reports whether the handle still owns a driver object.
func (h *handle) Valid() bool {
	return h.id != 0
}

// Destroy deletes the driver object. Calling it again is a no-op, as is
// calling it after Release.
func (h *handle) Destroy() {
	if h.id == 0 {
		return
	}
	h.del(h.d, h.id)
	logger().Debug("destroyed "+h.kind, zap.Uint32("id", h.id))
	h.id = 0
}

// Release gives up ownership and returns the id. The caller becomes
// responsible for deleting the object.
func (h *handle) Release() uint32 {
	id := h.id
	h.id = 0
	return id
}

// Buffer is an owned buffer object.
type Buffer struct {
	handle
	size  int
	usage Usage
}

// Size returns the uploaded size in bytes.
func (b *Buffer) Size() int { return b.size }

// Usage returns the usage hint the buffer was created with.
func (b *Buffer) Usage() Usage { return b.usage }

// Shader is an owned shader object.
type Shader struct {
	handle
	stage ShaderStage
}

// Stage returns the pipeline stage the shader was compiled for.
func (s *Shader) Stage() ShaderStage { return s.stage }

// Texture is an owned 2D texture object.
type Texture struct {
	handle
	width, height int32
	format        PixelFormat
}

// Size returns the texture dimensions in pixels.
func (t *Texture) Size() (width, height int32) { return t.width, t.height }

// Format returns the pixel format of the uploaded data.
func (t *Texture) Format() PixelFormat { return t.format }

// VertexArray is an owned vertex array object.
type VertexArray struct {
	handle
}

// CreateVertexArray allocates a vertex array object.
func CreateVertexArray(d Driver) (*VertexArray, error) {
	id := d.CreateVertexArray()
	if id == 0 {
		return nil, &Error{Op: "create vertex array", Kind: KindResourceExhausted, Err: ErrZeroHandle}
	}
	return &VertexArray{handle: newHandle(d, id, "vertex array", deleteVertexArray)}, nil
}

func deleteBuffer(d Driver, id uint32)      { d.DeleteBuffer(id) }
func deleteShader(d Driver, id uint32)      { d.DeleteShader(id) }
func deleteProgram(d Driver, id uint32)     { d.DeleteProgram(id) }
func deleteTexture(d Driver, id uint32)     { d.DeleteTexture(id) }
func deleteVertexArray(d Driver, id uint32) { d.DeleteVertexArray(id) }
