package glutil

import (
	"fmt"

	"go.uber.org/zap"
)

// ComponentType is the scalar type of a vertex attribute component.
type ComponentType uint32

const (
	Float32 ComponentType = typeFloat
	Float64 ComponentType = typeDouble
	Int8    ComponentType = typeByte
	Uint8   ComponentType = typeUnsignedByte
	Int16   ComponentType = typeShort
	Uint16  ComponentType = typeUnsignedShort
	Int32   ComponentType = typeInt
	Uint32  ComponentType = typeUnsignedInt
)

// Size returns the byte width of one component, or 0 for an unknown type.
func (t ComponentType) Size() int32 {
	switch t {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Float32, Int32, Uint32:
		return 4
	case Float64:
		return 8
	}
	return 0
}

func (t ComponentType) String() string {
	switch t {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	}
	return fmt.Sprintf("ComponentType(0x%X)", uint32(t))
}

// Attribute is the placement of one attribute inside an interleaved vertex.
type Attribute struct {
	Index  uint32
	Size   int32   // components
	Offset uintptr // bytes from the start of the vertex
}

// Layout describes a packed, interleaved vertex made of attributes that all
// share one component type.
type Layout struct {
	Type       ComponentType
	Stride     int32
	Attributes []Attribute
}

// ComputeLayout places attributes of the given component counts one after
// another, starting at attribute index startIndex.
//
//	stride   = sum(sizes) * width
//	offset_i = sum(sizes[:i]) * width
func ComputeLayout(typ ComponentType, startIndex uint32, sizes []int32) (Layout, error) {
	const op = "compute vertex layout"

	if len(sizes) == 0 {
		return Layout{}, validationError(op, ErrEmptyLayout)
	}
	width := typ.Size()
	if width == 0 {
		return Layout{}, validationError(op, fmt.Errorf("%w: %s", ErrInvalidComponentType, typ))
	}

	l := Layout{
		Type:       typ,
		Attributes: make([]Attribute, len(sizes)),
	}
	var offset int32
	for i, size := range sizes {
		if size < 1 || size > 4 {
			return Layout{}, validationError(op, fmt.Errorf("%w: attribute %d has size %d",
				ErrInvalidAttributeSize, startIndex+uint32(i), size))
		}
		l.Attributes[i] = Attribute{
			Index:  startIndex + uint32(i),
			Size:   size,
			Offset: uintptr(offset),
		}
		offset += size * width
	}
	l.Stride = offset
	return l, nil
}

// EnableInterleavedAttributes enables a run of interleaved attributes that
// live in one buffer and share one component type.
//
// Validation happens before any driver call. On success the current vertex
// array and ARRAY_BUFFER bindings are changed to vao and buffer; callers
// must not rely on earlier bindings surviving.
func EnableInterleavedAttributes(d Driver, vao, buffer uint32, typ ComponentType, normalized bool, startIndex uint32, sizes ...int32) error {
	l, err := ComputeLayout(typ, startIndex, sizes)
	if err != nil {
		return err
	}
	return BindLayout(d, vao, buffer, l, normalized)
}

// BindLayout binds vao and buffer and points every attribute of l at the
// buffer. l must be packed the way ComputeLayout builds it; it is checked
// before any driver call. See EnableInterleavedAttributes for the binding
// side effect.
func BindLayout(d Driver, vao, buffer uint32, l Layout, normalized bool) error {
	if err := l.validate(); err != nil {
		return validationError("bind vertex layout", err)
	}

	d.BindVertexArray(vao)
	d.BindBuffer(arrayBuffer, buffer)
	for _, a := range l.Attributes {
		d.EnableVertexAttribArray(a.Index)
		d.VertexAttribPointer(a.Index, a.Size, uint32(l.Type), normalized, l.Stride, a.Offset)
	}

	logger().Debug("vertex attributes enabled",
		zap.Uint32("vao", vao),
		zap.Uint32("buffer", buffer),
		zap.Stringer("type", l.Type),
		zap.Int32("stride", l.Stride),
		zap.Int("count", len(l.Attributes)),
	)
	return nil
}

func (l Layout) validate() error {
	if len(l.Attributes) == 0 {
		return ErrEmptyLayout
	}
	width := l.Type.Size()
	if width == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidComponentType, l.Type)
	}
	var offset int32
	for _, a := range l.Attributes {
		if a.Size < 1 || a.Size > 4 {
			return fmt.Errorf("%w: attribute %d has size %d", ErrInvalidAttributeSize, a.Index, a.Size)
		}
		if a.Offset != uintptr(offset) {
			return fmt.Errorf("%w: attribute %d at offset %d, expected %d", ErrLayoutMismatch, a.Index, a.Offset, offset)
		}
		offset += a.Size * width
	}
	if l.Stride != offset {
		return fmt.Errorf("%w: stride %d, expected %d", ErrLayoutMismatch, l.Stride, offset)
	}
	return nil
}
