package glutil

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
)

// Usage is a buffer usage hint.
// See https://registry.khronos.org/OpenGL-Refpages/gl4/html/glBufferData.xhtml.
type Usage uint32

const (
	StreamDraw  Usage = streamDraw
	StreamRead  Usage = streamRead
	StreamCopy  Usage = streamCopy
	StaticDraw  Usage = staticDraw
	StaticRead  Usage = staticRead
	StaticCopy  Usage = staticCopy
	DynamicDraw Usage = dynamicDraw
	DynamicRead Usage = dynamicRead
	DynamicCopy Usage = dynamicCopy
)

// Valid reports whether u is one of the nine recognised hints.
func (u Usage) Valid() bool {
	switch u {
	case StreamDraw, StreamRead, StreamCopy,
		StaticDraw, StaticRead, StaticCopy,
		DynamicDraw, DynamicRead, DynamicCopy:
		return true
	}
	return false
}

func (u Usage) String() string {
	switch u {
	case StreamDraw:
		return "STREAM_DRAW"
	case StreamRead:
		return "STREAM_READ"
	case StreamCopy:
		return "STREAM_COPY"
	case StaticDraw:
		return "STATIC_DRAW"
	case StaticRead:
		return "STATIC_READ"
	case StaticCopy:
		return "STATIC_COPY"
	case DynamicDraw:
		return "DYNAMIC_DRAW"
	case DynamicRead:
		return "DYNAMIC_READ"
	case DynamicCopy:
		return "DYNAMIC_COPY"
	}
	return fmt.Sprintf("Usage(0x%X)", uint32(u))
}

// CreateBuffer creates a buffer object and fills it with data.
// T must be plain data (no pointers); len(data)*sizeof(T) bytes are copied.
//
// An empty slice or unknown usage is rejected before the driver is touched.
// If the upload fails the buffer is deleted before returning.
func CreateBuffer[T any](d Driver, data []T, usage Usage) (*Buffer, error) {
	const op = "create buffer"

	if len(data) == 0 {
		return nil, validationError(op, ErrEmptyData)
	}
	if !usage.Valid() {
		return nil, validationError(op, fmt.Errorf("%w: %s", ErrInvalidUsageHint, usage))
	}

	ClearErrors(d)
	id := d.CreateBuffer()
	if err := CheckError(d); err != nil {
		if id != 0 {
			d.DeleteBuffer(id)
		}
		return nil, &Error{Op: op, Kind: KindDriverRejected, Err: err}
	}
	if id == 0 {
		return nil, &Error{Op: op, Kind: KindResourceExhausted, Err: ErrZeroHandle}
	}

	b := &Buffer{
		handle: newHandle(d, id, "buffer", deleteBuffer),
		size:   len(data) * int(unsafe.Sizeof(data[0])),
		usage:  usage,
	}

	ClearErrors(d)
	d.NamedBufferData(id, b.size, unsafe.Pointer(unsafe.SliceData(data)), uint32(usage))
	if err := CheckError(d); err != nil {
		b.Destroy()
		return nil, &Error{Op: op, Kind: KindDriverRejected, Err: fmt.Errorf("%w: %w", ErrUpload, err)}
	}

	logger().Debug("buffer filled",
		zap.Uint32("id", id),
		zap.Int("bytes", b.size),
		zap.Stringer("usage", usage),
	)
	return b, nil
}
