// package common contains common types that are used throughout this module. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import "unsafe"

// Point3 is a 3D point in normalized device coordinates, stored in double
// precision. The widget/geometry layer produces these; the renderer converts
// them to tightly packed float32 data before upload.
type Point3 struct {
	X, Y, Z float64
}

// Quat is a rotation quaternion (X, Y, Z imaginary parts, W real part).
// Camera orientation is expressed as a unit quaternion.
type Quat struct {
	X, Y, Z, W float64
}

// Size is a texture/viewport size in device pixels.
type Size struct {
	Width, Height int
}

// Positive reports whether both dimensions are greater than zero.
// Texture creation requires a positive size.
//
// Returns:
//   - bool: true if width and height are both > 0
func (s Size) Positive() bool {
	return s.Width > 0 && s.Height > 0
}

// PackColor packs 8-bit RGBA components into a single 32-bit value with R in
// the lowest byte. This matches the unorm8x4 vertex format consumed by the
// accumulate pipeline.
//
// Parameters:
//   - r, g, b, a: the 8-bit color components
//
// Returns:
//   - uint32: the packed RGBA value
func PackColor(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}
