package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// NormalMatrix returns the inverse-transpose of the upper 3x3 of a model matrix.
// Normals transformed by it stay perpendicular to surfaces under non-uniform scale.
// A singular input yields the zero matrix.
//
// Parameters:
//   - model: the model matrix
//
// Returns:
//   - mgl32.Mat3: the normal matrix
func NormalMatrix(model mgl32.Mat4) mgl32.Mat3 {
	return model.Mat3().Inv().Transpose()
}

// ProjectNDC projects a camera-space point with a projection matrix and performs the perspective divide.
//
// Parameters:
//   - projection: the projection matrix
//   - p: the camera-space position
//
// Returns:
//   - mgl32.Vec3: normalized device coordinates (undefined when w <= 0)
//   - float32: the clip-space w component
func ProjectNDC(projection mgl32.Mat4, p mgl32.Vec3) (mgl32.Vec3, float32) {
	clip := projection.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w == 0 {
		return mgl32.Vec3{}, 0
	}
	return mgl32.Vec3{clip.X() / w, clip.Y() / w, clip.Z() / w}, w
}

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	return float32(math.Min(math.Max(float64(v), float64(lo)), float64(hi)))
}
