package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// cubeFaces lists each face normal with two in-plane axes whose cross product is the normal,
// so corners emitted in (u, v) order wind counter-clockwise seen from outside.
var cubeFaces = [6][3]mgl32.Vec3{
	{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {0, 1, 0}, {1, 0, 0}},
}

// Cube builds a unit cube centered on the origin with flat per-face normals.
//
// Returns:
//   - Geometry: 36 vertices with positions and normals
func Cube() Geometry {
	corners := [6][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, -1}, {1, 1}, {-1, 1}}

	g := Geometry{
		Positions: make([]mgl32.Vec3, 0, 36),
		Normals:   make([]mgl32.Vec3, 0, 36),
	}
	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		for _, c := range corners {
			p := n.Add(u.Mul(c[0])).Add(v.Mul(c[1])).Mul(0.5)
			g.Positions = append(g.Positions, p)
			g.Normals = append(g.Normals, n)
		}
	}
	return g
}

// Sphere builds a UV sphere of diameter 1 centered on the origin.
//
// Longitude runs around Y over slices and latitude from the north pole over stacks. The
// degenerate triangles at both poles are skipped.
//
// Parameters:
//   - slices: the number of longitude segments, at least 3
//   - stacks: the number of latitude segments, at least 2
//
// Returns:
//   - Geometry: slices*(2*stacks-2)*3 vertices with positions, normals and UVs
func Sphere(slices, stacks int) Geometry {
	slices = max(slices, 3)
	stacks = max(stacks, 2)

	vertex := func(i, j int) (mgl32.Vec3, mgl32.Vec2) {
		theta := math.Pi * float64(i) / float64(stacks)
		phi := 2 * math.Pi * float64(j) / float64(slices)
		n := mgl32.Vec3{
			float32(math.Sin(theta) * math.Cos(phi)),
			float32(math.Cos(theta)),
			float32(math.Sin(theta) * math.Sin(phi)),
		}
		return n, mgl32.Vec2{float32(j) / float32(slices), float32(i) / float32(stacks)}
	}

	count := slices * (2*stacks - 2) * 3
	g := Geometry{
		Positions: make([]mgl32.Vec3, 0, count),
		Normals:   make([]mgl32.Vec3, 0, count),
		UVs:       make([]mgl32.Vec2, 0, count),
	}
	emit := func(ij ...[2]int) {
		for _, k := range ij {
			n, uv := vertex(k[0], k[1])
			g.Positions = append(g.Positions, n.Mul(0.5))
			g.Normals = append(g.Normals, n)
			g.UVs = append(g.UVs, uv)
		}
	}

	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a, b, c, d := [2]int{i, j}, [2]int{i + 1, j}, [2]int{i + 1, j + 1}, [2]int{i, j + 1}
			if i != stacks-1 {
				emit(a, c, b)
			}
			if i != 0 {
				emit(a, d, c)
			}
		}
	}
	return g
}

// Cone builds an open truncated cone along Z: a base of radius 0.5 at z = -0.5 narrowing to
// topRadius at z = 0.5. Neither end is capped.
//
// Parameters:
//   - slices: the number of segments around the axis, at least 3
//   - topRadius: the radius of the narrow end
//
// Returns:
//   - Geometry: slices*6 vertices with positions, normals and UVs
func Cone(slices int, topRadius float32) Geometry {
	slices = max(slices, 3)
	const baseRadius, height = 0.5, 1.0

	slope := (baseRadius - topRadius) / height
	ring := func(j int) (base, top, normal mgl32.Vec3, u float32) {
		phi := 2 * math.Pi * float64(j) / float64(slices)
		c, s := float32(math.Cos(phi)), float32(math.Sin(phi))
		base = mgl32.Vec3{baseRadius * c, baseRadius * s, -height / 2}
		top = mgl32.Vec3{topRadius * c, topRadius * s, height / 2}
		normal = mgl32.Vec3{c, s, slope}.Normalize()
		return base, top, normal, float32(j) / float32(slices)
	}

	count := slices * 6
	g := Geometry{
		Positions: make([]mgl32.Vec3, 0, count),
		Normals:   make([]mgl32.Vec3, 0, count),
		UVs:       make([]mgl32.Vec2, 0, count),
	}
	for j := 0; j < slices; j++ {
		b0, t0, n0, u0 := ring(j)
		b1, t1, n1, u1 := ring(j + 1)

		g.Positions = append(g.Positions, b0, b1, t1, b0, t1, t0)
		g.Normals = append(g.Normals, n0, n1, n1, n0, n1, n0)
		g.UVs = append(g.UVs,
			mgl32.Vec2{u0, 1}, mgl32.Vec2{u1, 1}, mgl32.Vec2{u1, 0},
			mgl32.Vec2{u0, 1}, mgl32.Vec2{u1, 0}, mgl32.Vec2{u0, 0},
		)
	}
	return g
}
