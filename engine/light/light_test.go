package light

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/renderertest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetViewCachesCameraSpacePosition(t *testing.T) {
	l := NewLight(WithPosition(0, 8.2, -10), WithColor(1, 0.9, 0.7))

	view := mgl32.Translate3D(0, -2, 5)
	l.SetView(view)
	assert.InDelta(t, 6.2, l.CamSpacePosition().Y(), 1e-5)
	assert.InDelta(t, -5, l.CamSpacePosition().Z(), 1e-5)

	l.SetPosition(1, 1, 1)
	assert.InDelta(t, 6.2, l.CamSpacePosition().Y(), 1e-5, "cache only changes on SetView")

	l.SetView(mgl32.Ident4())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.CamSpacePosition())
}

func TestColorIsClamped(t *testing.T) {
	l := NewLight(WithColor(2, -1, 0.5))
	assert.Equal(t, mgl32.Vec3{1, 0, 0.5}, l.Color())

	l.SetColor(0.3, 1.5, 0)
	assert.Equal(t, mgl32.Vec3{0.3, 1, 0}, l.Color())
}

func TestSendUniformsWritesWorldPositionAndColor(t *testing.T) {
	rec := renderertest.NewRecorder()
	p, err := rec.CompileProgram("vs", "fs")
	require.NoError(t, err)
	rec.UseProgram(p)

	slots := Uniforms{
		Position: rec.UniformLocation(p, "uLightPos"),
		Color:    rec.UniformLocation(p, "uLightColor"),
	}
	l := NewLight(WithPosition(0, 8.2, -10), WithColor(1, 0.9, 0.7))
	l.SetView(mgl32.Translate3D(3, 3, 3))
	l.SendUniforms(rec, slots)

	pos, ok := rec.CurrentUniform(p, "uLightPos")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0, 8.2, -10}, pos)

	col, ok := rec.CurrentUniform(p, "uLightColor")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 0.9, 0.7}, col)
}
