package material

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-lensflare/common"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial()
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, m.Color())
	assert.Equal(t, mgl32.Vec4{0.2, 0.5, 0.2, 50}, m.Constants())
	assert.Nil(t, m.Texture())
}

func TestPresets(t *testing.T) {
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 50}, Glass().Constants())
	assert.Equal(t, mgl32.Vec3{0.3, 0.3, 0.4}, Metal().Color())
	assert.Equal(t, float32(0), Felt().Constants().Z())
	assert.Equal(t, mgl32.Vec4{0.2, 0.5, 1, 40}, Ball(nil).Constants())
}

func TestSendUniforms(t *testing.T) {
	rec := renderertest.NewRecorder()
	p, err := rec.CompileProgram("vs", "fs")
	require.NoError(t, err)
	rec.UseProgram(p)

	Wood().SendUniforms(rec, Uniforms{
		Color:     rec.UniformLocation(p, "uMtlColor"),
		Constants: rec.UniformLocation(p, "uMtlCts"),
	})

	color, _ := rec.CurrentUniform(p, "uMtlColor")
	assert.Equal(t, mgl32.Vec3{0.5, 0.38, 0.21}, color)
	cts, _ := rec.CurrentUniform(p, "uMtlCts")
	assert.Equal(t, mgl32.Vec4{0.2, 0.5, 0.2, 50}, cts)
}

func TestTexturedBall(t *testing.T) {
	rec := renderertest.NewRecorder()
	tex, err := texture.NewTexture(rec, common.TextureStagingData{Name: "Boule_8.png", Pixels: make([]byte, 16), Width: 2, Height: 2})
	require.NoError(t, err)

	m := Ball(tex)
	require.NotNil(t, m.Texture())
	assert.Equal(t, "Boule_8.png", m.Texture().Name())

	m.SetTexture(nil)
	assert.Nil(t, m.Texture())
}
