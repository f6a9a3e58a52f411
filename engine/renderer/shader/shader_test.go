package shader

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/renderertest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgramResolvesLocations(t *testing.T) {
	rec := renderertest.NewRecorder()
	rec.MissingUniforms[UniformAlpha] = true

	p, err := NewProgram(rec, "scene", "vs", "fs", WithUniforms("uExtra"))
	require.NoError(t, err)

	assert.Equal(t, "scene", p.Key())
	assert.Equal(t, rec.UniformLocation(p.Handle(), UniformMVP), p.Uniform(UniformMVP))
	assert.Equal(t, rec.UniformLocation(p.Handle(), "uExtra"), p.Uniform("uExtra"))
	assert.GreaterOrEqual(t, p.Uniform(UniformMVP), int32(0))
	assert.Equal(t, int32(-1), p.Uniform(UniformAlpha), "inactive uniforms resolve to -1")
	assert.Equal(t, int32(-1), p.Uniform("uNeverResolved"))
	assert.GreaterOrEqual(t, p.Attrib(AttribPosition), int32(0))
	assert.Equal(t, int32(-1), p.Attrib("vTangent"))

	p.Use()
	p.Release()
	assert.Equal(t, 1, rec.CallCount("UseProgram"))
	assert.Empty(t, rec.Programs)
}

func TestNewProgramCompileError(t *testing.T) {
	rec := renderertest.NewRecorder()
	rec.CompileErr = errors.New("0:1: syntax error")

	_, err := NewProgram(rec, "broken", "vs", "fs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "program broken")
	assert.Contains(t, err.Error(), "syntax error")
}

func TestPreProcessorIncludesAndDefines(t *testing.T) {
	pp := NewPreProcessor(map[string]string{"phong": "vec3 phong() { return vec3(1.0); }"})
	pp.Define("MAX_LIGHTS", "1")

	out, err := pp.Process("#version 410 core\n// @oxy:include phong\nvoid main() {}")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "#version 410 core", lines[0])
	assert.Equal(t, "#define MAX_LIGHTS 1", lines[1])
	assert.Equal(t, "vec3 phong() { return vec3(1.0); }", lines[2])
	assert.Equal(t, []string{"phong"}, pp.Includes())
}

func TestPreProcessorUnknownInclude(t *testing.T) {
	pp := NewPreProcessor(nil)

	_, err := pp.Process("#version 410 core\n// @oxy:include missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "missing")
}

func TestProgramUsesPreProcessor(t *testing.T) {
	rec := renderertest.NewRecorder()
	pp := NewPreProcessor(map[string]string{"common": "float shared;"})

	p, err := NewProgram(rec, "pp", "// @oxy:include common\nvoid main() {}", "void main() {}", WithPreProcessor(pp))
	require.NoError(t, err)

	assert.Contains(t, rec.Programs[p.Handle()][0], "float shared;")
}
