package shader

import (
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer"
	"github.com/pkg/errors"
)

// Uniform names shared by every program in the engine.
const (
	UniformMVP            = "uMVP"
	UniformModel          = "uModel"
	UniformInvModel3x3    = "uInvModel3x3"
	UniformMtlColor       = "uMtlColor"
	UniformMtlCts         = "uMtlCts"
	UniformLightPos       = "uLightPos"
	UniformLightColor     = "uLightColor"
	UniformCameraPosition = "uCameraPosition"
	UniformTexture        = "uTexture"
	UniformAlpha          = "uAlpha"
)

// Attribute names shared by every program in the engine.
const (
	AttribPosition = "vPosition"
	AttribNormal   = "vNormal"
	AttribUV       = "vUV"
)

// StandardUniforms lists the uniforms resolved for every program at link time.
var StandardUniforms = []string{
	UniformMVP,
	UniformModel,
	UniformInvModel3x3,
	UniformMtlColor,
	UniformMtlCts,
	UniformLightPos,
	UniformLightColor,
	UniformCameraPosition,
	UniformTexture,
	UniformAlpha,
}

// StandardAttribs lists the vertex attributes resolved for every program at link time.
var StandardAttribs = []string{AttribPosition, AttribNormal, AttribUV}

// Compiler is the subset of the GPU surface needed to build and drive a Program.
type Compiler interface {
	CompileProgram(vertexSource, fragmentSource string) (renderer.ProgramHandle, error)
	DeleteProgram(p renderer.ProgramHandle)
	UniformLocation(p renderer.ProgramHandle, name string) int32
	AttribLocation(p renderer.ProgramHandle, name string) int32
	UseProgram(p renderer.ProgramHandle)
}

// program is the implementation of the Program interface.
type program struct {
	key      string
	handle   renderer.ProgramHandle
	compiler Compiler

	pp            PreProcessor
	extraUniforms []string

	uniforms map[string]int32
	attribs  map[string]int32
}

// Program defines a linked vertex/fragment program with its uniform and attribute locations
// resolved once at link time.
//
// Lookups never touch the GPU: a name that was not resolved at link time, or that the driver
// optimized away, reports -1, which every uniform upload treats as a no-op.
type Program interface {
	// Key retrieves the unique identifier for this program, used for caching and lookups.
	//
	// Returns:
	//   - string: the program's unique key
	Key() string

	// Handle returns the backend program handle.
	//
	// Returns:
	//   - renderer.ProgramHandle: the linked program
	Handle() renderer.ProgramHandle

	// Uniform returns the cached location of a uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//
	// Returns:
	//   - int32: the location, or -1 if unknown or inactive
	Uniform(name string) int32

	// Attrib returns the cached location of a vertex attribute.
	//
	// Parameters:
	//   - name: the attribute name
	//
	// Returns:
	//   - int32: the location, or -1 if unknown or inactive
	Attrib(name string) int32

	// Use makes this program current.
	Use()

	// Release deletes the backend program. The Program must not be used afterwards.
	Release()
}

var _ Program = &program{}

// NewProgram pre-processes, compiles and links a program, then resolves the standard uniform and
// attribute locations plus any extra uniforms requested through options.
//
// Parameters:
//   - compiler: the backend used to compile and query the program
//   - key: a unique identifier for the program
//   - vertexSource: GLSL vertex shader source
//   - fragmentSource: GLSL fragment shader source
//   - options: functional options to configure the program
//
// Returns:
//   - Program: the linked program
//   - error: error if pre-processing, compilation or linking fails
func NewProgram(compiler Compiler, key, vertexSource, fragmentSource string, options ...ProgramBuilderOption) (Program, error) {
	if compiler == nil {
		panic("shader: compiler must not be nil")
	}
	p := &program{
		key:      key,
		compiler: compiler,
		uniforms: make(map[string]int32),
		attribs:  make(map[string]int32),
	}
	for _, opt := range options {
		opt(p)
	}

	if p.pp != nil {
		var err error
		if vertexSource, err = p.pp.Process(vertexSource); err != nil {
			return nil, errors.Wrapf(err, "program %s: vertex pre-process", key)
		}
		if fragmentSource, err = p.pp.Process(fragmentSource); err != nil {
			return nil, errors.Wrapf(err, "program %s: fragment pre-process", key)
		}
	}

	h, err := compiler.CompileProgram(vertexSource, fragmentSource)
	if err != nil {
		return nil, errors.Wrapf(err, "program %s", key)
	}
	p.handle = h

	for _, name := range StandardUniforms {
		p.uniforms[name] = compiler.UniformLocation(h, name)
	}
	for _, name := range p.extraUniforms {
		p.uniforms[name] = compiler.UniformLocation(h, name)
	}
	for _, name := range StandardAttribs {
		p.attribs[name] = compiler.AttribLocation(h, name)
	}
	return p, nil
}

func (p *program) Key() string {
	return p.key
}

func (p *program) Handle() renderer.ProgramHandle {
	return p.handle
}

func (p *program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (p *program) Attrib(name string) int32 {
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	return -1
}

func (p *program) Use() {
	p.compiler.UseProgram(p.handle)
}

func (p *program) Release() {
	p.compiler.DeleteProgram(p.handle)
}
