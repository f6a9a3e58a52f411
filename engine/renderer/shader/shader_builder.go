package shader

// ProgramBuilderOption is a functional option applied to a program during NewProgram.
type ProgramBuilderOption func(*program)

// WithPreProcessor runs both shader stages through a PreProcessor before compilation.
//
// Parameters:
//   - pp: the pre-processor to use
//
// Returns:
//   - ProgramBuilderOption: a function that applies the pre-processor option
func WithPreProcessor(pp PreProcessor) ProgramBuilderOption {
	return func(p *program) {
		p.pp = pp
	}
}

// WithUniforms resolves additional uniform names at link time.
//
// Parameters:
//   - names: the extra uniform names
//
// Returns:
//   - ProgramBuilderOption: a function that applies the extra uniforms option
func WithUniforms(names ...string) ProgramBuilderOption {
	return func(p *program) {
		p.extraUniforms = append(p.extraUniforms, names...)
	}
}
