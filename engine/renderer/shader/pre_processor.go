// pre_processor.go implements the GLSL shader pre-processor. It scans shader source for
// "// @oxy:include <name>" annotation lines and replaces each with a registered GLSL snippet,
// then injects "#define" lines directly after the "#version" directive.
package shader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const includeAnnotation = "// @oxy:include"

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// snippets maps include names to their GLSL source.
	snippets map[string]string

	// defines maps macro names to their replacement text.
	defines map[string]string

	// includes accumulates the snippet names resolved during the last Process call, in source order.
	includes []string
}

// PreProcessor expands include annotations and injects defines into GLSL source.
type PreProcessor interface {
	// Process expands every include annotation in source and inserts the configured defines
	// after the #version directive (or at the top if there is none). Includes are not recursive.
	//
	// Parameters:
	//   - source: the raw GLSL shader source code
	//
	// Returns:
	//   - string: the processed GLSL source
	//   - error: an error if an annotation names an unregistered snippet
	Process(source string) (string, error)

	// Register adds or replaces an include snippet.
	//
	// Parameters:
	//   - name: the name used by the include annotation
	//   - source: the GLSL snippet
	Register(name, source string)

	// Define adds or replaces a macro injected into every processed source.
	//
	// Parameters:
	//   - name: the macro name
	//   - value: the replacement text (may be empty)
	Define(name, value string)

	// Includes returns the snippet names resolved by the most recent Process call.
	//
	// Returns:
	//   - []string: the resolved include names in source order
	Includes() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the given snippets registered.
//
// Parameters:
//   - snippets: include name to GLSL source
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(snippets map[string]string) PreProcessor {
	p := &preProcessor{
		snippets: make(map[string]string, len(snippets)),
		defines:  make(map[string]string),
	}
	for k, v := range snippets {
		p.snippets[k] = v
	}
	return p
}

func (p *preProcessor) Register(name, source string) {
	p.snippets[name] = source
}

func (p *preProcessor) Define(name, value string) {
	p.defines[name] = value
}

func (p *preProcessor) Includes() []string {
	return p.includes
}

func (p *preProcessor) Process(source string) (string, error) {
	p.includes = p.includes[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines)+len(p.defines))
	versionIdx := -1

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#version") && versionIdx < 0 {
			versionIdx = len(out)
			out = append(out, line)
			continue
		}
		name, ok := strings.CutPrefix(trimmed, includeAnnotation)
		if !ok {
			out = append(out, line)
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return "", errors.Errorf("line %d: include annotation without a name", i+1)
		}
		snippet, ok := p.snippets[name]
		if !ok {
			return "", errors.Errorf("line %d: unknown include %q", i+1, name)
		}
		out = append(out, snippet)
		p.includes = append(p.includes, name)
	}

	if len(p.defines) == 0 {
		return strings.Join(out, "\n"), nil
	}

	names := make([]string, 0, len(p.defines))
	for k := range p.defines {
		names = append(names, k)
	}
	sort.Strings(names)
	defs := make([]string, 0, len(names))
	for _, k := range names {
		defs = append(defs, strings.TrimSpace(fmt.Sprintf("#define %s %s", k, p.defines[k])))
	}

	at := versionIdx + 1
	merged := make([]string, 0, len(out)+len(defs))
	merged = append(merged, out[:at]...)
	merged = append(merged, defs...)
	merged = append(merged, out[at:]...)
	return strings.Join(merged, "\n"), nil
}
