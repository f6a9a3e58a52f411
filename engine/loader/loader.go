package loader

import (
	"io/fs"
	"path"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-lensflare/common"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/model"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-lensflare/engine/renderer/texture"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrNoRenderer is returned when a Loader without a renderer is asked to upload a resource.
var ErrNoRenderer = errors.New("loader: no renderer configured")

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	fsys         fs.FS
	renderer     renderer.RendererBackend
	logger       *zap.Logger
	preProcessor shader.PreProcessor

	decodeWorkers int
	decodePool    worker.DynamicWorkerPool

	modelCache   map[string]model.Model
	textureCache map[string]texture.Texture
	programCache map[string]shader.Program

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching GPU resources from an
// asset filesystem. Meshes, textures and programs are each cached by name, so repeated loads of
// the same asset return the same resource.
//
// Uploads go through the configured renderer and must run on the goroutine that owns the
// graphics context. Texture decoding is the exception: LoadTextures decodes images in parallel on
// a worker pool before uploading them one by one.
type Loader interface {
	// LoadModel imports a mesh file, uploads it and caches the result by path.
	// The backend is selected based on the file extension (.gltf/.glb → glTF backend).
	//
	// Parameters:
	//   - path: the slash-separated path of the mesh file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if loading or uploading fails
	LoadModel(path string) (model.Model, error)

	// AddGeometry uploads procedural geometry and caches it under name.
	// If a model is already cached under name, the cached version is returned.
	//
	// Parameters:
	//   - name: the cache key
	//   - geometry: the triangle list to upload
	//
	// Returns:
	//   - model.Model: the uploaded model
	//   - error: error if the geometry is invalid or the upload fails
	AddGeometry(name string, geometry model.Geometry) (model.Model, error)

	// LoadTextures decodes the given images in parallel, then uploads them in order.
	// Already cached paths are not decoded again.
	//
	// Parameters:
	//   - paths: the slash-separated image paths (PNG or JPEG)
	//
	// Returns:
	//   - []texture.Texture: the textures, in the order of paths
	//   - error: the first decode or upload error; nothing is uploaded if any decode fails
	LoadTextures(paths ...string) ([]texture.Texture, error)

	// LoadTexture decodes and uploads a single image.
	//
	// Parameters:
	//   - path: the slash-separated image path
	//
	// Returns:
	//   - texture.Texture: the texture
	//   - error: error if decoding or uploading fails
	LoadTexture(path string) (texture.Texture, error)

	// LoadProgram reads a vertex and fragment shader from the asset filesystem and links them.
	//
	// Parameters:
	//   - key: the cache key of the program
	//   - vertexPath: the path of the vertex shader source
	//   - fragmentPath: the path of the fragment shader source
	//   - options: extra program options, applied after the loader's pre-processor
	//
	// Returns:
	//   - shader.Program: the linked program
	//   - error: error if a source cannot be read or the program fails to link
	LoadProgram(key, vertexPath, fragmentPath string, options ...shader.ProgramBuilderOption) (shader.Program, error)

	// CompileProgram links a program from in-memory sources, such as embedded files.
	//
	// Parameters:
	//   - key: the cache key of the program
	//   - vertexSource: the vertex shader source
	//   - fragmentSource: the fragment shader source
	//   - options: extra program options, applied after the loader's pre-processor
	//
	// Returns:
	//   - shader.Program: the linked program
	//   - error: error if the program fails to link
	CompileProgram(key, vertexSource, fragmentSource string, options ...shader.ProgramBuilderOption) (shader.Program, error)

	// Model retrieves a cached model by name. Returns nil if not found.
	Model(name string) model.Model

	// Texture retrieves a cached texture by path. Returns nil if not found.
	Texture(path string) texture.Texture

	// Program retrieves a cached program by key. Returns nil if not found.
	Program(key string) shader.Program

	// Release deletes every cached GPU resource and empties the caches.
	Release()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader reading assets from fsys, with the specified options applied.
//
// Parameters:
//   - fsys: the asset filesystem
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided options
func NewLoader(fsys fs.FS, options ...LoaderBuilderOption) Loader {
	if fsys == nil {
		panic("loader: filesystem must not be nil")
	}
	l := &loader{
		fsys:          fsys,
		logger:        zap.NewNop(),
		decodeWorkers: runtime.NumCPU(),
		modelCache:    make(map[string]model.Model),
		textureCache:  make(map[string]texture.Texture),
		programCache:  make(map[string]shader.Program),
		backend:       newGLTFLoaderBackend(),
	}
	for _, option := range options {
		option(l)
	}
	l.decodePool = worker.NewDynamicWorkerPool(l.decodeWorkers, 64, 1*time.Second)
	return l
}

func (l *loader) LoadModel(p string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[p]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(p)
	if err != nil {
		return nil, err
	}
	geometry, err := backend.Load(l.fsys, p)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", p)
	}
	return l.AddGeometry(p, geometry)
}

func (l *loader) AddGeometry(name string, geometry model.Geometry) (model.Model, error) {
	if l.renderer == nil {
		return nil, ErrNoRenderer
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.modelCache[name]; ok {
		return cached, nil
	}
	m, err := model.NewModel(l.renderer, geometry, model.WithName(name))
	if err != nil {
		return nil, err
	}
	l.modelCache[name] = m
	l.logger.Debug("model uploaded", zap.String("name", name), zap.Int32("vertices", m.VertexCount()))
	return m, nil
}

func (l *loader) LoadTextures(paths ...string) ([]texture.Texture, error) {
	if l.renderer == nil {
		return nil, ErrNoRenderer
	}

	var pending []string
	seen := make(map[string]bool, len(paths))
	l.mu.RLock()
	for _, p := range paths {
		if _, ok := l.textureCache[p]; !ok && !seen[p] {
			pending = append(pending, p)
			seen[p] = true
		}
	}
	l.mu.RUnlock()

	if len(pending) > 0 {
		start := time.Now()
		staged, err := l.decode(pending)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("textures decoded",
			zap.Int("count", len(staged)),
			zap.Duration("elapsed", time.Since(start)),
		)

		l.mu.Lock()
		for _, s := range staged {
			tex, err := texture.NewTexture(l.renderer, s)
			if err != nil {
				l.mu.Unlock()
				return nil, errors.Wrapf(err, "failed to upload texture %s", s.Name)
			}
			l.textureCache[s.Name] = tex
		}
		l.mu.Unlock()
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]texture.Texture, len(paths))
	for i, p := range paths {
		out[i] = l.textureCache[p]
	}
	return out, nil
}

func (l *loader) LoadTexture(p string) (texture.Texture, error) {
	texs, err := l.LoadTextures(p)
	if err != nil {
		return nil, err
	}
	return texs[0], nil
}

// decode reads and decodes images on the worker pool. A WaitGroup provides the barrier since
// pool.Wait() blocks until workers idle-exit.
func (l *loader) decode(paths []string) ([]common.TextureStagingData, error) {
	staged := make([]common.TextureStagingData, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, p := range paths {
		wg.Add(1)
		id, imgPath := i, p
		l.decodePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()

				data, err := fs.ReadFile(l.fsys, imgPath)
				if err != nil {
					errs[id] = errors.Wrapf(err, "failed to read texture %s", imgPath)
					return nil, nil
				}
				imported := &common.ImportedTexture{Name: imgPath, Data: data}
				staged[id], errs[id] = imported.Decode()
				return nil, nil
			},
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return staged, nil
}

func (l *loader) LoadProgram(key, vertexPath, fragmentPath string, options ...shader.ProgramBuilderOption) (shader.Program, error) {
	if cached := l.Program(key); cached != nil {
		return cached, nil
	}

	vs, err := fs.ReadFile(l.fsys, vertexPath)
	if err != nil {
		return nil, errors.Wrapf(err, "program %s", key)
	}
	fragment, err := fs.ReadFile(l.fsys, fragmentPath)
	if err != nil {
		return nil, errors.Wrapf(err, "program %s", key)
	}
	return l.CompileProgram(key, string(vs), string(fragment), options...)
}

func (l *loader) CompileProgram(key, vertexSource, fragmentSource string, options ...shader.ProgramBuilderOption) (shader.Program, error) {
	if l.renderer == nil {
		return nil, ErrNoRenderer
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.programCache[key]; ok {
		return cached, nil
	}

	opts := make([]shader.ProgramBuilderOption, 0, len(options)+1)
	if l.preProcessor != nil {
		opts = append(opts, shader.WithPreProcessor(l.preProcessor))
	}
	opts = append(opts, options...)

	p, err := shader.NewProgram(l.renderer, key, vertexSource, fragmentSource, opts...)
	if err != nil {
		return nil, err
	}
	l.programCache[key] = p
	l.logger.Debug("program linked", zap.String("key", key))
	return p, nil
}

func (l *loader) Model(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Texture(p string) texture.Texture {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.textureCache[p]
}

func (l *loader) Program(key string) shader.Program {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.programCache[key]
}

func (l *loader) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for name, m := range l.modelCache {
		m.Release()
		delete(l.modelCache, name)
	}
	for name, t := range l.textureCache {
		t.Release()
		delete(l.textureCache, name)
	}
	for key, p := range l.programCache {
		p.Release()
		delete(l.programCache, key)
	}
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(p string) (loaderBackend, error) {
	ext := strings.ToLower(path.Ext(p))
	switch ext {
	case ".gltf", ".glb":
		return l.backend, nil
	default:
		return nil, errors.Errorf("unsupported model format: %s", ext)
	}
}
