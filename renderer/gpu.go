package renderer

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/metaballs/game"
	"github.com/pthm-cable/metaballs/points"
)

var (
	//go:embed shaders/quad.vs
	quadVS string
	//go:embed shaders/update.comp
	updateCS string
	//go:embed shaders/metaballs.fs
	metaballsFS string
	//go:embed shaders/race.fs
	raceFS string
)

// GPUConfig sizes the device resources.
type GPUConfig struct {
	Size          int // Side of the square render target in pixels
	Points        int
	WorkgroupSize int
	Growth        bool
	RadiusMin     float32
	RadiusMax     float32
	RaceDX        float32
	RaceDY        float32
}

// GPU runs the update kernel as an OpenGL 4.3 compute shader and the
// shading stages as fragment shaders reading the same storage buffer.
// It requires a current GL context, so create it after rl.InitWindow and
// build with the opengl43 tag.
type GPU struct {
	cfg  GPUConfig
	ssbo uint32

	update     uint32
	updateLocs struct{ size, count, growth, radiusMin, radiusMax int32 }

	metaballs     rl.Shader
	paramsLoc     int32
	sizeLoc       int32
	countLoc      int32
	debugMaskLoc  int32
	race          rl.Shader
	raceSizeLoc   int32
	raceCountLoc  int32
	raceNudgeLoc  int32
	target        rl.RenderTexture2D
	debugMask     bool
	uniformsDirty bool
	params        [game.NumUniforms]float32
	resident      residency
}

// residency remembers which host buffer the SSBO currently mirrors, so a
// render straight after an update skips the second upload.
type residency struct {
	base *float32
	n    int
}

func (r *residency) mark(data []float32) {
	if len(data) == 0 {
		*r = residency{}
		return
	}
	r.base, r.n = &data[0], len(data)
}

// take reports whether data is already on the device and forgets the mark.
func (r *residency) take(data []float32) bool {
	ok := len(data) > 0 && r.n == len(data) && r.base == &data[0]
	*r = residency{}
	return ok
}

// NewGPU compiles the kernels and allocates the point buffer and render
// target. A compute shader that fails to compile means the context has no
// compute support and yields game.ErrUnsupportedPlatform.
func NewGPU(cfg GPUConfig) (*GPU, error) {
	if cfg.WorkgroupSize < 1 {
		cfg.WorkgroupSize = 64
	}
	g := &GPU{cfg: cfg}

	src := strings.Replace(updateCS, "WORKGROUP_SIZE", strconv.Itoa(cfg.WorkgroupSize), 1)
	cs := rl.CompileShader(src, rl.ComputeShader)
	if cs == 0 {
		return nil, game.ErrUnsupportedPlatform
	}
	g.update = rl.LoadComputeShaderProgram(cs)
	if g.update == 0 {
		return nil, fmt.Errorf("linking update kernel: %w", game.ErrUnsupportedPlatform)
	}
	g.updateLocs.size = rl.GetLocationUniform(g.update, "size")
	g.updateLocs.count = rl.GetLocationUniform(g.update, "pointCount")
	g.updateLocs.growth = rl.GetLocationUniform(g.update, "growth")
	g.updateLocs.radiusMin = rl.GetLocationUniform(g.update, "radiusMin")
	g.updateLocs.radiusMax = rl.GetLocationUniform(g.update, "radiusMax")

	g.metaballs = rl.LoadShaderFromMemory(quadVS, metaballsFS)
	if !rl.IsShaderValid(g.metaballs) {
		g.Close()
		return nil, fmt.Errorf("creating metaballs shader: compile failed")
	}
	g.paramsLoc = rl.GetShaderLocation(g.metaballs, "params")
	g.sizeLoc = rl.GetShaderLocation(g.metaballs, "size")
	g.countLoc = rl.GetShaderLocation(g.metaballs, "pointCount")
	g.debugMaskLoc = rl.GetShaderLocation(g.metaballs, "debugMask")

	g.race = rl.LoadShaderFromMemory(quadVS, raceFS)
	if !rl.IsShaderValid(g.race) {
		g.Close()
		return nil, fmt.Errorf("creating race shader: compile failed")
	}
	g.raceSizeLoc = rl.GetShaderLocation(g.race, "size")
	g.raceCountLoc = rl.GetShaderLocation(g.race, "pointCount")
	g.raceNudgeLoc = rl.GetShaderLocation(g.race, "nudge")

	n := cfg.Points
	if n < 1 {
		n = 1
	}
	g.ssbo = rl.LoadShaderBuffer(uint32(n*points.Stride*4), nil, rl.DynamicCopy)
	if g.ssbo == 0 {
		g.Close()
		return nil, fmt.Errorf("creating point buffer: %w", game.ErrUnsupportedPlatform)
	}

	g.target = rl.LoadRenderTexture(int32(cfg.Size), int32(cfg.Size))
	if !rl.IsRenderTextureValid(g.target) {
		g.Close()
		return nil, fmt.Errorf("creating render target %dx%d", cfg.Size, cfg.Size)
	}
	return g, nil
}

// WriteUniforms stages the uniform buffer; it is applied to the shader at
// the next Render.
func (g *GPU) WriteUniforms(v []float32) error {
	if _, err := game.DecodeParams(v); err != nil {
		return err
	}
	copy(g.params[:], v)
	g.uniformsDirty = true
	return nil
}

// SetDebugMask switches rendering to the marching-squares mask view.
func (g *GPU) SetDebugMask(on bool) { g.debugMask = on }

// Target returns the render texture the shading stages draw into.
func (g *GPU) Target() rl.RenderTexture2D { return g.target }

// Update dispatches one compute invocation per point and reads the
// buffer back into w.
func (g *GPU) Update(w points.Writer) error {
	data := w.Floats()
	if err := g.upload(data); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	n := w.Len()
	growth := float32(0)
	if g.cfg.Growth {
		growth = 1
	}

	rl.EnableShader(g.update)
	rl.SetUniform(g.updateLocs.size, []float32{float32(g.cfg.Size)}, int32(rl.ShaderUniformFloat))
	rl.SetUniform(g.updateLocs.count, []float32{float32(n)}, int32(rl.ShaderUniformFloat))
	rl.SetUniform(g.updateLocs.growth, []float32{growth}, int32(rl.ShaderUniformFloat))
	rl.SetUniform(g.updateLocs.radiusMin, []float32{g.cfg.RadiusMin}, int32(rl.ShaderUniformFloat))
	rl.SetUniform(g.updateLocs.radiusMax, []float32{g.cfg.RadiusMax}, int32(rl.ShaderUniformFloat))
	rl.BindShaderBuffer(g.ssbo, 0)
	groups := (n + g.cfg.WorkgroupSize - 1) / g.cfg.WorkgroupSize
	rl.ComputeShaderDispatch(uint32(groups), 1, 1)
	rl.DisableShader()

	g.readback(data)
	g.resident.mark(data)
	return nil
}

// Render shades the full target from the uploaded points.
// The upload is skipped when r's buffer was read back by the preceding
// Update.
func (g *GPU) Render(r points.Reader) error {
	if data := r.Floats(); !g.resident.take(data) {
		if err := g.upload(data); err != nil {
			return err
		}
	}
	if g.uniformsDirty {
		rl.SetShaderValueV(g.metaballs, g.paramsLoc, g.params[:], rl.ShaderUniformFloat, game.NumUniforms)
		g.uniformsDirty = false
	}
	mask := float32(0)
	if g.debugMask {
		mask = 1
	}
	rl.SetShaderValue(g.metaballs, g.sizeLoc, []float32{float32(g.cfg.Size)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(g.metaballs, g.countLoc, []float32{float32(r.Len())}, rl.ShaderUniformFloat)
	rl.SetShaderValue(g.metaballs, g.debugMaskLoc, []float32{mask}, rl.ShaderUniformFloat)

	g.drawPass(g.metaballs)
	return nil
}

// RenderRace runs the race fragment stage. Every fragment nudges every
// point in the shared buffer with no synchronization; the result is read
// back into s so the lost updates are observable.
func (g *GPU) RenderRace(s points.Shared) error {
	data := s.Floats()
	g.resident = residency{}
	if err := g.upload(data); err != nil {
		return err
	}
	rl.SetShaderValue(g.race, g.raceSizeLoc, []float32{float32(g.cfg.Size)}, rl.ShaderUniformFloat)
	rl.SetShaderValue(g.race, g.raceCountLoc, []float32{float32(s.Len())}, rl.ShaderUniformFloat)
	rl.SetShaderValue(g.race, g.raceNudgeLoc, []float32{g.cfg.RaceDX, g.cfg.RaceDY}, rl.ShaderUniformVec2)

	g.drawPass(g.race)
	g.readback(data)
	return nil
}

// Close releases all device resources. Safe on a partially built GPU.
func (g *GPU) Close() {
	if g.target.ID != 0 {
		rl.UnloadRenderTexture(g.target)
		g.target = rl.RenderTexture2D{}
	}
	if g.ssbo != 0 {
		rl.UnloadShaderBuffer(g.ssbo)
		g.ssbo = 0
	}
	if g.race.ID != 0 {
		rl.UnloadShader(g.race)
		g.race = rl.Shader{}
	}
	if g.metaballs.ID != 0 {
		rl.UnloadShader(g.metaballs)
		g.metaballs = rl.Shader{}
	}
	if g.update != 0 {
		rl.UnloadShaderProgram(g.update)
		g.update = 0
	}
}

func (g *GPU) drawPass(shader rl.Shader) {
	rl.BeginTextureMode(g.target)
	rl.ClearBackground(rl.Black)
	rl.BeginShaderMode(shader)
	rl.BindShaderBuffer(g.ssbo, 0)
	rl.DrawRectangle(0, 0, int32(g.cfg.Size), int32(g.cfg.Size), rl.White)
	rl.EndShaderMode()
	rl.EndTextureMode()
}

func (g *GPU) upload(data []float32) error {
	if len(data) > g.capacity() {
		return fmt.Errorf("upload: %d floats exceeds buffer of %d", len(data), g.capacity())
	}
	if len(data) == 0 {
		return nil
	}
	rl.UpdateShaderBuffer(g.ssbo, unsafe.Pointer(&data[0]), uint32(len(data)*4), 0)
	return nil
}

func (g *GPU) readback(data []float32) {
	if len(data) == 0 {
		return
	}
	rl.ReadShaderBuffer(g.ssbo, unsafe.Pointer(&data[0]), uint32(len(data)*4), 0)
}

func (g *GPU) capacity() int {
	n := g.cfg.Points
	if n < 1 {
		n = 1
	}
	return n * points.Stride
}

// Snapshot exports the render target to an image file. The format follows
// the path extension.
func (g *GPU) Snapshot(path string) error {
	img := rl.LoadImageFromTexture(g.target.Texture)
	defer rl.UnloadImage(img)
	rl.ImageFlipVertical(img)
	if !rl.ExportImage(*img, path) {
		return fmt.Errorf("exporting %s", path)
	}
	return nil
}
