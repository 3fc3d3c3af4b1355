package demo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/chewxy/math32"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/glforest/internal/assets"
	"github.com/Faultbox/glforest/internal/config"
	"github.com/Faultbox/glforest/internal/engine/camera"
	"github.com/Faultbox/glforest/internal/engine/debug"
	"github.com/Faultbox/glforest/internal/engine/framebuffer"
	"github.com/Faultbox/glforest/internal/engine/lighting"
	"github.com/Faultbox/glforest/internal/engine/picking"
	"github.com/Faultbox/glforest/internal/engine/renderer"
	"github.com/Faultbox/glforest/internal/engine/ui"
	"github.com/Faultbox/glforest/internal/forest"
	"github.com/Faultbox/glforest/internal/logger"
)

const (
	forestTitle     = "Forest"
	controlsWidth   = 320
	statusDuration  = 3 * time.Second
	zoomSensitivity = 0.5
)

// dialogResult is a file chosen in a native dialog. Dialogs run on their
// own goroutine; results are applied on the render thread.
type dialogResult struct {
	save bool
	path string
}

// Forest is the interactive forest viewer.
type Forest struct {
	cfg     *config.Config
	backend *ui.Backend
	log     *zap.Logger

	lib      *assets.Library
	store    *forest.Store
	renderer *renderer.ForestRenderer
	fb       *framebuffer.Framebuffer
	view     ui.SceneView
	cam      *camera.OrbitCamera

	// Editable state, applied on change
	params       forest.Params
	weights      [3]float32 // slider values by category
	fixedSeed    bool
	light        lighting.Directional
	sunAzimuth   float32
	sunElevation float32
	overlays     renderer.ForestOptions

	selected *picking.Hit

	start    time.Time
	paused   bool
	pausedAt float32

	reload  <-chan struct{}
	cancel  context.CancelFunc
	dialogs chan dialogResult

	shots               *debug.ScreenshotCapture
	screenshotRequested bool
	status              string
	statusTime          time.Time
}

// NewForest creates the viewer window and uploads lib. configPath, when
// not empty, is watched for changes.
func NewForest(cfg *config.Config, configPath string, lib *assets.Library) (*Forest, error) {
	f := &Forest{
		cfg:     cfg,
		log:     logger.Named("viewer"),
		lib:     lib,
		cam:     cfg.Camera.NewCamera(),
		params:  cfg.Forest.Clone(),
		light:   cfg.Lighting.Directional(),
		dialogs: make(chan dialogResult, 1),
		start:   time.Now(),
	}
	f.syncSliders()

	format, err := debug.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	f.shots = debug.NewScreenshotCapture(cfg.Output.Screenshots, "forest", format)

	f.backend, err = ui.NewBackend(forestTitle, int32(cfg.Graphics.Width), int32(cfg.Graphics.Height))
	if err != nil {
		return nil, err
	}
	f.backend.SetBgColor([4]float32{0.1, 0.1, 0.12, 1})

	f.renderer, err = renderer.NewForestRenderer(lib)
	if err != nil {
		return nil, err
	}
	f.fb, err = framebuffer.New(int32(cfg.Graphics.Width), int32(cfg.Graphics.Height))
	if err != nil {
		f.renderer.Destroy()
		return nil, err
	}

	f.store = NewStore(lib, f.params)

	if configPath != "" {
		ctx, cancel := context.WithCancel(context.Background())
		reload, err := config.Watch(ctx, configPath)
		if err != nil {
			cancel()
			f.log.Warn("config hot reload disabled", zap.Error(err))
		} else {
			f.reload = reload
			f.cancel = cancel
			f.log.Info("watching config", zap.String("path", configPath))
		}
	}

	return f, nil
}

// syncSliders copies params and light into the slider state.
func (f *Forest) syncSliders() {
	for _, c := range forest.Categories {
		f.weights[c] = float32(f.params.Weights[c])
	}
	f.fixedSeed = f.params.Seed != 0
	f.sunAzimuth, f.sunElevation = lighting.Angles(f.light.ReverseDir)
}

// Run starts the main loop.
func (f *Forest) Run() {
	f.backend.Run(f.render)
}

// Close releases all resources.
func (f *Forest) Close() {
	if f.cancel != nil {
		f.cancel()
	}
	if f.renderer != nil {
		f.renderer.Destroy()
	}
	if f.fb != nil {
		f.fb.Destroy()
	}
}

// seconds returns the scene time.
func (f *Forest) seconds() float32 {
	if f.paused {
		return f.pausedAt
	}
	return float32(time.Since(f.start).Seconds())
}

func (f *Forest) setStatus(format string, args ...any) {
	f.status = fmt.Sprintf(format, args...)
	f.statusTime = time.Now()
}

// rebuild publishes a new layout from the edited params.
func (f *Forest) rebuild() {
	for _, c := range forest.Categories {
		f.params.Weights[c] = float64(f.weights[c])
	}
	snap := f.store.Rebuild(f.params.Clone())
	f.clearSelection()
	f.backend.SetWindowTitle(fmt.Sprintf("%s - %d objects", forestTitle, snap.Len()))
}

// render is called each frame to draw the UI.
func (f *Forest) render() {
	f.drainEvents()

	if ui.IsKeyPressed(imgui.KeyF12) {
		f.screenshotRequested = true
	}
	if ui.IsKeyPressed(imgui.KeyR) && !imgui.IsAnyItemActive() {
		f.rebuild()
	}

	f.renderMenuBar()

	workX, workY, workW, workH := ui.GetViewport()
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	imgui.SetNextWindowPos(imgui.NewVec2(workX, workY))
	imgui.SetNextWindowSize(imgui.NewVec2(controlsWidth, workH))
	if imgui.BeginV("Controls", nil, flags) {
		f.renderControls()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(workX+controlsWidth, workY))
	imgui.SetNextWindowSize(imgui.NewVec2(workW-controlsWidth, workH))
	if imgui.BeginV("Scene", nil, flags|imgui.WindowFlagsNoScrollbar) {
		f.renderScene()
	}
	imgui.End()
}

// drainEvents applies config reloads and dialog results on the render
// thread.
func (f *Forest) drainEvents() {
	select {
	case <-f.reload:
		f.reloadConfig()
	default:
	}

	select {
	case res := <-f.dialogs:
		if res.save {
			f.savePreset(res.path)
		} else {
			f.loadPreset(res.path)
		}
	default:
	}
}

func (f *Forest) reloadConfig() {
	cfg, err := config.Load()
	if err != nil {
		f.log.Warn("config reload failed", zap.Error(err))
		f.setStatus("Config reload failed: %v", err)
		return
	}
	f.cfg.Forest = cfg.Forest
	f.cfg.Lighting = cfg.Lighting
	f.params = cfg.Forest.Clone()
	f.light = cfg.Lighting.Directional()
	f.syncSliders()
	f.rebuild()
	f.log.Info("config reloaded")
	f.setStatus("Config reloaded")
}

func (f *Forest) loadPreset(path string) {
	p, err := config.LoadPreset(path)
	if err != nil {
		f.log.Warn("preset load failed", zap.String("path", path), zap.Error(err))
		f.setStatus("Load failed: %v", err)
		return
	}
	f.params = p.Forest.Clone()
	f.light = p.Lighting.Directional()
	f.syncSliders()
	f.rebuild()
	f.setStatus("Loaded %s", path)
}

func (f *Forest) savePreset(path string) {
	f.cfg.Forest = f.params.Clone()
	f.cfg.Lighting = config.LightingConfig{
		ReverseDirection: [3]float32{f.light.ReverseDir.X, f.light.ReverseDir.Y, f.light.ReverseDir.Z},
		Ambient:          f.light.Ambient,
		DiffuseScale:     f.light.DiffuseScale,
		DiffuseBias:      f.light.DiffuseBias,
	}
	if err := config.SavePreset(path, f.cfg.Preset()); err != nil {
		f.log.Warn("preset save failed", zap.String("path", path), zap.Error(err))
		f.setStatus("Save failed: %v", err)
		return
	}
	f.setStatus("Saved %s", path)
}

// openPresetDialog shows a native file dialog without blocking the frame.
func (f *Forest) openPresetDialog(save bool) {
	go func() {
		builder := dialog.File().
			Filter("YAML Presets", "yaml", "yml").
			Filter("All Files", "*")

		var (
			path string
			err  error
		)
		if save {
			path, err = builder.Title("Save Forest Preset").Save()
		} else {
			path, err = builder.Title("Open Forest Preset").Load()
		}
		if err != nil {
			if err != dialog.ErrCancelled {
				f.log.Warn("file dialog error", zap.Error(err))
			}
			return
		}

		select {
		case f.dialogs <- dialogResult{save: save, path: path}:
		default:
		}
	}()
}

func (f *Forest) renderMenuBar() {
	if imgui.BeginMainMenuBar() {
		if imgui.BeginMenu("File") {
			if imgui.MenuItemBool("Open Preset...") {
				f.openPresetDialog(false)
			}
			if imgui.MenuItemBool("Save Preset...") {
				f.openPresetDialog(true)
			}
			imgui.Separator()
			if imgui.MenuItemBool("Screenshot (F12)") {
				f.screenshotRequested = true
			}
			imgui.EndMenu()
		}
		imgui.EndMainMenuBar()
	}
}

func (f *Forest) renderControls() {
	snap := f.store.Current()
	imgui.Text(fmt.Sprintf("Objects: %d", snap.Len()))
	if rows, cols := snap.Shape(); rows > 0 {
		imgui.Text(fmt.Sprintf("Grid: %d x %d", rows, cols))
	}
	imgui.Text(fmt.Sprintf("Ground: %.0f", snap.PlaneSize))
	imgui.TextDisabled(fmt.Sprintf("Generation %d", snap.Generation))
	imgui.TextDisabled(f.renderer.Stats())

	imgui.Separator()
	changed := false

	imgui.Text("Placement")
	if imgui.RadioButtonBool("Grid", f.params.Mode == forest.ModeGrid) {
		f.params.Mode = forest.ModeGrid
		changed = true
	}
	imgui.SameLine()
	if imgui.RadioButtonBool("Scatter", f.params.Mode == forest.ModeScatter) {
		f.params.Mode = forest.ModeScatter
		changed = true
	}

	imgui.SetNextItemWidth(-1)
	if f.params.Mode == forest.ModeGrid {
		changed = imgui.SliderFloatV("##Density", &f.params.Density, 0.25, 4, "density %.2f", imgui.SliderFlagsNone) || changed
		imgui.SetNextItemWidth(-1)
		changed = imgui.SliderFloatV("##ForestSize", &f.params.ForestSize, 0.1, 5, "size %.2f", imgui.SliderFlagsNone) || changed
		imgui.SetNextItemWidth(-1)
		changed = imgui.SliderFloatV("##Spacing", &f.params.BaseSpacing, 100, 2000, "spacing %.0f", imgui.SliderFlagsNone) || changed
	} else {
		count := int32(f.params.ScatterCount)
		if imgui.SliderIntV("##Count", &count, 0, 5000, "count %d", imgui.SliderFlagsNone) {
			f.params.ScatterCount = int(count)
			changed = true
		}
		imgui.SetNextItemWidth(-1)
		changed = imgui.SliderFloatV("##Extent", &f.params.ScatterExtent, 500, 20000, "extent %.0f", imgui.SliderFlagsNone) || changed
	}

	imgui.Spacing()
	imgui.Text("Weights")
	for _, c := range forest.Categories {
		imgui.SetNextItemWidth(-1)
		label := fmt.Sprintf("##Weight%d", c)
		changed = imgui.SliderFloatV(label, &f.weights[c], 0, 1, c.String()+" %.2f", imgui.SliderFlagsNone) || changed
	}
	dist := snap.Distribution
	for _, w := range dist.Entries() {
		imgui.TextDisabled(fmt.Sprintf("%s: %.0f%%", w.Category, w.Weight*100))
	}

	imgui.Spacing()
	if imgui.Checkbox("Fixed seed", &f.fixedSeed) {
		if f.fixedSeed {
			f.params.Seed = rand.Uint64() | 1
		} else {
			f.params.Seed = 0
		}
		changed = true
	}
	if f.fixedSeed {
		imgui.SameLine()
		imgui.TextDisabled(fmt.Sprintf("%d", f.params.Seed))
	}

	if imgui.Button("Regenerate (R)") {
		if f.fixedSeed {
			f.params.Seed = rand.Uint64() | 1
		}
		changed = true
	}

	if changed {
		f.rebuild()
	}

	imgui.Separator()
	imgui.Text("Light")
	lightChanged := false
	imgui.SetNextItemWidth(-1)
	lightChanged = imgui.SliderFloatV("##Azimuth", &f.sunAzimuth, 0, 360, "azimuth %.0f", imgui.SliderFlagsNone) || lightChanged
	imgui.SetNextItemWidth(-1)
	lightChanged = imgui.SliderFloatV("##Elevation", &f.sunElevation, 0, 90, "elevation %.0f", imgui.SliderFlagsNone) || lightChanged
	if lightChanged {
		f.light.ReverseDir = lighting.SunDirection(f.sunAzimuth, f.sunElevation)
	}
	imgui.SetNextItemWidth(-1)
	imgui.SliderFloatV("##Ambient", &f.light.Ambient, 0, 1, "ambient %.2f", imgui.SliderFlagsNone)

	imgui.Separator()
	imgui.Text("View")
	imgui.Checkbox("Bounds", &f.overlays.Bounds)
	imgui.SameLine()
	imgui.Checkbox("Lattice", &f.overlays.Lattice)
	if imgui.Checkbox("Pause spin", &f.paused) {
		if f.paused {
			f.pausedAt = float32(time.Since(f.start).Seconds())
		} else {
			// resume where the spin stopped
			f.start = time.Now().Add(-time.Duration(float64(f.pausedAt) * float64(time.Second)))
		}
	}
	if imgui.Button("Reset camera") {
		f.cam = f.cfg.Camera.NewCamera()
	}

	imgui.Separator()
	imgui.Text("Selection")
	f.renderSelection()

	imgui.Separator()
	if imgui.Button("Load preset") {
		f.openPresetDialog(false)
	}
	imgui.SameLine()
	if imgui.Button("Save preset") {
		f.openPresetDialog(true)
	}

	if f.status != "" && time.Since(f.statusTime) < statusDuration {
		imgui.Spacing()
		imgui.TextWrapped(f.status)
	}
}

// renderScene draws the forest into the offscreen framebuffer and shows it.
func (f *Forest) renderScene() {
	avail := imgui.ContentRegionAvail()
	w, h := int32(avail.X), int32(avail.Y)
	if w < 1 || h < 1 {
		return
	}
	if fw, fh := f.fb.Size(); fw != w || fh != h {
		f.fb.Resize(w, h)
	}

	restore := f.fb.BindWithViewport()
	f.fb.Clear(f.cfg.Graphics.ClearColor)
	f.renderer.Render(f.store.Current(), f.seconds(), f.cam, f.fb.Aspect(), f.light, f.overlays)
	if f.screenshotRequested {
		f.screenshotRequested = false
		f.captureScreenshot()
	}
	restore()

	in := f.view.Draw(f.fb.ColorTexture(), avail.X, avail.Y)
	if in.Hovered {
		if in.DragX != 0 || in.DragY != 0 {
			f.cam.HandleDrag(in.DragX, in.DragY)
		}
		if in.Wheel != 0 {
			f.cam.HandleZoom(in.Wheel * zoomSensitivity)
		}
		if in.Clicked {
			f.pick(in.MouseX, in.MouseY, avail.X, avail.Y)
		}
	}
}

// pick selects the instance under the given view position.
func (f *Forest) pick(x, y, w, h float32) {
	inv := f.cam.ViewProjection(w / h).Inverse()
	ray := picking.ScreenToRay(x, y, w, h, inv)

	hit, ok := picking.PickInstance(ray, f.renderer.Instances(), f.lib)
	if !ok {
		f.clearSelection()
		return
	}
	f.selected = &hit
	f.overlays.Highlight = true
	f.overlays.HighlightIndex = hit.Index
}

func (f *Forest) clearSelection() {
	f.selected = nil
	f.overlays.Highlight = false
}

// renderSelection describes the picked instance.
func (f *Forest) renderSelection() {
	if f.selected == nil {
		imgui.TextDisabled("Click an object to select it")
		return
	}
	inst := f.selected.Instance
	name := "?"
	if v := f.lib.Variant(inst.Category, inst.Variant); v != nil {
		name = v.Name
	}
	imgui.Text(fmt.Sprintf("%s #%d", inst.Category, inst.Variant))
	imgui.TextDisabled(name)
	imgui.Text(fmt.Sprintf("at %.0f, %.0f", inst.Position.X, inst.Position.Z))
	imgui.Text(fmt.Sprintf("rotation %.0f deg", inst.Rotation*180/math32.Pi))
}

func (f *Forest) captureScreenshot() {
	img, err := f.fb.ReadImage()
	if err != nil {
		f.log.Warn("screenshot readback failed", zap.Error(err))
		return
	}
	path, err := f.shots.CaptureFromImage(img)
	if err != nil {
		f.log.Warn("screenshot failed", zap.Error(err))
		f.setStatus("Screenshot failed: %v", err)
		return
	}
	f.log.Info("screenshot saved", zap.String("path", path))
	f.setStatus("Saved %s", path)
}
