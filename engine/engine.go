package engine

import (
	"errors"
	"fmt"

	"github.com/tylercaldwell27/prism/engine/assets"
	"github.com/tylercaldwell27/prism/engine/containers"
	"github.com/tylercaldwell27/prism/engine/core"
	"github.com/tylercaldwell27/prism/engine/platform"
	"github.com/tylercaldwell27/prism/engine/renderer/vulkan"
)

type Engine struct {
	config   Config
	platform *platform.Platform
	renderer *vulkan.Renderer

	clock   *core.Clock
	metrics *core.Metrics

	watcher        *assets.Watcher
	pendingReloads *containers.RingQueue[string]

	isRunning   bool
	isSuspended bool
	lastTime    float64
	statTimer   float64
}

func New(cfg Config) (*Engine, error) {
	core.SetLogLevel(cfg.LogLevel)

	p := platform.New()
	return &Engine{
		config:   cfg,
		platform: p,
		renderer: vulkan.New(p, vulkan.RendererConfig{
			AppName:        cfg.Name,
			VSync:          cfg.VSync,
			Debug:          cfg.Debug,
			ModelPath:      cfg.Assets.Model,
			TexturePath:    cfg.Assets.Texture,
			VertShaderPath: cfg.Assets.VertShader,
			FragShaderPath: cfg.Assets.FragShader,
		}),
		clock:          core.NewClock(),
		metrics:        core.NewMetrics(),
		pendingReloads: containers.NewRingQueue[string](8),
		isRunning:      true,
	}, nil
}

func (e *Engine) Initialize() error {
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e, e.onResized)

	if err := e.platform.Startup(e.config.Name, e.config.Width, e.config.Height); err != nil {
		return err
	}

	if err := e.renderer.Initialize(e.config.Width, e.config.Height); err != nil {
		return err
	}

	if e.config.Assets.WatchTexture {
		watcher, err := assets.NewWatcher()
		if err != nil {
			// Hot reload is a convenience; run without it.
			core.LogWarn("asset watching disabled: %v", err)
		} else if err := watcher.Watch(e.config.Assets.Texture); err != nil {
			core.LogWarn("asset watching disabled: %v", err)
			watcher.Close()
		} else {
			e.watcher = watcher
		}
	}

	return nil
}

func (e *Engine) Run() error {
	defer e.shutdown()

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning {
		if !e.platform.PumpMessages() {
			e.isRunning = false
			break
		}

		if e.isSuspended {
			// Minimized; block until the window is worth rendering to.
			e.platform.WaitMessages()
			continue
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		e.lastTime = currentTime

		e.collectAssetChanges()
		e.applyAssetChanges()

		if err := e.renderer.DrawFrame(delta); err != nil {
			core.LogError("frame failed, shutting down: %v", err)
			e.isRunning = false
			return err
		}

		e.metrics.Update(delta)
		e.statTimer += delta
		if e.statTimer >= 1.0 {
			e.statTimer = 0
			core.LogDebug("%.0f fps, %.2f ms avg frame", e.metrics.FPS(), e.metrics.FrameTime())
		}
	}
	return nil
}

// RequestShutdown asks the run loop to exit after the current frame. Safe
// to call from any goroutine.
func (e *Engine) RequestShutdown() {
	core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
	e.platform.Wake()
}

// collectAssetChanges drains the watcher channel into the reload queue
// without blocking the frame.
func (e *Engine) collectAssetChanges() {
	if e.watcher == nil {
		return
	}
	for {
		select {
		case path := <-e.watcher.Changes():
			if err := e.pendingReloads.Enqueue(path); err != nil {
				if errors.Is(err, containers.ErrQueueFull) {
					core.LogWarn("reload queue full, dropping change for %s", path)
				}
			}
		default:
			return
		}
	}
}

func (e *Engine) applyAssetChanges() {
	for !e.pendingReloads.IsEmpty() {
		path, err := e.pendingReloads.Dequeue()
		if err != nil {
			return
		}
		if err := e.renderer.ReloadTexture(path); err != nil {
			core.LogError("texture reload failed for %s: %v", path, err)
		}
	}
}

func (e *Engine) shutdown() {
	if e.watcher != nil {
		e.watcher.Close()
		e.watcher = nil
	}
	if err := e.renderer.Shutdown(); err != nil {
		core.LogError("renderer shutdown: %v", err)
	}
	core.EventSystemShutdown()
	if err := e.platform.Shutdown(); err != nil {
		core.LogError("platform shutdown: %v", err)
	}
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, data core.EventContext) bool {
	if code == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("quit requested, shutting down")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onKey(code core.SystemEventCode, sender interface{}, data core.EventContext) bool {
	if code == core.EVENT_CODE_KEY_PRESSED && data.I32 == int32(platform.KeyEscape) {
		core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, e, core.EventContext{})
		return true
	}
	return false
}

func (e *Engine) onResized(code core.SystemEventCode, sender interface{}, data core.EventContext) bool {
	width, height := data.U32[0], data.U32[1]

	if width == 0 || height == 0 {
		core.LogInfo("window minimized, suspending")
		e.isSuspended = true
		return true
	}

	if e.isSuspended {
		core.LogInfo("window restored, resuming")
		e.isSuspended = false
	}
	e.renderer.Resized(width, height)
	return true
}
