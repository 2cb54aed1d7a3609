package vulkan

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/goki/vulkan"

	"github.com/tylercaldwell27/prism/engine/assets"
	"github.com/tylercaldwell27/prism/engine/core"
	"github.com/tylercaldwell27/prism/engine/mesh"
	"github.com/tylercaldwell27/prism/engine/platform"
)

// RendererConfig names the assets and knobs the renderer is built from.
type RendererConfig struct {
	AppName        string
	VSync          bool
	Debug          bool
	ModelPath      string
	TexturePath    string
	VertShaderPath string
	FragShaderPath string

	// Receives validation messages when Debug is set. Nil means the
	// engine log.
	Reporter DebugReporter
}

type Renderer struct {
	platform *platform.Platform
	config   RendererConfig
	context  *Context

	FrameNumber uint64

	cachedFramebufferWidth  uint32
	cachedFramebufferHeight uint32

	renderpass       *Renderpass
	pipeline         *Pipeline
	descriptorLayout vk.DescriptorSetLayout
	uniforms         *UniformSet
	texture          *Texture
	geometry         *Geometry
	transfer         *TransferEngine

	// Pre-recorded, one per swapchain image.
	commandBuffers []*CommandBuffer

	// Sync primitives, one per frame slot.
	imageAvailableSemaphores []vk.Semaphore
	renderFinishedSemaphores []vk.Semaphore
	inFlightFences           []*Fence
	frames                   *FrameSync

	// Model spin in degrees, advanced by wall-clock delta.
	rotationDeg float32
}

func New(p *platform.Platform, config RendererConfig) *Renderer {
	if config.Reporter == nil {
		config.Reporter = logReporter{}
	}
	return &Renderer{
		platform: p,
		config:   config,
		context: &Context{
			Allocator: nil,
		},
	}
}

func (r *Renderer) Initialize(appWidth, appHeight uint32) error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		return fmt.Errorf("vulkan loader not found")
	}
	vk.SetGetInstanceProcAddr(procAddr)
	if err := vk.Init(); err != nil {
		return fmt.Errorf("failed to initialize vulkan: %w", err)
	}

	r.context.FramebufferWidth = appWidth
	r.context.FramebufferHeight = appHeight

	if err := r.createInstance(); err != nil {
		return err
	}
	if r.config.Debug {
		if err := r.createDebugMessenger(); err != nil {
			return err
		}
	}

	surfacePtr, err := r.platform.Window.CreateWindowSurface(r.context.Instance, nil)
	if err != nil {
		return fmt.Errorf("failed to create window surface: %w", err)
	}
	r.context.Surface = vk.SurfaceFromPointer(surfacePtr)
	core.LogDebug("vulkan surface created")

	if err := DeviceCreate(r.context); err != nil {
		return err
	}

	sc, err := SwapchainCreate(r.context, r.context.FramebufferWidth, r.context.FramebufferHeight, r.config.VSync)
	if err != nil {
		return err
	}
	r.context.Swapchain = sc
	r.context.FramebufferWidth = sc.Extent.Width
	r.context.FramebufferHeight = sc.Extent.Height

	rp, err := RenderpassCreate(r.context, [4]float32{0, 0, 0.1, 1}, 1.0, 0)
	if err != nil {
		return err
	}
	r.renderpass = rp

	if err := r.regenerateFramebuffers(); err != nil {
		return err
	}

	layout, err := DescriptorSetLayoutCreate(r.context)
	if err != nil {
		return err
	}
	r.descriptorLayout = layout

	pipeline, err := PipelineCreate(r.context, r.renderpass, r.descriptorLayout, r.config.VertShaderPath, r.config.FragShaderPath)
	if err != nil {
		return err
	}
	r.pipeline = pipeline

	r.transfer = NewTransferEngine(r.context, r.context.Device.GraphicsCommandPool, r.context.Device.GraphicsQueue)

	if err := r.loadResources(); err != nil {
		return err
	}

	uniforms, err := NewUniformSet(r.context, r.descriptorLayout, sc.ImageCount, r.texture)
	if err != nil {
		return err
	}
	r.uniforms = uniforms

	if err := r.createCommandBuffers(); err != nil {
		return err
	}
	if err := r.recordCommandBuffers(); err != nil {
		return err
	}

	if err := r.createSyncObjects(); err != nil {
		return err
	}

	core.LogInfo("vulkan renderer initialized")
	return nil
}

func (r *Renderer) createInstance() error {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(r.config.AppName),
		PEngineName:        VulkanSafeString("Prism"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	requiredExtensions := []string{"VK_KHR_surface"}
	requiredExtensions = append(requiredExtensions, r.platform.GetRequiredExtensionNames()...)
	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		createInfo.Flags |= 1
	}
	if r.config.Debug {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)
	}
	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)

	var layers []string
	if r.config.Debug {
		layers = []string{"VK_LAYER_KHRONOS_validation"}
		if err := verifyValidationLayers(layers); err != nil {
			return err
		}
	}
	createInfo.EnabledLayerCount = uint32(len(layers))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(layers)

	if res := vk.CreateInstance(&createInfo, r.context.Allocator, &r.context.Instance); res != vk.Success {
		err := fmt.Errorf("failed to create vulkan instance: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	if err := vk.InitInstance(r.context.Instance); err != nil {
		core.LogError(err.Error())
		return err
	}

	core.LogInfo("vulkan instance created")
	return nil
}

func verifyValidationLayers(required []string) error {
	var count uint32
	if res := vk.EnumerateInstanceLayerProperties(&count, nil); res != vk.Success {
		return fmt.Errorf("failed to enumerate instance layers: %s", VulkanResultString(res))
	}
	available := make([]vk.LayerProperties, count)
	if res := vk.EnumerateInstanceLayerProperties(&count, available); res != vk.Success {
		return fmt.Errorf("failed to enumerate instance layers: %s", VulkanResultString(res))
	}

	for _, want := range required {
		found := false
		for i := range available {
			available[i].Deref()
			end := FindFirstZeroInByteArray(available[i].LayerName[:])
			if want == vk.ToString(available[i].LayerName[:end+1]) {
				found = true
				break
			}
		}
		if !found {
			err := fmt.Errorf("required validation layer missing: %s", want)
			core.LogError(err.Error())
			return err
		}
	}
	return nil
}

func (r *Renderer) createDebugMessenger() error {
	reporter := r.config.Reporter
	callback := func(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
		severity := DebugSeverityInfo
		switch {
		case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
			severity = DebugSeverityError
		case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0,
			flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
			severity = DebugSeverityWarning
		}
		reporter.Report(severity, fmt.Sprintf("[%s] code %d: %s", pLayerPrefix, messageCode, pMessage))
		return vk.Bool32(vk.False)
	}

	debugCreateInfo := vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
		PfnCallback: callback,
	}

	var dbg vk.DebugReportCallback
	if res := vk.CreateDebugReportCallback(r.context.Instance, &debugCreateInfo, r.context.Allocator, &dbg); res != vk.Success {
		err := fmt.Errorf("failed to create debug callback: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	r.context.debugMessenger = dbg
	core.LogDebug("vulkan debug messenger created")
	return nil
}

func (r *Renderer) loadResources() error {
	imageData, err := assets.LoadImage(r.config.TexturePath)
	if err != nil {
		return err
	}
	texture, err := TextureCreate(r.context, r.transfer, imageData)
	if err != nil {
		return err
	}
	r.texture = texture

	corners, err := assets.LoadModel(r.config.ModelPath)
	if err != nil {
		return err
	}
	vertices, indices := mesh.Deduplicate(corners)
	core.LogInfo("model loaded: %d corners deduplicated to %d vertices", len(corners), len(vertices))

	geometry, err := GeometryCreate(r.context, r.transfer, vertices, indices)
	if err != nil {
		return err
	}
	r.geometry = geometry
	return nil
}

func (r *Renderer) regenerateFramebuffers() error {
	sc := r.context.Swapchain
	sc.Framebuffers = make([]*Framebuffer, sc.ImageCount)
	for i := uint32(0); i < sc.ImageCount; i++ {
		// Resolve order matches the render pass: MSAA color, depth, then
		// the swapchain image as resolve target.
		attachments := []vk.ImageView{
			sc.ColorAttachment.View,
			sc.DepthAttachment.View,
			sc.Views[i],
		}
		fb, err := FramebufferCreate(r.context, r.renderpass, sc.Extent.Width, sc.Extent.Height, attachments)
		if err != nil {
			return err
		}
		sc.Framebuffers[i] = fb
	}
	return nil
}

func (r *Renderer) createCommandBuffers() error {
	sc := r.context.Swapchain
	r.commandBuffers = make([]*CommandBuffer, sc.ImageCount)
	for i := range r.commandBuffers {
		cb, err := NewCommandBuffer(r.context, r.context.Device.GraphicsCommandPool, true)
		if err != nil {
			return err
		}
		r.commandBuffers[i] = cb
	}
	return nil
}

// recordCommandBuffers bakes the draw for every swapchain image. Nothing in
// the frame loop re-records; only the uniform buffers change per frame.
func (r *Renderer) recordCommandBuffers() error {
	sc := r.context.Swapchain
	for i, cb := range r.commandBuffers {
		if err := cb.Begin(false, true); err != nil {
			return err
		}

		r.renderpass.Begin(cb.Handle, sc.Framebuffers[i].Handle, sc.Extent)
		vk.CmdBindPipeline(cb.Handle, vk.PipelineBindPointGraphics, r.pipeline.Handle)
		vk.CmdBindDescriptorSets(cb.Handle, vk.PipelineBindPointGraphics, r.pipeline.Layout,
			0, 1, []vk.DescriptorSet{r.uniforms.Sets[i]}, 0, nil)
		r.geometry.Draw(cb.Handle)
		r.renderpass.End(cb.Handle)

		if err := cb.End(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) createSyncObjects() error {
	sc := r.context.Swapchain
	slots := int(sc.MaxFramesInFlight)

	r.imageAvailableSemaphores = make([]vk.Semaphore, slots)
	r.renderFinishedSemaphores = make([]vk.Semaphore, slots)
	r.inFlightFences = make([]*Fence, slots)

	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	for i := 0; i < slots; i++ {
		if res := vk.CreateSemaphore(r.context.Device.LogicalDevice, &semaphoreCreateInfo, r.context.Allocator, &r.imageAvailableSemaphores[i]); res != vk.Success {
			err := fmt.Errorf("failed to create image-available semaphore: %s", VulkanResultString(res))
			core.LogError(err.Error())
			return err
		}
		if res := vk.CreateSemaphore(r.context.Device.LogicalDevice, &semaphoreCreateInfo, r.context.Allocator, &r.renderFinishedSemaphores[i]); res != vk.Success {
			err := fmt.Errorf("failed to create render-finished semaphore: %s", VulkanResultString(res))
			core.LogError(err.Error())
			return err
		}

		// Signaled at creation so the first wait on each slot returns
		// immediately.
		fence, err := NewFence(r.context, true)
		if err != nil {
			return err
		}
		r.inFlightFences[i] = fence
	}

	waiters := make([]Waiter, slots)
	for i, f := range r.inFlightFences {
		waiters[i] = f
	}
	frames, err := NewFrameSync(waiters, sc.ImageCount)
	if err != nil {
		return err
	}
	r.frames = frames
	return nil
}

// DrawFrame runs one iteration of the frame protocol: pace on the slot
// fence, acquire, guard the image, update uniforms, submit, present.
func (r *Renderer) DrawFrame(deltaTime float64) error {
	device := r.context.Device

	if r.context.RecreatingSwapchain {
		if result := vk.DeviceWaitIdle(device.LogicalDevice); !VulkanResultIsSuccess(result) {
			err := fmt.Errorf("DeviceWaitIdle failed while recreating swapchain: %s", VulkanResultString(result))
			core.LogError(err.Error())
			return err
		}
		return nil
	}

	// A resize event bumped the generation; rebuild before rendering.
	if r.context.FramebufferSizeGeneration != r.context.FramebufferSizeLastGeneration {
		if result := vk.DeviceWaitIdle(device.LogicalDevice); !VulkanResultIsSuccess(result) {
			err := fmt.Errorf("DeviceWaitIdle failed before swapchain recreation: %s", VulkanResultString(result))
			core.LogError(err.Error())
			return err
		}
		ok, err := r.recreateSwapchain()
		if err != nil {
			core.LogError("swapchain recreation failed: %v", err)
			return err
		}
		if !ok {
			// Zero-size framebuffer; try again next frame.
			return nil
		}
		core.LogInfo("swapchain resized, skipping frame")
		return nil
	}

	if err := r.frames.BeginFrame(math.MaxUint64); err != nil {
		core.LogWarn("in-flight fence wait failed: %v", err)
		return err
	}
	slot := r.frames.CurrentSlot()

	imageIndex, err := r.context.Swapchain.AcquireNextImageIndex(r.context, math.MaxUint64, r.imageAvailableSemaphores[slot], nil)
	if err != nil {
		if errors.Is(err, core.ErrSwapchainStale) {
			r.context.FramebufferSizeGeneration++
			return nil
		}
		return err
	}

	// Any older frame still rendering to this image retires first; only
	// then is its uniform buffer written and the slot fence reset for the
	// submit below.
	if err := r.frames.ClaimImageThenWrite(imageIndex, math.MaxUint64, func() {
		r.updateUniforms(imageIndex, deltaTime)
	}); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{r.imageAvailableSemaphores[slot]},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{r.commandBuffers[imageIndex].Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{r.renderFinishedSemaphores[slot]},
	}
	if res := vk.QueueSubmit(device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, r.inFlightFences[slot].Handle); res != vk.Success {
		err := fmt.Errorf("queue submit failed: %s", VulkanResultString(res))
		core.LogError(err.Error())
		return err
	}
	r.commandBuffers[imageIndex].UpdateSubmitted()

	err = r.context.Swapchain.Present(r.context, device.PresentQueue, r.renderFinishedSemaphores[slot], imageIndex)
	if err != nil {
		if errors.Is(err, core.ErrSwapchainStale) {
			r.context.FramebufferSizeGeneration++
		} else {
			return err
		}
	}

	r.frames.EndFrame()
	r.FrameNumber++
	return nil
}

// updateUniforms spins the model about Z at 90 degrees per second and
// writes the block for the image about to be rendered.
func (r *Renderer) updateUniforms(imageIndex uint32, deltaTime float64) {
	r.rotationDeg += float32(deltaTime) * 90
	for r.rotationDeg >= 360 {
		r.rotationDeg -= 360
	}

	extent := r.context.Swapchain.Extent
	aspect := float32(extent.Width) / float32(extent.Height)

	ubo := UniformBufferObject{
		Model: mgl32.HomogRotate3DZ(mgl32.DegToRad(r.rotationDeg)),
		View:  mgl32.LookAtV(mgl32.Vec3{2, 2, 2}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}),
		Proj:  mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.1, 10),
	}
	// GL clip space to Vulkan: Y points down.
	ubo.Proj[5] *= -1

	r.uniforms.Update(imageIndex, &ubo)
}

// Resized records the new framebuffer size. The swapchain is rebuilt at the
// top of the next DrawFrame, never mid-frame.
func (r *Renderer) Resized(width, height uint32) {
	r.cachedFramebufferWidth = width
	r.cachedFramebufferHeight = height
	r.context.FramebufferSizeGeneration++
	core.LogDebug("renderer resize requested: %dx%d (generation %d)", width, height, r.context.FramebufferSizeGeneration)
}

// recreateExtent picks the size to rebuild at: the size cached by the last
// resize event when present, otherwise the live framebuffer size. ok is
// false while the framebuffer is zero-sized (minimized) and the rebuild
// must wait.
func recreateExtent(cachedWidth, cachedHeight, fbWidth, fbHeight uint32) (uint32, uint32, bool) {
	width, height := cachedWidth, cachedHeight
	if width == 0 || height == 0 {
		width, height = fbWidth, fbHeight
	}
	if width == 0 || height == 0 {
		return 0, 0, false
	}
	return width, height, true
}

// recreateSwapchain rebuilds the swapchain and everything sized to it.
// (false, nil) means the rebuild is deferred: the framebuffer is zero-sized
// and the generation counters stay unequal, so it is retried next frame.
// Any error past that point is fatal; the old pipeline and framebuffers are
// already torn down and no frame may be submitted against them.
func (r *Renderer) recreateSwapchain() (bool, error) {
	if r.context.RecreatingSwapchain {
		return false, nil
	}
	fbWidth, fbHeight := r.platform.FramebufferExtent()
	width, height, ok := recreateExtent(r.cachedFramebufferWidth, r.cachedFramebufferHeight, fbWidth, fbHeight)
	if !ok {
		core.LogDebug("recreate deferred: framebuffer is zero-sized")
		return false, nil
	}

	r.context.RecreatingSwapchain = true
	defer func() { r.context.RecreatingSwapchain = false }()

	vk.DeviceWaitIdle(r.context.Device.LogicalDevice)

	oldImageCount := r.context.Swapchain.ImageCount

	for _, fb := range r.context.Swapchain.Framebuffers {
		fb.Destroy(r.context)
	}
	r.pipeline.Destroy(r.context)
	r.renderpass.Destroy(r.context)

	sc, err := r.context.Swapchain.Recreate(r.context, width, height, r.config.VSync)
	if err != nil {
		return false, err
	}
	r.context.Swapchain = sc
	r.context.FramebufferWidth = sc.Extent.Width
	r.context.FramebufferHeight = sc.Extent.Height
	r.context.FramebufferSizeLastGeneration = r.context.FramebufferSizeGeneration
	r.cachedFramebufferWidth = 0
	r.cachedFramebufferHeight = 0

	rp, err := RenderpassCreate(r.context, r.renderpass.ClearColor, r.renderpass.Depth, r.renderpass.Stencil)
	if err != nil {
		return false, err
	}
	r.renderpass = rp

	if err := r.regenerateFramebuffers(); err != nil {
		return false, err
	}

	pipeline, err := PipelineCreate(r.context, r.renderpass, r.descriptorLayout, r.config.VertShaderPath, r.config.FragShaderPath)
	if err != nil {
		return false, err
	}
	r.pipeline = pipeline

	// Image count can change with the new surface properties.
	if sc.ImageCount != oldImageCount {
		for _, cb := range r.commandBuffers {
			cb.Free(r.context, r.context.Device.GraphicsCommandPool)
		}
		r.uniforms.Destroy(r.context)

		uniforms, err := NewUniformSet(r.context, r.descriptorLayout, sc.ImageCount, r.texture)
		if err != nil {
			return false, err
		}
		r.uniforms = uniforms
		if err := r.createCommandBuffers(); err != nil {
			return false, err
		}
	}
	if err := r.recordCommandBuffers(); err != nil {
		return false, err
	}

	r.frames.Invalidate(sc.ImageCount)

	core.LogInfo("swapchain recreated at %dx%d", sc.Extent.Width, sc.Extent.Height)
	return true, nil
}

// ReloadTexture swaps the sampled texture for a fresh copy of the file and
// rebinds every descriptor set. Drains the device; meant for tooling, not
// the hot path.
func (r *Renderer) ReloadTexture(path string) error {
	imageData, err := assets.LoadImage(path)
	if err != nil {
		return err
	}

	texture, err := TextureCreate(r.context, r.transfer, imageData)
	if err != nil {
		return err
	}

	vk.DeviceWaitIdle(r.context.Device.LogicalDevice)
	r.uniforms.RebindTexture(r.context, texture)

	old := r.texture
	r.texture = texture
	old.Destroy(r.context)

	core.LogInfo("texture reloaded from %s", path)
	return nil
}

func (r *Renderer) Shutdown() error {
	if r.context.Device == nil || r.context.Device.LogicalDevice == nil {
		return nil
	}
	vk.DeviceWaitIdle(r.context.Device.LogicalDevice)

	// Opposite order of creation.
	for i := range r.inFlightFences {
		if r.inFlightFences[i] != nil {
			r.inFlightFences[i].Destroy()
		}
	}
	for _, s := range r.imageAvailableSemaphores {
		if s != vk.NullSemaphore {
			vk.DestroySemaphore(r.context.Device.LogicalDevice, s, r.context.Allocator)
		}
	}
	for _, s := range r.renderFinishedSemaphores {
		if s != vk.NullSemaphore {
			vk.DestroySemaphore(r.context.Device.LogicalDevice, s, r.context.Allocator)
		}
	}
	r.inFlightFences = nil
	r.imageAvailableSemaphores = nil
	r.renderFinishedSemaphores = nil

	for _, cb := range r.commandBuffers {
		if cb != nil && cb.Handle != nil {
			cb.Free(r.context, r.context.Device.GraphicsCommandPool)
		}
	}
	r.commandBuffers = nil

	if r.uniforms != nil {
		r.uniforms.Destroy(r.context)
	}
	if r.geometry != nil {
		r.geometry.Destroy(r.context)
	}
	if r.texture != nil {
		r.texture.Destroy(r.context)
	}
	if r.pipeline != nil {
		r.pipeline.Destroy(r.context)
	}
	if r.descriptorLayout != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(r.context.Device.LogicalDevice, r.descriptorLayout, r.context.Allocator)
		r.descriptorLayout = vk.NullDescriptorSetLayout
	}
	if r.renderpass != nil {
		r.renderpass.Destroy(r.context)
	}
	if r.context.Swapchain != nil {
		for _, fb := range r.context.Swapchain.Framebuffers {
			fb.Destroy(r.context)
		}
		r.context.Swapchain.Destroy(r.context)
	}

	core.LogDebug("destroying vulkan device")
	DeviceDestroy(r.context)

	if r.context.Surface != vk.NullSurface {
		vk.DestroySurface(r.context.Instance, r.context.Surface, r.context.Allocator)
		r.context.Surface = vk.NullSurface
	}
	if r.context.debugMessenger != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(r.context.Instance, r.context.debugMessenger, r.context.Allocator)
	}
	vk.DestroyInstance(r.context.Instance, r.context.Allocator)

	core.LogInfo("vulkan renderer shut down")
	return nil
}
