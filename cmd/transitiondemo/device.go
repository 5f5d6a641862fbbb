package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"log/slog"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_portability_subset"
)

var validationLayers = []string{"VK_LAYER_KHRONOS_validation"}

type TransitionDemo struct {
	enableValidation bool
	logger           *slog.Logger

	window *sdl.Window

	globalDriver   core1_0.GlobalDriver
	instanceDriver core1_0.CoreInstanceDriver
	deviceDriver   core1_0.CoreDeviceDriver

	debugDriver    ext_debug_utils.ExtensionDriver
	debugMessenger ext_debug_utils.DebugUtilsMessenger

	physicalDevice core1_0.PhysicalDevice
	graphicsFamily int
	graphicsQueue  core1_0.Queue

	commandPool core1_0.CommandPool

	vertexStaging       core1_0.Buffer
	vertexStagingMemory core1_0.DeviceMemory
	vertexBuffer        core1_0.Buffer
	vertexBufferMemory  core1_0.DeviceMemory

	pixelStaging       core1_0.Buffer
	pixelStagingMemory core1_0.DeviceMemory
	textureImage       core1_0.Image
	textureImageMemory core1_0.DeviceMemory
}

func (app *TransitionDemo) Run() error {
	err := app.initWindow()
	if err != nil {
		return err
	}
	defer app.cleanup()

	err = app.initVulkan()
	if err != nil {
		return err
	}

	return app.recordUpload()
}

// The window is never shown, it only loads the Vulkan library for us.
func (app *TransitionDemo) initWindow() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return errors.Wrap(err, "initialize sdl")
	}

	window, err := sdl.CreateWindow("transitiondemo", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, 1, 1, sdl.WINDOW_HIDDEN|sdl.WINDOW_VULKAN)
	if err != nil {
		return errors.Wrap(err, "create window")
	}
	app.window = window

	app.globalDriver, err = core.CreateDriverFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return errors.Wrap(err, "load vulkan")
	}

	return nil
}

func (app *TransitionDemo) initVulkan() error {
	err := app.createInstance()
	if err != nil {
		return err
	}

	err = app.setupDebugMessenger()
	if err != nil {
		return err
	}

	err = app.pickPhysicalDevice()
	if err != nil {
		return err
	}

	err = app.createLogicalDevice()
	if err != nil {
		return err
	}

	err = app.createCommandPool()
	if err != nil {
		return err
	}

	err = app.createVertexBuffer()
	if err != nil {
		return err
	}

	return app.createTextureImage()
}

func (app *TransitionDemo) cleanup() {
	if app.textureImage.Initialized() {
		app.deviceDriver.DestroyImage(app.textureImage, nil)
	}

	if app.textureImageMemory.Initialized() {
		app.deviceDriver.FreeMemory(app.textureImageMemory, nil)
	}

	if app.pixelStaging.Initialized() {
		app.deviceDriver.DestroyBuffer(app.pixelStaging, nil)
	}

	if app.pixelStagingMemory.Initialized() {
		app.deviceDriver.FreeMemory(app.pixelStagingMemory, nil)
	}

	if app.vertexBuffer.Initialized() {
		app.deviceDriver.DestroyBuffer(app.vertexBuffer, nil)
	}

	if app.vertexBufferMemory.Initialized() {
		app.deviceDriver.FreeMemory(app.vertexBufferMemory, nil)
	}

	if app.vertexStaging.Initialized() {
		app.deviceDriver.DestroyBuffer(app.vertexStaging, nil)
	}

	if app.vertexStagingMemory.Initialized() {
		app.deviceDriver.FreeMemory(app.vertexStagingMemory, nil)
	}

	if app.commandPool.Initialized() {
		app.deviceDriver.DestroyCommandPool(app.commandPool, nil)
	}

	if app.deviceDriver != nil {
		app.deviceDriver.DestroyDevice(nil)
	}

	if app.debugMessenger.Initialized() {
		app.debugDriver.DestroyDebugUtilsMessenger(app.debugMessenger, nil)
	}

	if app.instanceDriver != nil {
		app.instanceDriver.DestroyInstance(nil)
	}

	if app.window != nil {
		app.window.Destroy()
	}
	sdl.Quit()
}

func (app *TransitionDemo) createInstance() error {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:    "transitiondemo",
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	extensions, _, err := app.globalDriver.AvailableExtensions()
	if err != nil {
		return err
	}

	if app.enableValidation {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, ext_debug_utils.ExtensionName)
	}

	_, enumerationSupported := extensions[khr_portability_enumeration.ExtensionName]
	if enumerationSupported {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		instanceOptions.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	if app.enableValidation {
		layers, _, err := app.globalDriver.AvailableLayers()
		if err != nil {
			return err
		}

		for _, layer := range validationLayers {
			_, hasValidation := layers[layer]
			if !hasValidation {
				return errors.Newf("createInstance: validation layer %s not available, install the LunarG Vulkan SDK", layer)
			}
			instanceOptions.EnabledLayerNames = append(instanceOptions.EnabledLayerNames, layer)
		}

		instanceOptions.Next = app.debugMessengerOptions()
	}

	app.instanceDriver, _, err = app.globalDriver.CreateInstance(nil, instanceOptions)
	return err
}

func (app *TransitionDemo) debugMessengerOptions() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    app.logDebug,
	}
}

func (app *TransitionDemo) setupDebugMessenger() error {
	if !app.enableValidation {
		return nil
	}

	var err error
	app.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(app.instanceDriver)
	app.debugMessenger, _, err = app.debugDriver.CreateDebugUtilsMessenger(nil, app.debugMessengerOptions())
	return err
}

func (app *TransitionDemo) pickPhysicalDevice() error {
	physicalDevices, _, err := app.instanceDriver.EnumeratePhysicalDevices()
	if err != nil {
		return err
	}

	for _, device := range physicalDevices {
		family, found := app.findGraphicsFamily(device)
		if found {
			app.physicalDevice = device
			app.graphicsFamily = family
			break
		}
	}

	if !app.physicalDevice.Initialized() {
		return errors.New("failed to find a GPU with a graphics queue")
	}

	properties, err := app.instanceDriver.GetPhysicalDeviceProperties(app.physicalDevice)
	if err != nil {
		return err
	}
	app.logger.Info("picked physical device", slog.String("name", properties.DeviceName), slog.Int("queueFamily", app.graphicsFamily))

	return nil
}

func (app *TransitionDemo) findGraphicsFamily(device core1_0.PhysicalDevice) (int, bool) {
	queueFamilies := app.instanceDriver.GetPhysicalDeviceQueueFamilyProperties(device)

	for queueFamilyIdx, queueFamily := range queueFamilies {
		if (queueFamily.QueueFlags & core1_0.QueueGraphics) != 0 {
			return queueFamilyIdx, true
		}
	}

	return 0, false
}

func (app *TransitionDemo) createLogicalDevice() error {
	var extensionNames []string

	// Makes this example compatible with vulkan portability, necessary to run on mobile & mac
	extensions, _, err := app.instanceDriver.EnumerateDeviceExtensionProperties(app.physicalDevice)
	if err != nil {
		return err
	}

	_, supported := extensions[khr_portability_subset.ExtensionName]
	if supported {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	app.deviceDriver, _, err = app.instanceDriver.CreateDevice(app.physicalDevice, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos: []core1_0.DeviceQueueCreateInfo{
			{
				QueueFamilyIndex: app.graphicsFamily,
				QueuePriorities:  []float32{1.0},
			},
		},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return err
	}

	app.graphicsQueue = app.deviceDriver.GetQueue(app.graphicsFamily, 0)
	return nil
}

func (app *TransitionDemo) createCommandPool() error {
	pool, _, err := app.deviceDriver.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		QueueFamilyIndex: app.graphicsFamily,
	})
	if err != nil {
		return err
	}

	app.commandPool = pool
	return nil
}

func (app *TransitionDemo) createVertexBuffer() error {
	var err error

	app.vertexStaging, app.vertexStagingMemory, err = app.createStaging(triangle)
	if err != nil {
		return errors.Wrap(err, "stage vertices")
	}

	app.vertexBuffer, app.vertexBufferMemory, err = app.createBuffer(binary.Size(triangle),
		core1_0.BufferUsageTransferDst|core1_0.BufferUsageVertexBuffer,
		core1_0.MemoryPropertyDeviceLocal)
	return errors.Wrap(err, "create vertex buffer")
}

func (app *TransitionDemo) createTextureImage() error {
	var err error

	app.pixelStaging, app.pixelStagingMemory, err = app.createStaging(checkerboard(textureSize, 8))
	if err != nil {
		return errors.Wrap(err, "stage pixels")
	}

	app.textureImage, app.textureImageMemory, err = app.createImage(textureSize, textureSize,
		core1_0.FormatR8G8B8A8UnsignedNormalized,
		core1_0.ImageUsageTransferDst|core1_0.ImageUsageSampled,
		core1_0.MemoryPropertyDeviceLocal)
	return errors.Wrap(err, "create texture")
}

func (app *TransitionDemo) createImage(width, height int, format core1_0.Format, usage core1_0.ImageUsageFlags, memoryProperties core1_0.MemoryPropertyFlags) (core1_0.Image, core1_0.DeviceMemory, error) {
	image, _, err := app.deviceDriver.CreateImage(nil, core1_0.ImageCreateInfo{
		ImageType: core1_0.ImageType2D,
		Extent: core1_0.Extent3D{
			Width:  width,
			Height: height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        format,
		Tiling:        core1_0.ImageTilingOptimal,
		InitialLayout: core1_0.ImageLayoutUndefined,
		Usage:         usage,
		SharingMode:   core1_0.SharingModeExclusive,
		Samples:       core1_0.Samples1,
	})
	if err != nil {
		return core1_0.Image{}, core1_0.DeviceMemory{}, err
	}

	memory, err := app.allocateMemory(app.deviceDriver.GetImageMemoryRequirements(image), memoryProperties)
	if err != nil {
		app.deviceDriver.DestroyImage(image, nil)
		return core1_0.Image{}, core1_0.DeviceMemory{}, err
	}

	_, err = app.deviceDriver.BindImageMemory(image, memory, 0)
	if err != nil {
		app.deviceDriver.DestroyImage(image, nil)
		app.deviceDriver.FreeMemory(memory, nil)
		return core1_0.Image{}, core1_0.DeviceMemory{}, err
	}
	return image, memory, nil
}

// createBuffer returns an exclusive buffer bound to its own allocation. On
// error nothing is left to clean up.
func (app *TransitionDemo) createBuffer(size int, usage core1_0.BufferUsageFlags, properties core1_0.MemoryPropertyFlags) (core1_0.Buffer, core1_0.DeviceMemory, error) {
	buffer, _, err := app.deviceDriver.CreateBuffer(nil, core1_0.BufferCreateInfo{
		Size:        size,
		Usage:       usage,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return core1_0.Buffer{}, core1_0.DeviceMemory{}, err
	}

	memory, err := app.allocateMemory(app.deviceDriver.GetBufferMemoryRequirements(buffer), properties)
	if err != nil {
		app.deviceDriver.DestroyBuffer(buffer, nil)
		return core1_0.Buffer{}, core1_0.DeviceMemory{}, err
	}

	_, err = app.deviceDriver.BindBufferMemory(buffer, memory, 0)
	if err != nil {
		app.deviceDriver.DestroyBuffer(buffer, nil)
		app.deviceDriver.FreeMemory(memory, nil)
		return core1_0.Buffer{}, core1_0.DeviceMemory{}, err
	}
	return buffer, memory, nil
}

// createStaging returns a host coherent transfer source holding data, encoded
// in the device byte order.
func (app *TransitionDemo) createStaging(data any) (core1_0.Buffer, core1_0.DeviceMemory, error) {
	var contents bytes.Buffer
	if err := binary.Write(&contents, common.ByteOrder, data); err != nil {
		return core1_0.Buffer{}, core1_0.DeviceMemory{}, errors.Wrap(err, "encode staging data")
	}

	buffer, memory, err := app.createBuffer(contents.Len(), core1_0.BufferUsageTransferSrc,
		core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent)
	if err != nil {
		return core1_0.Buffer{}, core1_0.DeviceMemory{}, err
	}

	ptr, _, err := app.deviceDriver.MapMemory(memory, 0, contents.Len(), 0)
	if err != nil {
		app.deviceDriver.DestroyBuffer(buffer, nil)
		app.deviceDriver.FreeMemory(memory, nil)
		return core1_0.Buffer{}, core1_0.DeviceMemory{}, err
	}
	copy(unsafe.Slice((*byte)(ptr), contents.Len()), contents.Bytes())
	app.deviceDriver.UnmapMemory(memory)

	return buffer, memory, nil
}

// allocateMemory allocates reqs.Size bytes from the first memory type allowed
// by reqs that has every one of properties.
func (app *TransitionDemo) allocateMemory(reqs *core1_0.MemoryRequirements, properties core1_0.MemoryPropertyFlags) (core1_0.DeviceMemory, error) {
	memProperties := app.instanceDriver.GetPhysicalDeviceMemoryProperties(app.physicalDevice)
	for i, memoryType := range memProperties.MemoryTypes {
		if reqs.MemoryTypeBits&(1<<i) == 0 || memoryType.PropertyFlags&properties != properties {
			continue
		}

		memory, _, err := app.deviceDriver.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
			AllocationSize:  reqs.Size,
			MemoryTypeIndex: i,
		})
		return memory, errors.Wrapf(err, "allocate %d bytes", reqs.Size)
	}

	return core1_0.DeviceMemory{}, errors.Newf("no memory type in %#x has properties %v", reqs.MemoryTypeBits, properties)
}

func (app *TransitionDemo) logDebug(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	level := slog.LevelWarn
	if severity&ext_debug_utils.SeverityError != 0 {
		level = slog.LevelError
	}
	app.logger.Log(context.Background(), level, data.Message, slog.Any("type", msgType))
	return false
}
