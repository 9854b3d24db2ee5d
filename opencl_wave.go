//go:build opencl

package main

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

// openCLWaveSolver steps the 2D complex field on a GPU. Each field buffer is
// the host complex64 slice viewed as interleaved re/im floats, so uploads
// and downloads are single copies with no repacking.
type openCLWaveSolver struct {
	context           *cl.Context
	queue             *cl.CommandQueue
	program           *cl.Program
	kernel            *cl.Kernel
	clearMirrorKernel *cl.Kernel
	boundaryRowKernel *cl.Kernel
	boundaryColKernel *cl.Kernel
	currBuf           *cl.MemObject
	prevBuf           *cl.MemObject
	nextBuf           *cl.MemObject
	mirrorIndexBuf    *cl.MemObject
	width             int
	height            int
	mirrorIndices     []int32
	mirrorCount       int
	mirrorsSynced     bool
	deviceName        string
	coldStart         bool
	boundCurr         *cl.MemObject
	boundPrev         *cl.MemObject
	boundNext         *cl.MemObject
}

const waveKernelSource = `__kernel void wave_step(
    const int width,
    const int height,
    const float damp,
    const float speed,
    __global const float2* curr,
    __global const float2* prev,
    __global float2* next_buffer)
{
    int idx = get_global_id(0);
    int size = width * height;
    if (idx >= size) {
        return;
    }
    int x = idx % width;
    int y = idx / width;
    if (x <= 0 || x >= width - 1 || y <= 0 || y >= height - 1) {
        return;
    }
    float2 center = curr[idx];
    float2 laplacian = curr[idx - 1] + curr[idx + 1] + curr[idx - width] + curr[idx + width] - 4.0f * center;
    next_buffer[idx] = ((2.0f * center - prev[idx]) + speed * laplacian) * damp;
}

__kernel void clear_mirrors(
    __global float2* buffer,
    __global const int* mirror_indices,
    const int mirror_count)
{
    int gid = get_global_id(0);
    if (gid >= mirror_count) {
        return;
    }
    buffer[mirror_indices[gid]] = (float2)(0.0f, 0.0f);
}

__kernel void apply_boundary_rows(
    const int width,
    const int height,
    const float reflect,
    __global float2* buffer)
{
    int x = get_global_id(0);
    if (x >= width) {
        return;
    }
    int last_row = height - 1;
    buffer[x] = -buffer[width + x] * reflect;
    buffer[last_row * width + x] = -buffer[(last_row - 1) * width + x] * reflect;
}

__kernel void apply_boundary_cols(
    const int width,
    const int height,
    const float reflect,
    __global float2* buffer)
{
    int y = get_global_id(0) + 1;
    int last_row = height - 1;
    if (y >= last_row) {
        return;
    }
    int base = y * width;
    buffer[base] = -buffer[base + 1] * reflect;
    buffer[base + width - 1] = -buffer[base + width - 2] * reflect;
}`

func newOpenCLWaveSolver(width, height int) (*openCLWaveSolver, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available")
	}
	var device *cl.Device
	for _, p := range platforms {
		devices, derr := p.GetDevices(cl.DeviceTypeGPU)
		if derr != nil && derr != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			device = devices[0]
			break
		}
	}
	if device == nil {
		for _, p := range platforms {
			devices, derr := p.GetDevices(cl.DeviceTypeCPU)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				device = devices[0]
				break
			}
		}
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	solver := &openCLWaveSolver{width: width, height: height, deviceName: device.Name(), coldStart: true}
	fail := func(step string, err error) (*openCLWaveSolver, error) {
		solver.Close()
		return nil, fmt.Errorf("%s: %w", step, err)
	}

	if solver.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return fail("creating OpenCL context", err)
	}
	if solver.queue, err = solver.context.CreateCommandQueue(device, 0); err != nil {
		return fail("creating OpenCL command queue", err)
	}
	if solver.program, err = solver.context.CreateProgramWithSource([]string{waveKernelSource}); err != nil {
		return fail("creating OpenCL program", err)
	}
	if err = solver.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		if buildErr, ok := err.(cl.BuildError); ok {
			solver.Close()
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return fail("building OpenCL program", err)
	}
	if solver.kernel, err = solver.program.CreateKernel("wave_step"); err != nil {
		return fail("creating wave kernel", err)
	}
	if solver.clearMirrorKernel, err = solver.program.CreateKernel("clear_mirrors"); err != nil {
		return fail("creating mirror kernel", err)
	}
	if solver.boundaryRowKernel, err = solver.program.CreateKernel("apply_boundary_rows"); err != nil {
		return fail("creating boundary row kernel", err)
	}
	if solver.boundaryColKernel, err = solver.program.CreateKernel("apply_boundary_cols"); err != nil {
		return fail("creating boundary column kernel", err)
	}

	size := width * height
	// Two floats per complex cell.
	byteSize := size * 2 * int(unsafe.Sizeof(float32(0)))
	if solver.currBuf, err = solver.context.CreateEmptyBuffer(cl.MemReadWrite, byteSize); err != nil {
		return fail("allocating current buffer", err)
	}
	if solver.prevBuf, err = solver.context.CreateEmptyBuffer(cl.MemReadWrite, byteSize); err != nil {
		return fail("allocating previous buffer", err)
	}
	if solver.nextBuf, err = solver.context.CreateEmptyBuffer(cl.MemReadWrite, byteSize); err != nil {
		return fail("allocating next buffer", err)
	}
	if solver.mirrorIndexBuf, err = solver.context.CreateEmptyBuffer(cl.MemReadOnly, size*int(unsafe.Sizeof(int32(0)))); err != nil {
		return fail("allocating mirror index buffer", err)
	}

	if err = solver.kernel.SetArgs(
		int32(width),
		int32(height),
		fieldDamp32,
		fieldSpeed32,
		solver.currBuf,
		solver.prevBuf,
		solver.nextBuf,
	); err != nil {
		return fail("setting kernel arguments", err)
	}
	if err = solver.clearMirrorKernel.SetArgs(solver.nextBuf, solver.mirrorIndexBuf, int32(0)); err != nil {
		return fail("setting mirror kernel arguments", err)
	}
	reflect32 := float32(*boundaryReflectFlag)
	if err = solver.boundaryRowKernel.SetArgs(int32(width), int32(height), reflect32, solver.nextBuf); err != nil {
		return fail("setting boundary row kernel arguments", err)
	}
	if err = solver.boundaryColKernel.SetArgs(int32(width), int32(height), reflect32, solver.nextBuf); err != nil {
		return fail("setting boundary column kernel arguments", err)
	}
	return solver, nil
}

// floatView reinterprets a complex64 slice as its interleaved float parts.
func floatView(buf []complex64) []float32 {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&buf[0])), 2*len(buf))
}

func (s *openCLWaveSolver) ensureMirrorIndices(mirrors []bool) []int32 {
	size := s.width * s.height
	if len(mirrors) != size {
		s.mirrorIndices = s.mirrorIndices[:0]
		return s.mirrorIndices
	}
	if cap(s.mirrorIndices) < size {
		s.mirrorIndices = make([]int32, 0, size)
	} else {
		s.mirrorIndices = s.mirrorIndices[:0]
	}
	for i, m := range mirrors {
		if m {
			s.mirrorIndices = append(s.mirrorIndices, int32(i))
		}
	}
	return s.mirrorIndices
}

func (s *openCLWaveSolver) bindDynamicBuffers() error {
	if s.boundCurr != s.currBuf {
		if err := s.kernel.SetArgBuffer(4, s.currBuf); err != nil {
			return err
		}
		s.boundCurr = s.currBuf
	}
	if s.boundPrev != s.prevBuf {
		if err := s.kernel.SetArgBuffer(5, s.prevBuf); err != nil {
			return err
		}
		s.boundPrev = s.prevBuf
	}
	if s.boundNext != s.nextBuf {
		if err := s.kernel.SetArgBuffer(6, s.nextBuf); err != nil {
			return err
		}
		if err := s.clearMirrorKernel.SetArgBuffer(0, s.nextBuf); err != nil {
			return err
		}
		if err := s.boundaryRowKernel.SetArgBuffer(3, s.nextBuf); err != nil {
			return err
		}
		if err := s.boundaryColKernel.SetArgBuffer(3, s.nextBuf); err != nil {
			return err
		}
		s.boundNext = s.nextBuf
	}
	return nil
}

// Step advances the field the requested number of ticks on the device,
// re-uploading host state only when it changed.
func (s *openCLWaveSolver) Step(field *waveField, mirrors []bool, steps int, mirrorsDirty bool) error {
	if steps <= 0 {
		return nil
	}
	size := s.width * s.height
	if len(field.curr) != size || len(field.prev) != size || len(field.next) != size {
		return fmt.Errorf("unexpected field buffer size")
	}
	if field.currWasModified() {
		if _, err := s.queue.EnqueueWriteBufferFloat32(s.currBuf, false, 0, floatView(field.curr), nil); err != nil {
			return fmt.Errorf("writing current buffer: %w", err)
		}
		field.clearCurrDirty()
	}
	// The device keeps the previous buffer current after the first frame.
	if s.coldStart {
		if _, err := s.queue.EnqueueWriteBufferFloat32(s.prevBuf, false, 0, floatView(field.prev), nil); err != nil {
			return fmt.Errorf("writing previous buffer: %w", err)
		}
	}
	if !s.mirrorsSynced || mirrorsDirty {
		indices := s.ensureMirrorIndices(mirrors)
		s.mirrorCount = len(indices)
		if s.mirrorCount > 0 {
			ptr := unsafe.Pointer(&indices[0])
			byteLen := len(indices) * int(unsafe.Sizeof(int32(0)))
			if _, err := s.queue.EnqueueWriteBuffer(s.mirrorIndexBuf, false, 0, byteLen, ptr, nil); err != nil {
				return fmt.Errorf("writing mirror index buffer: %w", err)
			}
		}
		s.mirrorsSynced = true
	}
	if err := s.clearMirrorKernel.SetArgInt32(2, int32(s.mirrorCount)); err != nil {
		return fmt.Errorf("setting mirror count: %w", err)
	}
	global := []int{size}
	didSwap := false
	for step := 0; step < steps; step++ {
		if err := s.bindDynamicBuffers(); err != nil {
			return fmt.Errorf("binding buffers: %w", err)
		}
		if _, err := s.queue.EnqueueNDRangeKernel(s.kernel, nil, global, nil, nil); err != nil {
			return fmt.Errorf("enqueueing kernel: %w", err)
		}
		if s.mirrorCount > 0 {
			if _, err := s.queue.EnqueueNDRangeKernel(s.clearMirrorKernel, nil, []int{s.mirrorCount}, nil, nil); err != nil {
				return fmt.Errorf("clearing mirrors: %w", err)
			}
		}
		if s.height > 1 {
			if _, err := s.queue.EnqueueNDRangeKernel(s.boundaryRowKernel, nil, []int{s.width}, nil, nil); err != nil {
				return fmt.Errorf("applying boundary rows: %w", err)
			}
		}
		if s.height > 2 {
			if _, err := s.queue.EnqueueNDRangeKernel(s.boundaryColKernel, nil, []int{s.height - 2}, nil, nil); err != nil {
				return fmt.Errorf("applying boundary columns: %w", err)
			}
		}
		s.prevBuf, s.currBuf, s.nextBuf = s.currBuf, s.nextBuf, s.prevBuf
		didSwap = true
	}
	if _, err := s.queue.EnqueueReadBufferFloat32(s.currBuf, true, 0, floatView(field.curr), nil); err != nil {
		return fmt.Errorf("reading current buffer: %w", err)
	}
	if didSwap {
		if _, err := s.queue.EnqueueReadBufferFloat32(s.prevBuf, true, 0, floatView(field.prev), nil); err != nil {
			return fmt.Errorf("reading previous buffer: %w", err)
		}
	}
	s.coldStart = false
	return nil
}

func (s *openCLWaveSolver) Close() {
	for _, buf := range []**cl.MemObject{&s.mirrorIndexBuf, &s.nextBuf, &s.prevBuf, &s.currBuf} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}
	for _, k := range []**cl.Kernel{&s.kernel, &s.clearMirrorKernel, &s.boundaryRowKernel, &s.boundaryColKernel} {
		if *k != nil {
			(*k).Release()
			*k = nil
		}
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
}

func (s *openCLWaveSolver) DeviceName() string {
	return s.deviceName
}
