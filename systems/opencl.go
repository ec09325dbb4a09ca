//go:build opencl

package systems

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"

	"github.com/pthm-cable/metaballs/game"
	"github.com/pthm-cable/metaballs/points"
)

const updateKernelSource = `__kernel void update_points(
    const int count,
    const float size,
    const int growth,
    const float radius_min,
    const float radius_max,
    __global float* pts)
{
    int i = get_global_id(0);
    if (i >= count) {
        return;
    }
    __global float* p = pts + i * 6;
    float cx = p[0];
    float cy = p[1];
    float vx = p[2];
    float vy = p[3];
    float r = p[4];
    float vr = p[5];

    if (growth) {
        float rate = fabs(vr);
        if (r <= radius_min) {
            r = radius_min;
            vr = rate;
        }
        if (r >= radius_max) {
            r = radius_max;
            vr = -rate;
        }
        r += vr;
    }

    if (r >= fabs(size - cy) || r >= fabs(cy)) {
        vy = -vy;
    }
    if (r >= fabs(cx) || r >= fabs(size - cx)) {
        vx = -vx;
    }

    p[0] = cx + vx;
    p[1] = cy + vy;
    p[2] = vx;
    p[3] = vy;
    p[4] = r;
    p[5] = vr;
}`

// OpenCLUpdate runs the update kernel on an OpenCL device.
type OpenCLUpdate struct {
	context *cl.Context
	queue   *cl.CommandQueue
	program *cl.Program
	kernel  *cl.Kernel
	buf     *cl.MemObject
	count   int
	device  string
}

// NewOpenCLUpdate compiles the update kernel for the first GPU, falling back
// to the first CPU device. No platform or device yields
// game.ErrUnsupportedPlatform.
func NewOpenCLUpdate(count int, bounds Bounds, growth Growth) (*OpenCLUpdate, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms"
		}
		return nil, fmt.Errorf("%s: %w", msg, errors.Join(game.ErrUnsupportedPlatform, err))
	}
	device := pickDevice(platforms, cl.DeviceTypeGPU)
	if device == nil {
		device = pickDevice(platforms, cl.DeviceTypeCPU)
	}
	if device == nil {
		return nil, game.ErrUnsupportedPlatform
	}

	u := &OpenCLUpdate{count: count, device: device.Name()}
	if u.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	if u.queue, err = u.context.CreateCommandQueue(device, 0); err != nil {
		u.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if u.program, err = u.context.CreateProgramWithSource([]string{updateKernelSource}); err != nil {
		u.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := u.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		u.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	if u.kernel, err = u.program.CreateKernel("update_points"); err != nil {
		u.Close()
		return nil, fmt.Errorf("creating OpenCL kernel: %w", err)
	}
	n := count
	if n < 1 {
		n = 1
	}
	if u.buf, err = u.context.CreateEmptyBuffer(cl.MemReadWrite, n*points.Stride*int(unsafe.Sizeof(float32(0)))); err != nil {
		u.Close()
		return nil, fmt.Errorf("allocating point buffer: %w", err)
	}

	var grow int32
	if growth.Enabled {
		grow = 1
	}
	if err := u.kernel.SetArgs(int32(count), bounds.Size, grow, growth.Min, growth.Max, u.buf); err != nil {
		u.Close()
		return nil, fmt.Errorf("setting kernel arguments: %w", err)
	}
	return u, nil
}

func pickDevice(platforms []*cl.Platform, kind cl.DeviceType) *cl.Device {
	for _, p := range platforms {
		devices, err := p.GetDevices(kind)
		if err != nil && err != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			return devices[0]
		}
	}
	return nil
}

// DeviceName reports the selected OpenCL device.
func (u *OpenCLUpdate) DeviceName() string { return u.device }

// Update uploads the points, runs one invocation per point and reads the
// result back into w.
func (u *OpenCLUpdate) Update(w points.Writer) error {
	data := w.Floats()
	if w.Len() != u.count {
		return fmt.Errorf("update: store holds %d points, device sized for %d", w.Len(), u.count)
	}
	if u.count == 0 {
		return nil
	}
	if _, err := u.queue.EnqueueWriteBufferFloat32(u.buf, false, 0, data, nil); err != nil {
		return fmt.Errorf("writing point buffer: %w", err)
	}
	if _, err := u.queue.EnqueueNDRangeKernel(u.kernel, nil, []int{u.count}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing kernel: %w", err)
	}
	if _, err := u.queue.EnqueueReadBufferFloat32(u.buf, true, 0, data, nil); err != nil {
		return fmt.Errorf("reading point buffer: %w", err)
	}
	return nil
}

// Close releases all OpenCL objects.
func (u *OpenCLUpdate) Close() {
	if u.buf != nil {
		u.buf.Release()
		u.buf = nil
	}
	if u.kernel != nil {
		u.kernel.Release()
		u.kernel = nil
	}
	if u.program != nil {
		u.program.Release()
		u.program = nil
	}
	if u.queue != nil {
		u.queue.Release()
		u.queue = nil
	}
	if u.context != nil {
		u.context.Release()
		u.context = nil
	}
}
