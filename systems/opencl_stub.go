//go:build !opencl

package systems

import (
	"fmt"

	"github.com/pthm-cable/metaballs/game"
	"github.com/pthm-cable/metaballs/points"
)

// OpenCLUpdate is unavailable without the opencl build tag.
type OpenCLUpdate struct{}

// NewOpenCLUpdate always fails; rebuild with -tags opencl.
func NewOpenCLUpdate(int, Bounds, Growth) (*OpenCLUpdate, error) {
	return nil, fmt.Errorf("OpenCL support is not enabled, rebuild with -tags opencl: %w", game.ErrUnsupportedPlatform)
}

func (u *OpenCLUpdate) DeviceName() string { return "" }

func (u *OpenCLUpdate) Update(points.Writer) error { return game.ErrUnsupportedPlatform }

func (u *OpenCLUpdate) Close() {}
