// Package recon holds reconstruction parameterization and the simulated
// reconstruction engine the scan step runs against.
package recon

import (
	"fmt"
	"math"
)

// Kernel selects the convolution kernel family applied during
// reconstruction.
type Kernel string

const (
	KernelSoft     Kernel = "soft"
	KernelStandard Kernel = "standard"
	KernelBone     Kernel = "bone"
	KernelLung     Kernel = "lung"
)

// Kernels lists the selectable kernels in display order.
func Kernels() []Kernel {
	return []Kernel{KernelSoft, KernelStandard, KernelBone, KernelLung}
}

// Valid reports whether k is a known kernel.
func (k Kernel) Valid() bool {
	for _, known := range Kernels() {
		if k == known {
			return true
		}
	}
	return false
}

// Params is the operator-editable reconstruction parameter set.
type Params struct {
	Kernel           Kernel  `json:"kernel" yaml:"kernel"`
	SliceThicknessMM float64 `json:"slice_thickness_mm" yaml:"slice_thickness_mm"`
	SliceIncrementMM float64 `json:"slice_increment_mm" yaml:"slice_increment_mm"`
	MatrixSize       int     `json:"matrix_size" yaml:"matrix_size"`

	// PixelSpacingMM is the longitudinal size of one scout pixel. It comes
	// from the protocol, not the operator.
	PixelSpacingMM float64 `json:"pixel_spacing_mm" yaml:"pixel_spacing_mm"`
}

// Default returns a standard body reconstruction.
func Default() Params {
	return Params{
		Kernel:           KernelStandard,
		SliceThicknessMM: 5,
		SliceIncrementMM: 5,
		MatrixSize:       512,
		PixelSpacingMM:   1,
	}
}

// Validate checks the parameter set before it is handed to the engine.
func (p Params) Validate() error {
	if !p.Kernel.Valid() {
		return fmt.Errorf("unknown kernel %q", p.Kernel)
	}
	if p.SliceThicknessMM <= 0 {
		return fmt.Errorf("slice thickness must be positive, got %g", p.SliceThicknessMM)
	}
	if p.SliceIncrementMM <= 0 {
		return fmt.Errorf("slice increment must be positive, got %g", p.SliceIncrementMM)
	}
	if p.MatrixSize != 256 && p.MatrixSize != 512 && p.MatrixSize != 1024 {
		return fmt.Errorf("matrix size must be 256, 512, or 1024, got %d", p.MatrixSize)
	}
	if p.PixelSpacingMM <= 0 {
		return fmt.Errorf("pixel spacing must be positive, got %g", p.PixelSpacingMM)
	}
	return nil
}

// SliceCount derives how many slices cover a z-extent of the given number of
// scout pixels. The first slice sits at the start line; the rest follow at
// the increment.
func (p Params) SliceCount(zExtentPx int) int {
	if zExtentPx <= 0 {
		return 0
	}
	extentMM := float64(zExtentPx) * p.PixelSpacingMM
	return 1 + int(math.Floor(extentMM/p.SliceIncrementMM))
}
