package protocol

import (
	"ct-console/internal/recon"
)

// HeadSpec returns the plain head protocol: thin slices, sharp kernel,
// small coverage.
func HeadSpec() Spec {
	return Spec{
		Name:           "head",
		DisplayName:    "CT Head Plain",
		Region:         "Head",
		PixelSpacingMM: 0.5,
		DefaultRecon: recon.Params{
			Kernel:           recon.KernelBone,
			SliceThicknessMM: 2.5,
			SliceIncrementMM: 2.5,
			MatrixSize:       512,
			PixelSpacingMM:   0.5,
		},
	}
}

// ChestSpec returns the high-resolution chest protocol.
func ChestSpec() Spec {
	return Spec{
		Name:           "chest",
		DisplayName:    "CT Chest HR",
		Region:         "Chest",
		PixelSpacingMM: 0.8,
		DefaultRecon: recon.Params{
			Kernel:           recon.KernelLung,
			SliceThicknessMM: 1.25,
			SliceIncrementMM: 1.0,
			MatrixSize:       512,
			PixelSpacingMM:   0.8,
		},
	}
}

// AbdomenSpec returns the contrast abdomen protocol: thicker slices, soft
// kernel.
func AbdomenSpec() Spec {
	return Spec{
		Name:           "abdomen",
		DisplayName:    "CT Abdomen Contrast",
		Region:         "Abdomen",
		PixelSpacingMM: 1.0,
		DefaultRecon: recon.Params{
			Kernel:           recon.KernelSoft,
			SliceThicknessMM: 5,
			SliceIncrementMM: 5,
			MatrixSize:       512,
			PixelSpacingMM:   1.0,
		},
	}
}
