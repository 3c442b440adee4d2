// Package fidelity judges how perceptible a hiding operation was by comparing
// an original image with its encoded copy.
//
// Five metrics are classified against empirically derived bands: MSE, PSNR,
// SSIM, the entropy delta and the BRISQUE delta. Each metric yields a tier
// (Good, Warn, Bad) and a perceptibility bit; the five bits are summed into a
// Verdict. BRISQUE is not computed here, it is supplied by a Scorer.
package fidelity
