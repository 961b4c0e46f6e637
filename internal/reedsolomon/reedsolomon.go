// Package reedsolomon implements the ECC200 Reed-Solomon decoder over
// GF(2^8), as described in spec.md section 4.5 and grounded on
// original_source/datamatrix_decoder.cpp's repair().
package reedsolomon

import "github.com/go-dmtx/dmtx200/internal/gf256"

// Outcome is the decoder's result, mirroring spec.md section 4.5's
// failure contract.
type Outcome int

const (
	// OK means the stream had no errors.
	OK Outcome = iota
	// Repaired means errors were found and corrected in place.
	Repaired
	// Unrecoverable means the syndromes were nonzero but no valid error
	// locator could be found (zero or more than t roots).
	Unrecoverable
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "OK"
	case Repaired:
		return "REPAIRED"
	default:
		return "UNRECOVERABLE"
	}
}

// Decode corrects up to errorWords/2 byte errors in codewords in place.
// codewords must have length dataWords+errorWords, and index 0 is the
// most-significant (first-transmitted) codeword, matching the
// CodewordStream layout produced by the Codeword Assembler.
func Decode(codewords []byte, dataWords, errorWords int) Outcome {
	n := dataWords + errorWords
	t := errorWords / 2
	if t == 0 {
		return OK
	}

	// codewords[0] is the highest-degree coefficient:
	// S_i = sum_j codewords[j] * alpha^((n-1-j)*i).
	syndromes := make([]byte, 2*t+1) // 1-indexed; syndromes[0] unused
	allZero := true
	for i := 1; i <= 2*t; i++ {
		var s byte
		for j := 0; j < n; j++ {
			s = gf256.Add(s, gf256.Mul2(codewords[j], (n-1-j)*i))
		}
		syndromes[i] = s
		if s != 0 {
			allZero = false
		}
	}
	if allZero {
		return OK
	}

	// Error locator sigma: t x t system, row i (0-indexed) has
	// coefficients S_{t+i-k} for k=0..t-1, RHS S_{t+i+1}.
	sigmaPoly := make([]byte, t*t)
	sigmaSums := make([]byte, t)
	for i := 0; i < t; i++ {
		for k := 0; k < t; k++ {
			idx := t + i - k
			if idx >= 1 && idx <= 2*t {
				sigmaPoly[i*t+k] = syndromes[idx]
			}
		}
		idx := t + i + 1
		if idx >= 1 && idx <= 2*t {
			sigmaSums[i] = syndromes[idx]
		}
	}
	if !gf256.Gaussian(sigmaPoly, sigmaSums, t) {
		if t == 1 {
			return Unrecoverable
		}
		// Fewer than t errors make this system singular; solve the
		// (t-1)-error system from the first 2(t-1) syndromes instead.
		return Decode(codewords, n-2*(t-1), 2*(t-1))
	}
	sigma := sigmaSums // sigma[0..t-1] are the locator coefficients

	// Chien search: find i in [0, n) such that 1 + sum_k sigma[k]*alpha^-(i*k+i) == 0.
	var errorPositions []int
	for i := 0; i < n; i++ {
		sum := byte(1)
		for k := 0; k < t; k++ {
			sum = gf256.Add(sum, gf256.Div2(sigma[k], i*k+i))
		}
		if sum == 0 {
			errorPositions = append(errorPositions, i)
		}
	}
	e := len(errorPositions)
	if e == 0 || e > t {
		return Unrecoverable
	}

	// Error magnitudes: e x e system built directly from e of the known
	// syndromes (non-error codewords already contribute zero to every
	// syndrome, since they satisfy the generator's roots by construction):
	// sum_k Y_k * alpha^(X_k*(i+1)) = S_{i+1}, for i = 0..e-1.
	magPoly := make([]byte, e*e)
	magSums := make([]byte, e)
	for i := 0; i < e; i++ {
		for k, pos := range errorPositions {
			magPoly[i*e+k] = gf256.Mul2(1, pos*(i+1))
		}
		magSums[i] = syndromes[i+1]
	}
	if !gf256.Gaussian(magPoly, magSums, e) {
		return Unrecoverable
	}

	for k, pos := range errorPositions {
		arrayPos := n - 1 - pos
		codewords[arrayPos] = gf256.Add(codewords[arrayPos], magSums[k])
	}

	return Repaired
}
