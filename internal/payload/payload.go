// Package payload implements the ECC200 codeword-stream-to-bytes state
// machine: ASCII, C40, Text, X12, EDIFACT and Base256 modes, per spec.md
// section 4.6. Grounded on
// original_source/datamatrix_decoder.cpp's decodeAscii/decodeC40Text/
// pushC40Text/decodeX12/decodeEdifact/decodeBase256/UnRandomize255State/
// getMessage.
package payload

import "fmt"

// Mode is the ECC200 encoding mode, one of the tagged values in spec.md
// section 3's EncodingMode.
type Mode int

const (
	ASCII Mode = iota
	C40
	Text
	X12
	EDIFACT
	Base256
)

// Result is the decoded payload plus the supplemental fields SPEC_FULL
// section 3 adds over spec.md's bare byte output.
type Result struct {
	Bytes []byte
	Macro int  // 0, 5, or 6 (SPEC_FULL section 3 item 2)
	ECI   *int // consumed ECI designator value, if any (SPEC_FULL section 3 item 3)
}

// ASCII control bytes used by the macro prefix/suffix (spec.md section 4.6).
const (
	rsByte  = 30 // Record Separator
	gsByte  = 29 // Group Separator, also used as the FNC1 marker
	eotByte = 4  // End Of Transmission
)

// ErrBase256Overrun is returned when a Base256 length declaration would
// read past dataWords (spec.md section 7, error kind 4).
var ErrBase256Overrun = fmt.Errorf("base256 length runs past data codewords")

// Decode walks codewords[0:dataWords] through the ECC200 state machine.
func Decode(codewords []byte, dataWords int) (Result, error) {
	var res Result
	i := 0

	if dataWords > 0 && (codewords[0] == 236 || codewords[0] == 237) {
		macro := 5
		if codewords[0] == 237 {
			macro = 6
		}
		res.Macro = macro
		res.Bytes = append(res.Bytes, '[', ')', '>', rsByte, '0', byte('0'+macro), gsByte)
		i = 1
	}

	state := ASCII
	var upperShiftPending bool

	for i < dataWords {
		switch state {
		case ASCII:
			var done bool
			done, i = decodeASCIIStep(codewords, dataWords, i, &state, &upperShiftPending, &res)
			if done {
				i = dataWords
			}
		case C40:
			var err error
			i, state, err = decodeC40TextStep(codewords, dataWords, i, true, &res, &upperShiftPending)
			if err != nil {
				return res, err
			}
		case Text:
			var err error
			i, state, err = decodeC40TextStep(codewords, dataWords, i, false, &res, &upperShiftPending)
			if err != nil {
				return res, err
			}
		case X12:
			i, state = decodeX12Step(codewords, dataWords, i, &res)
		case EDIFACT:
			i, state = decodeEdifactStep(codewords, dataWords, i, &res)
		case Base256:
			var err error
			i, state, err = decodeBase256Step(codewords, dataWords, i, &res)
			if err != nil {
				return res, err
			}
		}
	}

	if res.Macro != 0 {
		res.Bytes = append(res.Bytes, rsByte, eotByte)
	}

	return res, nil
}

func decodeASCIIStep(codewords []byte, dataWords, i int, state *Mode, upperShiftPending *bool, res *Result) (done bool, next int) {
	c := int(codewords[i])
	switch {
	case c >= 1 && c <= 128:
		b := byte(c - 1)
		if *upperShiftPending {
			b += 128
			*upperShiftPending = false
		}
		res.Bytes = append(res.Bytes, b)
		return false, i + 1
	case c == 129:
		return true, dataWords
	case c >= 130 && c <= 229:
		digits := c - 130
		res.Bytes = append(res.Bytes, byte('0'+digits/10), byte('0'+digits%10))
		return false, i + 1
	case c == 230:
		*state = C40
		return false, i + 1
	case c == 231:
		*state = Base256
		return false, i + 1
	case c == 232:
		return false, i + 1 // FNC1, mode continuation
	case c == 235:
		*upperShiftPending = true
		return false, i + 1
	case c == 238:
		*state = X12
		return false, i + 1
	case c == 239:
		*state = Text
		return false, i + 1
	case c == 240:
		*state = EDIFACT
		return false, i + 1
	case c == 241:
		next = i + 1
		if next < dataWords {
			v := int(codewords[next])
			res.ECI = &v
			next++
		}
		return false, next
	default:
		return false, i + 1
	}
}

// c40Value applies one unpacked 0..39 value against the C40/Text shift
// state machine, returning the byte to emit (if any) and the next shift
// state. shift is 0 (basic), 1, 2 or 3; it always resets to 0 after a
// value is consumed unless the value itself latches a new shift.
func c40Value(v, shift int, isC40 bool, upperShiftPending *bool) (b byte, emit bool, nextShift int) {
	switch shift {
	case 0:
		switch {
		case v <= 2:
			return 0, false, v + 1 // latch shift 1/2/3 for the next value only
		case v == 3:
			return ' ', true, 0
		case v >= 4 && v <= 13:
			return byte(v - 4 + '0'), true, 0
		default: // 14..39
			if isC40 {
				return byte(v - 14 + 'A'), true, 0
			}
			return byte(v - 14 + 'a'), true, 0
		}
	case 1:
		return byte(v), true, 0
	case 2:
		switch {
		case v <= 14:
			return byte(33 + v), true, 0
		case v <= 21:
			return byte(58 + (v - 15)), true, 0
		case v <= 26:
			return byte(91 + (v - 22)), true, 0
		case v == 27:
			return gsByte, true, 0
		case v == 30:
			*upperShiftPending = true
			return 0, false, 0
		default:
			return 0, false, 0
		}
	default: // shift 3
		if isC40 {
			return byte(v + 96), true, 0
		}
		switch {
		case v == 0:
			return '`', true, 0
		case v >= 1 && v <= 26:
			return byte(v - 26 + 'Z'), true, 0
		default:
			return byte(v - 31 + 127), true, 0
		}
	}
}

func decodeC40TextStep(codewords []byte, dataWords, i int, isC40 bool, res *Result, upperShiftPending *bool) (next int, state Mode, err error) {
	if codewords[i] == 254 {
		return i + 1, ASCII, nil
	}
	if i+1 >= dataWords {
		return i, ASCII, nil
	}

	w1, w2 := int(codewords[i]), int(codewords[i+1])
	packed := w1*256 + w2
	a := (packed - 1) / 1600
	b := (packed - 1) / 40 % 40
	c := (packed - 1) % 40

	shift := 0
	for _, v := range [3]int{a, b, c} {
		out, emit, nextShift := c40Value(v, shift, isC40, upperShiftPending)
		if emit {
			if *upperShiftPending {
				out += 128
				*upperShiftPending = false
			}
			res.Bytes = append(res.Bytes, out)
		}
		shift = nextShift
	}

	return i + 2, C40OrText(isC40), nil
}

// C40OrText returns the mode constant matching isC40, used so a caller
// that just consumed a pair stays in the same mode (shift resets per
// triple, the mode itself does not, per spec.md section 4.6).
func C40OrText(isC40 bool) Mode {
	if isC40 {
		return C40
	}
	return Text
}

func decodeX12Step(codewords []byte, dataWords, i int, res *Result) (next int, state Mode) {
	if i+1 >= dataWords {
		return i, ASCII
	}
	w1, w2 := int(codewords[i]), int(codewords[i+1])
	packed := w1*256 + w2
	a := (packed - 1) / 1600
	b := (packed - 1) / 40 % 40
	c := (packed - 1) % 40
	for _, v := range [3]int{a, b, c} {
		switch {
		case v == 0:
			res.Bytes = append(res.Bytes, 13)
		case v == 1:
			res.Bytes = append(res.Bytes, '*')
		case v == 2:
			res.Bytes = append(res.Bytes, '>')
		case v == 3:
			res.Bytes = append(res.Bytes, ' ')
		case v >= 4 && v <= 13:
			res.Bytes = append(res.Bytes, byte(v-4+'0'))
		case v >= 14 && v <= 39:
			res.Bytes = append(res.Bytes, byte(v-14+'A'))
		}
	}
	return i + 2, X12
}

func decodeEdifactStep(codewords []byte, dataWords, i int, res *Result) (next int, state Mode) {
	if i+2 >= dataWords {
		return i, ASCII
	}
	packed := int(codewords[i])<<16 | int(codewords[i+1])<<8 | int(codewords[i+2])
	values := [4]int{
		(packed >> 18) & 0x3F,
		(packed >> 12) & 0x3F,
		(packed >> 6) & 0x3F,
		packed & 0x3F,
	}
	for pos, v := range values {
		switch {
		case v == 31:
			consumed := pos + 1
			if consumed > 3 {
				consumed = 3
			}
			return i + consumed, ASCII
		case v <= 30:
			res.Bytes = append(res.Bytes, byte(v|0x40))
		default:
			res.Bytes = append(res.Bytes, byte(v))
		}
	}
	return i + 3, EDIFACT
}

// unrandomize255 reverses the Base256 pseudo-random scrambling applied at
// codeword position n (1-based, absolute within the codeword stream).
func unrandomize255(v byte, n int) byte {
	pseudoRandom := (149*n)%255 + 1
	tmp := int(v) - pseudoRandom
	if tmp < 0 {
		tmp += 256
	}
	return byte(tmp)
}

func decodeBase256Step(codewords []byte, dataWords, i int, res *Result) (next int, state Mode, err error) {
	d0 := unrandomize255(codewords[i], i+1)
	i++

	var length int
	switch {
	case d0 == 0:
		length = dataWords - i
	case d0 <= 249:
		length = int(d0)
	default:
		if i >= dataWords {
			return i, ASCII, ErrBase256Overrun
		}
		d1 := unrandomize255(codewords[i], i+1)
		i++
		length = 250*(int(d0)-249) + int(d1)
	}

	if i+length > dataWords {
		return i, ASCII, ErrBase256Overrun
	}
	for k := 0; k < length; k++ {
		res.Bytes = append(res.Bytes, unrandomize255(codewords[i], i+1))
		i++
	}
	return i, ASCII, nil
}
