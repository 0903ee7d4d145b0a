// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package si7013

// shiftedDivisor is the 0x131 polynomial (x^8 + x^5 + x^4 + 1) aligned to the
// top of a 24 bit register.
const shiftedDivisor uint32 = 0x988000

// CheckCRC verifies a reading against the check byte sent after it. It
// divides the 24 bit value message<<8 | check by the sensor polynomial and
// returns the remainder. Zero means the reading is intact; any other value
// means it was corrupted.
//
// The raw reading must be passed as received, status bits included.
func CheckCRC(message uint16, check byte) byte {
	remainder := uint32(message)<<8 | uint32(check)
	divisor := shiftedDivisor
	// Only the 16 message positions are divided. The low 8 bits are what's
	// left over.
	for bit := 23; bit >= 8; bit-- {
		if remainder&(1<<bit) != 0 {
			remainder ^= divisor
		}
		divisor >>= 1
	}
	return byte(remainder)
}
