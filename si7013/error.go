// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package si7013

import "fmt"

// ReadTimeoutError is returned when the device did not deliver its reply
// within Opts.PollAttempts read attempts. Err holds the bus error returned by
// the last attempt.
type ReadTimeoutError struct {
	Attempts int
	Err      error
}

func (e *ReadTimeoutError) Error() string {
	return fmt.Sprintf("si7013: read timeout, no reply after %d attempts", e.Attempts)
}

func (e *ReadTimeoutError) Unwrap() error {
	return e.Err
}

// DataCorruptionError is returned when a reading fails its CRC check.
type DataCorruptionError struct {
	Raw       uint16
	Check     byte
	Remainder byte
}

func (e *DataCorruptionError) Error() string {
	return fmt.Sprintf("si7013: data is corrupt, crc of 0x%04x with check 0x%02x left 0x%02x", e.Raw, e.Check, e.Remainder)
}
