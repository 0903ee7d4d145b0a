// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package si7013

import (
	"errors"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"
)

// tinygoBus presents a TinyGo I²C bus as an i2c.Bus.
type tinygoBus struct {
	bus drivers.I2C
}

// FromTinyGo wraps a TinyGo I²C bus, such as machine.I2C, so it can be passed
// to NewI2C. The bus must already be configured.
func FromTinyGo(bus drivers.I2C) i2c.Bus {
	return &tinygoBus{bus: bus}
}

func (b *tinygoBus) String() string {
	return "tinygo-i2c"
}

// Tx implements i2c.Bus.
func (b *tinygoBus) Tx(addr uint16, w, r []byte) error {
	return b.bus.Tx(addr, w, r)
}

// SetSpeed implements i2c.Bus. The TinyGo bus frequency is set when it is
// configured.
func (b *tinygoBus) SetSpeed(f physic.Frequency) error {
	return errors.New("si7013: tinygo bus speed can't be changed after configuration")
}

var _ i2c.Bus = &tinygoBus{}
