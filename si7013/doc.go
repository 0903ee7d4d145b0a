// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package si7013 controls a Silicon Labs Si7013 humidity and temperature
// sensor over I²C.
//
// Measurements use the no-hold master commands: the driver sends the
// command, waits for the worst case conversion time and then polls the device
// until it acknowledges a read. Every reading carries a CRC-8 check byte
// which is verified before the value is converted.
//
// The Si7013 answers on 0x40 when AD0 is low at power up and 0x41 when it is
// high. There is no default; pass AddrAD0Low or AddrAD0High to NewI2C.
//
// Range: 0 - 100 %RH, -40°C - 125°C
//
// Accuracy: ±3 %RH, ±0.4°C
//
// # Datasheet
//
// https://www.silabs.com/documents/public/data-sheets/Si7013-A20.pdf
package si7013
