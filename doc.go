// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package devices is a container for device drivers.
//
// si7013 drives the Silicon Labs Si7013 humidity and temperature sensor.
// common holds the CRC helpers shared by drivers.
package devices
