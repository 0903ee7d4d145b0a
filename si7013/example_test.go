// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package si7013_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/GermanBionicSystems/devices/si7013"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use i2creg I²C bus registry to find the first available I²C bus.
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer b.Close()

	// The address depends on how AD0 is wired.
	d, err := si7013.NewI2C(b, si7013.AddrAD0Low, nil)
	if err != nil {
		log.Fatal(err)
	}

	e := physic.Env{}
	if err := d.Sense(&e); err != nil {
		var corrupt *si7013.DataCorruptionError
		if errors.As(err, &corrupt) {
			log.Printf("bad reading 0x%04x, try again", corrupt.Raw)
		}
		log.Fatal(err)
	}
	fmt.Printf("%8s %9s\n", e.Temperature, e.Humidity)
}

func ExampleDev_SetResolution() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	d, err := si7013.NewI2C(b, si7013.AddrAD0High, nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := d.SetResolution(si7013.Res11RH11T); err != nil {
		log.Fatal(err)
	}
	reg, err := d.ReadUserRegister()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("resolution=0x%02x vddLow=%t\n", byte(reg.Resolution()), reg.VDDLow())
}
