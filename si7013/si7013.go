// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package si7013

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

const (
	// AddrAD0Low is the device address when AD0 is pulled low at power up.
	AddrAD0Low uint16 = 0x40
	// AddrAD0High is the device address when AD0 is floating or pulled high
	// at power up.
	AddrAD0High uint16 = 0x41
)

const (
	// no hold master commands; the device releases the bus while converting.
	cmdMeasureRHNoHold    byte = 0xf5
	cmdMeasureTempNoHold  byte = 0xf3
	cmdReadTempFromPrevRH byte = 0xe0
	cmdReset              byte = 0xfe
	cmdWriteUserRegister1 byte = 0xe6
	cmdReadUserRegister1  byte = 0xe7

	// The two low bits of a reading are status, not magnitude.
	statusMask   uint16 = 0xfffc
	countDivisor        = float64(65536)

	resetDuration       = 15 * time.Millisecond
	defaultSettleDelay  = 55 * time.Millisecond
	defaultPollInterval = time.Millisecond
	defaultPollAttempts = 100
)

// Resolution selects the measurement resolution. It is stored in bits 7 and 0
// of user register 1.
type Resolution byte

const (
	// Res12RH14T is the power on default.
	Res12RH14T Resolution = 0x00
	Res8RH12T  Resolution = 0x01
	Res10RH13T Resolution = 0x80
	Res11RH11T Resolution = 0x81

	resolutionMask byte = 0x81
)

// UserRegister is the content of user register 1.
type UserRegister byte

const (
	regVDDLow byte = 1 << 6
	regHeater byte = 1 << 2
)

// Resolution returns the configured measurement resolution.
func (r UserRegister) Resolution() Resolution {
	return Resolution(byte(r) & resolutionMask)
}

// VDDLow reports whether the supply voltage has dropped below 1.9V.
func (r UserRegister) VDDLow() bool {
	return byte(r)&regVDDLow != 0
}

// Heater reports whether the on-chip heater is enabled.
func (r UserRegister) Heater() bool {
	return byte(r)&regHeater != 0
}

type kind int

const (
	kindHumidity kind = iota
	kindTemperature
)

// Per kind command and conversion constants: value = offset + slope*count/65536.
var measurements = [...]struct {
	cmd    byte
	slope  float64
	offset float64
}{
	kindHumidity:    {cmd: cmdMeasureRHNoHold, slope: 125, offset: -6},
	kindTemperature: {cmd: cmdMeasureTempNoHold, slope: 175.72, offset: -46.85},
}

// Opts holds the timing options for the device.
type Opts struct {
	// SettleDelay is the wait between issuing a measurement command and the
	// first read attempt. Default is 55ms, enough for a 14 bit conversion.
	SettleDelay time.Duration
	// PollInterval is the wait between read attempts while the device is still
	// converting. Default is 1ms.
	PollInterval time.Duration
	// PollAttempts bounds the number of read attempts before a
	// ReadTimeoutError is returned. Default is 100.
	PollAttempts int
}

// DefaultOpts holds the default timing options.
var DefaultOpts = Opts{
	SettleDelay:  defaultSettleDelay,
	PollInterval: defaultPollInterval,
	PollAttempts: defaultPollAttempts,
}

// Dev represents a Si7013 sensor.
type Dev struct {
	d        *i2c.Dev
	opts     Opts
	mu       sync.Mutex
	shutdown chan struct{}
}

// NewI2C returns a Si7013 on bus b at addr, which must be AddrAD0Low or
// AddrAD0High. opts can be nil to use DefaultOpts. The device is not
// touched.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if addr != AddrAD0Low && addr != AddrAD0High {
		return nil, fmt.Errorf("si7013: invalid address 0x%02x, expected 0x%02x or 0x%02x", addr, AddrAD0Low, AddrAD0High)
	}
	o := DefaultOpts
	if opts != nil {
		o = *opts
		if o.SettleDelay <= 0 {
			o.SettleDelay = defaultSettleDelay
		}
		if o.PollInterval <= 0 {
			o.PollInterval = defaultPollInterval
		}
		if o.PollAttempts <= 0 {
			o.PollAttempts = defaultPollAttempts
		}
	}
	return &Dev{d: &i2c.Dev{Bus: b, Addr: addr}, opts: o}, nil
}

// command writes cmd, waits settle, then reads len(r) bytes. The device NACKs
// reads until its reply is ready, so a failed read is retried up to
// PollAttempts times.
func (dev *Dev) command(cmd byte, settle time.Duration, r []byte) error {
	if err := dev.d.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("si7013: error writing command 0x%02x: %w", cmd, err)
	}
	time.Sleep(settle)
	var err error
	for attempt := 1; attempt <= dev.opts.PollAttempts; attempt++ {
		if err = dev.d.Tx(nil, r); err == nil {
			return nil
		}
		if attempt < dev.opts.PollAttempts {
			time.Sleep(dev.opts.PollInterval)
		}
	}
	return &ReadTimeoutError{Attempts: dev.opts.PollAttempts, Err: err}
}

// measure runs one no-hold conversion and returns the value in %RH or °C.
func (dev *Dev) measure(k kind) (float64, error) {
	r := make([]byte, 3)
	if err := dev.command(measurements[k].cmd, dev.opts.SettleDelay, r); err != nil {
		return 0, err
	}
	raw := uint16(r[0])<<8 | uint16(r[1])
	if rem := CheckCRC(raw, r[2]); rem != 0 {
		return 0, &DataCorruptionError{Raw: raw, Check: r[2], Remainder: rem}
	}
	return convert(k, raw&statusMask), nil
}

func convert(k kind, count uint16) float64 {
	m := measurements[k]
	return m.offset + m.slope*(float64(count)/countDivisor)
}

func toHumidity(rh float64) physic.RelativeHumidity {
	return physic.RelativeHumidity(rh * float64(physic.PercentRH))
}

func toTemperature(c float64) physic.Temperature {
	return physic.Temperature(c*float64(physic.Kelvin)) + physic.ZeroCelsius
}

func (dev *Dev) humidity() (physic.RelativeHumidity, error) {
	v, err := dev.measure(kindHumidity)
	if err != nil {
		return 0, err
	}
	return toHumidity(v), nil
}

func (dev *Dev) temperature() (physic.Temperature, error) {
	v, err := dev.measure(kindTemperature)
	if err != nil {
		return 0, err
	}
	return toTemperature(v), nil
}

// Humidity measures relative humidity. The formula from the datasheet can
// report slightly below 0 or above 100 %RH; the value is not clamped.
func (dev *Dev) Humidity() (physic.RelativeHumidity, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.humidity()
}

// Temperature measures the temperature.
func (dev *Dev) Temperature() (physic.Temperature, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.temperature()
}

// TemperatureFromPreviousRH returns the temperature the device measured
// during the last humidity conversion. No new conversion is started and the
// reply carries no check byte.
func (dev *Dev) TemperatureFromPreviousRH() (physic.Temperature, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	r := make([]byte, 2)
	if err := dev.command(cmdReadTempFromPrevRH, 0, r); err != nil {
		return 0, err
	}
	raw := uint16(r[0])<<8 | uint16(r[1])
	return toTemperature(convert(kindTemperature, raw&statusMask)), nil
}

// Sense implements physic.SenseEnv. It runs a humidity conversion followed by
// a temperature conversion. Pressure is always 0.
func (dev *Dev) Sense(e *physic.Env) error {
	e.Temperature = 0
	e.Pressure = 0
	e.Humidity = 0
	dev.mu.Lock()
	defer dev.mu.Unlock()
	h, err := dev.humidity()
	if err != nil {
		return err
	}
	t, err := dev.temperature()
	if err != nil {
		return err
	}
	e.Humidity = h
	e.Temperature = t
	return nil
}

// SenseContinuous implements physic.SenseEnv. Readings that fail are
// dropped. Call Halt() to stop.
//
// interval must allow for both conversions, at least twice Opts.SettleDelay.
func (dev *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.shutdown != nil {
		return nil, errors.New("si7013: SenseContinuous already running")
	}
	if interval < 2*dev.opts.SettleDelay {
		return nil, fmt.Errorf("si7013: sample interval %s is shorter than a measurement cycle", interval)
	}
	dev.shutdown = make(chan struct{})
	ch := make(chan physic.Env, 16)
	go dev.senseLoop(interval, dev.shutdown, ch)
	return ch, nil
}

func (dev *Dev) senseLoop(interval time.Duration, shutdown <-chan struct{}, ch chan<- physic.Env) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer close(ch)
	for {
		select {
		case <-shutdown:
			return
		case <-ticker.C:
			e := physic.Env{}
			if err := dev.Sense(&e); err != nil {
				continue
			}
			select {
			case ch <- e:
			case <-shutdown:
				return
			}
		}
	}
}

// Halt stops a running SenseContinuous. Implements conn.Resource.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.shutdown != nil {
		close(dev.shutdown)
		dev.shutdown = nil
	}
	return nil
}

// Precision implements physic.SenseEnv. It reports the step size at the
// default 12 bit RH / 14 bit temperature resolution.
func (dev *Dev) Precision(e *physic.Env) {
	e.Temperature = physic.Temperature(math.Round(measurements[kindTemperature].slope / (1 << 14) * float64(physic.Kelvin)))
	e.Humidity = physic.RelativeHumidity(math.Round(measurements[kindHumidity].slope / (1 << 12) * float64(physic.PercentRH)))
	e.Pressure = 0
}

func (dev *Dev) readUserRegister() (UserRegister, error) {
	r := make([]byte, 1)
	if err := dev.command(cmdReadUserRegister1, 0, r); err != nil {
		return 0, err
	}
	return UserRegister(r[0]), nil
}

func (dev *Dev) writeUserRegister(reg UserRegister) error {
	if err := dev.d.Tx([]byte{cmdWriteUserRegister1, byte(reg)}, nil); err != nil {
		return fmt.Errorf("si7013: error writing user register: %w", err)
	}
	return nil
}

// ReadUserRegister returns the content of user register 1.
func (dev *Dev) ReadUserRegister() (UserRegister, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.readUserRegister()
}

// SetResolution changes the measurement resolution. Only bits 7 and 0 of res
// are used; the other bits of the register are preserved.
//
// The settle delay is not shortened for lower resolutions.
func (dev *Dev) SetResolution(res Resolution) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	reg, err := dev.readUserRegister()
	if err != nil {
		return err
	}
	reg = UserRegister(byte(reg)&^resolutionMask | byte(res)&resolutionMask)
	return dev.writeUserRegister(reg)
}

// SetHeater turns the on-chip heater on or off. The heater can drive off
// condensation; readings are skewed while it is on.
func (dev *Dev) SetHeater(on bool) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	reg, err := dev.readUserRegister()
	if err != nil {
		return err
	}
	if on {
		reg |= UserRegister(regHeater)
	} else {
		reg &^= UserRegister(regHeater)
	}
	return dev.writeUserRegister(reg)
}

// Reset issues a soft reset. The user registers return to their power on
// values.
func (dev *Dev) Reset() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	err := dev.d.Tx([]byte{cmdReset}, nil)
	if err != nil {
		err = fmt.Errorf("si7013: error resetting: %w", err)
	}
	time.Sleep(resetDuration)
	return err
}

func (dev *Dev) String() string {
	return fmt.Sprintf("si7013: %s", dev.d)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
