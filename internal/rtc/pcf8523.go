package rtc

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers/pcf8523"

	"github.com/sweeney/gamepad-clock/internal/logic"
)

// PCF8523 is a battery-backed RTC on an I2C bus.
type PCF8523 struct {
	bus i2c.BusCloser
	dev pcf8523.Device
}

// OpenPCF8523 opens the named I2C bus (empty = first available) and attaches
// the RTC at its fixed address. Battery switch-over is enabled so the time
// survives power loss.
func OpenPCF8523(busName string) (*PCF8523, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	r := &PCF8523{bus: bus, dev: pcf8523.New(bus)}
	if err := r.dev.SetPowerManagement(pcf8523.PowerManagement_SwitchOver_ModeStandard); err != nil {
		bus.Close()
		return nil, fmt.Errorf("configure pcf8523 power: %w", err)
	}
	return r, nil
}

// Get reads the chip time.
func (r *PCF8523) Get() (logic.WallClock, error) {
	t, err := r.dev.ReadTime()
	if err != nil {
		return logic.WallClock{}, fmt.Errorf("read pcf8523: %w", err)
	}
	wc := logic.FromTime(t)
	if !wc.Valid() {
		return wc, fmt.Errorf("read pcf8523: %w: %s", logic.ErrOutOfRange, wc)
	}
	return wc, nil
}

// Set writes wc to the chip.
func (r *PCF8523) Set(wc logic.WallClock) error {
	if !wc.Valid() {
		return fmt.Errorf("set pcf8523: %w: %s", logic.ErrOutOfRange, wc)
	}
	if err := r.dev.SetTime(wc.Time()); err != nil {
		return fmt.Errorf("set pcf8523: %w", err)
	}
	return nil
}

// Close releases the bus.
func (r *PCF8523) Close() error {
	if err := r.bus.Close(); err != nil {
		return fmt.Errorf("close i2c bus: %w", err)
	}
	return nil
}
