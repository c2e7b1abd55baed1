package display

import (
	"fmt"
	"image"
	"log"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"
)

// Baselines (in pixels) of the three text rows on a 128x64 panel.
const (
	oledTopY    = 12
	oledDigitsY = 38
	oledBottomY = 62
)

// OLED draws the panel on an SSD1306 module over I2C.
type OLED struct {
	bus   i2c.BusCloser
	dev   *ssd1306.Dev
	panel *Panel
	img   *image1bit.VerticalLSB
	drawn uint64
}

// OpenOLED opens the I2C bus (empty name = first available) and initializes
// a 128x64 SSD1306 at its default address.
func OpenOLED(busName string) (*OLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	opts := ssd1306.DefaultOpts
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("init ssd1306: %w", err)
	}

	// 128 px / 7 px glyphs = 18 columns per row.
	cols := dev.Bounds().Dx() / basicfont.Face7x13.Advance
	o := &OLED{
		bus:   bus,
		dev:   dev,
		panel: NewPanel(cols, cols),
		img:   image1bit.NewVerticalLSB(dev.Bounds()),
	}
	o.flush()
	return o, nil
}

// SetDigits updates the digit row and redraws if anything changed.
func (o *OLED) SetDigits(text string) {
	o.panel.SetDigits(text)
	o.flush()
}

// SetMessage updates a message row and redraws if anything changed.
func (o *OLED) SetMessage(text string, line Line) {
	o.panel.SetMessage(text, line)
	o.flush()
}

func (o *OLED) flush() {
	f := o.panel.Snapshot()
	if f.Revision == o.drawn && f.Revision != 0 {
		return
	}

	b := o.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			o.img.SetBit(x, y, image1bit.Off)
		}
	}

	d := font.Drawer{
		Dst:  o.img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: basicfont.Face7x13,
	}
	row := func(s string, y int) {
		d.Dot = fixed.P(0, y)
		// basicfont has no DEL glyph; show the arrow hint as '^'.
		d.DrawString(strings.ReplaceAll(s, "\x7f", "^"))
	}
	row(f.Top, oledTopY)
	row(f.Digits, oledDigitsY)
	row(f.Bottom, oledBottomY)

	if err := o.dev.Draw(b, o.img, image.Point{}); err != nil {
		log.Printf("display: oled draw: %v", err)
		return
	}
	o.drawn = f.Revision
}

// Close blanks the display and releases the bus.
func (o *OLED) Close() error {
	var errs []error
	if err := o.dev.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("halt ssd1306: %w", err))
	}
	if err := o.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
