package lights

import (
	"math"
	"path/filepath"

	"github.com/smazurov/lightnode/internal/device"
	"github.com/smazurov/lightnode/internal/logging"
	"github.com/smazurov/lightnode/internal/metrics"
	"github.com/smazurov/lightnode/internal/sysfs"
)

const (
	defaultMaxBrightness = 255
	lumaLevels           = 256
)

// backlight drives the panel brightness node.
type backlight struct {
	node   sysfs.Node
	max    int
	table  []int // nil means linear
	logger logging.Logger
}

func newBacklight(p *device.Profile, logger logging.Logger) *backlight {
	b := &backlight{
		node:   sysfs.NewNode(p.Root, p.Backlight.Node, logger),
		max:    p.Backlight.MaxBrightness,
		logger: logger,
	}

	if b.max == 0 {
		maxNode := sysfs.NewNode(p.Root, filepath.Join(filepath.Dir(p.Backlight.Node), "max_brightness"), logger)
		if v, err := maxNode.ReadInt(); err == nil && v > 0 {
			b.max = v
		} else {
			b.max = defaultMaxBrightness
		}
	}

	if p.Backlight.LogMax > 0 && b.max == p.Backlight.LogMax {
		b.table = brightnessTable(b.max)
	}

	logger.Info("Backlight configured",
		"node", b.node.Path(),
		"max_brightness", b.max,
		"logarithmic", b.table != nil)
	return b
}

// set writes the brightness derived from the request color.
func (b *backlight) set(state HwLightState) error {
	brightness := b.scale(rgbToBrightness(state.Color))
	if err := b.node.WriteInt(brightness); err != nil {
		return err
	}
	metrics.SetBacklightBrightness(brightness)
	return nil
}

// scale maps an 8-bit luma onto the panel range.
func (b *backlight) scale(luma int) int {
	b.logger.Debug("Received brightness", "brightness", luma)
	if b.table != nil && luma >= 0 && luma < len(b.table) {
		return b.table[luma]
	}
	return luma
}

// rgbToBrightness returns the fixed-point ITU-R luma of an alpha-scaled color.
func rgbToBrightness(color uint32) int {
	_, red, green, blue := channels(color)
	return int((77*red + 150*green + 29*blue) >> 8)
}

// brightnessTable builds a perceptual curve indexed by luma: entry 0 is off,
// entry 255 is max, and every other entry is at least 1.
func brightnessTable(maxBrightness int) []int {
	table := make([]int, lumaLevels)
	base := float64(maxBrightness + 1)
	for i := 1; i < lumaLevels; i++ {
		v := int(math.Round(math.Pow(base, float64(i)/float64(lumaLevels-1)) - 1))
		table[i] = min(max(v, 1), maxBrightness)
	}
	return table
}
