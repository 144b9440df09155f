package lights

import (
	"path/filepath"
	"testing"

	"github.com/smazurov/lightnode/internal/device"
)

func TestRGBToBrightness(t *testing.T) {
	tests := []struct {
		name  string
		color uint32
		want  int
	}{
		{"white", 0xFFFFFFFF, 255},
		{"black", 0xFF000000, 0},
		{"transparent white", 0x00FFFFFF, 0},
		{"half alpha white", 0x80FFFFFF, 128},
		{"pure red", 0xFFFF0000, 76},
		{"pure green", 0xFF00FF00, 149},
		{"pure blue", 0xFF0000FF, 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rgbToBrightness(tt.color); got != tt.want {
				t.Errorf("rgbToBrightness(0x%08x) = %d, want %d", tt.color, got, tt.want)
			}
		})
	}
}

func TestBrightnessTable(t *testing.T) {
	for _, maxBrightness := range []int{255, 1023, 2047, 4095} {
		table := brightnessTable(maxBrightness)

		if len(table) != 256 {
			t.Fatalf("len(table) = %d, want 256", len(table))
		}
		if table[0] != 0 {
			t.Errorf("max %d: table[0] = %d, want 0", maxBrightness, table[0])
		}
		if table[255] != maxBrightness {
			t.Errorf("max %d: table[255] = %d, want %d", maxBrightness, table[255], maxBrightness)
		}
		for i := 1; i < len(table); i++ {
			if table[i] < 1 || table[i] > maxBrightness {
				t.Errorf("max %d: table[%d] = %d out of range", maxBrightness, i, table[i])
			}
			if table[i] < table[i-1] {
				t.Errorf("max %d: table[%d] = %d < table[%d] = %d", maxBrightness, i, table[i], i-1, table[i-1])
			}
		}
	}
}

func TestNewBacklight(t *testing.T) {
	dir := filepath.Dir(testBacklightNode)

	tests := []struct {
		name      string
		cfg       device.BacklightConfig
		maxFile   string
		wantMax   int
		wantTable bool
	}{
		{"explicit max linear", device.BacklightConfig{Node: testBacklightNode, MaxBrightness: 255}, "", 255, false},
		{"explicit max log", device.BacklightConfig{Node: testBacklightNode, MaxBrightness: 2047, LogMax: 2047}, "", 2047, true},
		{"log max mismatch", device.BacklightConfig{Node: testBacklightNode, MaxBrightness: 1023, LogMax: 2047}, "", 1023, false},
		{"read from sysfs", device.BacklightConfig{Node: testBacklightNode, LogMax: 2047}, "2047\n", 2047, true},
		{"sysfs missing", device.BacklightConfig{Node: testBacklightNode}, "", 255, false},
		{"sysfs garbage", device.BacklightConfig{Node: testBacklightNode}, "bogus", 255, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, testBacklightNode, "0")
			if tt.maxFile != "" {
				writeFile(t, root, filepath.Join(dir, "max_brightness"), tt.maxFile)
			}

			b := newBacklight(&device.Profile{Backlight: tt.cfg, Root: root}, newTestLogger())
			if b.max != tt.wantMax {
				t.Errorf("max = %d, want %d", b.max, tt.wantMax)
			}
			if (b.table != nil) != tt.wantTable {
				t.Errorf("table present = %v, want %v", b.table != nil, tt.wantTable)
			}
		})
	}
}

func TestBacklightSet(t *testing.T) {
	tests := []struct {
		name   string
		cfg    device.BacklightConfig
		color  uint32
		expect string
	}{
		{"linear white", device.BacklightConfig{Node: testBacklightNode, MaxBrightness: 255}, 0xFFFFFFFF, "255"},
		{"linear off", device.BacklightConfig{Node: testBacklightNode, MaxBrightness: 255}, 0xFF000000, "0"},
		{"linear gray", device.BacklightConfig{Node: testBacklightNode, MaxBrightness: 255}, 0xFF404040, "64"},
		{"log white", device.BacklightConfig{Node: testBacklightNode, MaxBrightness: 2047, LogMax: 2047}, 0xFFFFFFFF, "2047"},
		{"log off", device.BacklightConfig{Node: testBacklightNode, MaxBrightness: 2047, LogMax: 2047}, 0xFF000000, "0"},
		{"log dimmest", device.BacklightConfig{Node: testBacklightNode, MaxBrightness: 2047, LogMax: 2047}, 0xFF010101, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, root, testBacklightNode, "")

			b := newBacklight(&device.Profile{Backlight: tt.cfg, Root: root}, newTestLogger())
			if err := b.set(HwLightState{Color: tt.color}); err != nil {
				t.Fatalf("set() error = %v", err)
			}
			if got := readFile(t, root, testBacklightNode); got != tt.expect {
				t.Errorf("brightness = %q, want %q", got, tt.expect)
			}
		})
	}
}
