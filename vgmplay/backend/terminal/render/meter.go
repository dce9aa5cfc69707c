package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/valerio/go-vgmplay/vgmplay/output"
)

// floorDB is the level shown as an empty meter.
const floorDB = -60.0

// Meter draws a level as a bar of width cells, scaled in dBFS.
func Meter(level float64, width int) string {
	if width <= 0 {
		return ""
	}
	db := output.Decibels(level)
	fill := int((db - floorDB) / -floorDB * float64(width))
	fill = min(max(fill, 0), width)
	return strings.Repeat("█", fill) + strings.Repeat("·", width-fill)
}

// Clock formats d as m:ss.cc.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	cs := d.Milliseconds() / 10
	return fmt.Sprintf("%d:%02d.%02d", cs/6000, cs/100%60, cs%100)
}
