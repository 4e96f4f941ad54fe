package imaging

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
)

// Colormap assigns a color to each mask label. Background (label 0) is
// always black. Qualitative maps cycle their palette by label; sequential
// maps interpolate over the label range.
type Colormap struct {
	name        string
	palette     []color.NRGBA
	qualitative bool
}

// Name returns the colormap name.
func (c *Colormap) Name() string { return c.name }

// Color maps a label to its render color. maxLabel is the highest label in
// the mask and only matters for sequential maps.
func (c *Colormap) Color(label int32, maxLabel int32) color.NRGBA {
	if label <= 0 {
		return color.NRGBA{A: 0xff}
	}
	if c.qualitative {
		return c.palette[int(label-1)%len(c.palette)]
	}
	if maxLabel < 1 {
		maxLabel = 1
	}
	t := float64(label) / float64(maxLabel)
	return interpolate(c.palette, t)
}

func interpolate(anchors []color.NRGBA, t float64) color.NRGBA {
	if t <= 0 {
		return anchors[0]
	}
	if t >= 1 {
		return anchors[len(anchors)-1]
	}
	pos := t * float64(len(anchors)-1)
	i := int(pos)
	f := pos - float64(i)
	a, b := anchors[i], anchors[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*f)
	}
	return color.NRGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 0xff}
}

func hexPalette(hexes ...string) []color.NRGBA {
	out := make([]color.NRGBA, 0, len(hexes))
	for _, h := range hexes {
		var r, g, b uint8
		fmt.Sscanf(h, "#%02x%02x%02x", &r, &g, &b)
		out = append(out, color.NRGBA{R: r, G: g, B: b, A: 0xff})
	}
	return out
}

var colormaps = map[string]*Colormap{
	"tab20": {name: "tab20", qualitative: true, palette: hexPalette(
		"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c", "#98df8a", "#d62728",
		"#ff9896", "#9467bd", "#c5b0d5", "#8c564b", "#c49c94", "#e377c2", "#f7b6d2",
		"#7f7f7f", "#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5")},
	"tab20b": {name: "tab20b", qualitative: true, palette: hexPalette(
		"#393b79", "#5254a3", "#6b6ecf", "#9c9ede", "#637939", "#8ca252", "#b5cf6b",
		"#cedb9c", "#8c6d31", "#bd9e39", "#e7ba52", "#e7cb94", "#843c39", "#ad494a",
		"#d6616b", "#e7969c", "#7b4173", "#a55194", "#ce6dbd", "#de9ed6")},
	"tab20c": {name: "tab20c", qualitative: true, palette: hexPalette(
		"#3182bd", "#6baed6", "#9ecae1", "#c6dbef", "#e6550d", "#fd8d3c", "#fdae6b",
		"#fdd0a2", "#31a354", "#74c476", "#a1d99b", "#c7e9c0", "#756bb1", "#9e9ac8",
		"#bcbddc", "#dadaeb", "#636363", "#969696", "#bdbdbd", "#d9d9d9")},
	"viridis": {name: "viridis", palette: hexPalette(
		"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725")},
	"plasma": {name: "plasma", palette: hexPalette(
		"#0d0887", "#7e03a8", "#cc4778", "#f89540", "#f0f921")},
	"inferno": {name: "inferno", palette: hexPalette(
		"#000004", "#57106e", "#bc3754", "#f98e09", "#fcffa4")},
	"magma": {name: "magma", palette: hexPalette(
		"#000004", "#51127c", "#b73779", "#fc8961", "#fcfdbf")},
	"cividis": {name: "cividis", palette: hexPalette(
		"#00204c", "#3c4d6e", "#7b7b78", "#bbad6c", "#ffea46")},
	"hsv": {name: "hsv", qualitative: true, palette: hexPalette(
		"#ff0000", "#ff6600", "#ffcc00", "#ccff00", "#66ff00", "#00ff00", "#00ff66",
		"#00ffcc", "#00ccff", "#0066ff", "#0000ff", "#6600ff", "#cc00ff", "#ff00cc",
		"#ff0066")},
	"twilight": {name: "twilight", palette: hexPalette(
		"#e2d9e2", "#6e8ec4", "#30213c", "#8f4a53", "#e2d9e2")},
	"gray": {name: "gray", palette: hexPalette("#000000", "#ffffff")},
}

// ValidColormaps returns the accepted colormap names, sorted.
func ValidColormaps() []string {
	names := make([]string, 0, len(colormaps))
	for name := range colormaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetColormap looks up a colormap by name.
func GetColormap(name string) (*Colormap, error) {
	cmap, ok := colormaps[name]
	if !ok {
		return nil, fmt.Errorf("invalid colormap %q, must be one of: %s", name, strings.Join(ValidColormaps(), ", "))
	}
	return cmap, nil
}
