package style

import "image/color"

var (
	white = rgb(0xff, 0xff, 0xff)
	black = rgb(0x00, 0x00, 0x00)
)

var presets = []Theme{
	{
		Name:           "default",
		Background:     white,
		AxesBackground: white,
		Foreground:     black,
		GridColor:      rgb(0xb0, 0xb0, 0xb0),
		Palette: hexes("1f77b4", "ff7f0e", "2ca02c", "d62728", "9467bd",
			"8c564b", "e377c2", "7f7f7f", "bcbd22", "17becf"),
		LineWidth: 1.5,
		FontSize:  10,
		TitleSize: 12,
	},
	{
		Name:           "classic",
		Background:     rgb(0xbf, 0xbf, 0xbf),
		AxesBackground: white,
		Foreground:     black,
		GridColor:      black,
		Palette:        hexes("0000ff", "008000", "ff0000", "00bfbf", "bf00bf", "bfbf00", "000000"),
		LineWidth:      1,
		FontSize:       12,
		TitleSize:      14,
	},
	{
		Name:           "ggplot",
		Background:     white,
		AxesBackground: rgb(0xe5, 0xe5, 0xe5),
		Foreground:     rgb(0x55, 0x55, 0x55),
		GridColor:      white,
		Palette:        hexes("e24a33", "348abd", "988ed5", "777777", "fbc15e", "8eba42", "ffb5b8"),
		LineWidth:      1.5,
		FontSize:       10,
		TitleSize:      12,
	},
	{
		Name:           "bmh",
		Background:     white,
		AxesBackground: rgb(0xee, 0xee, 0xee),
		Foreground:     rgb(0x33, 0x33, 0x33),
		GridColor:      rgb(0xb2, 0xb2, 0xb2),
		Palette: hexes("348abd", "a60628", "7a68a6", "467821", "d55e00",
			"cc79a7", "56b4e9", "009e73", "f0e442", "0072b2"),
		LineWidth: 2,
		FontSize:  10,
		TitleSize: 14,
	},
	{
		Name:           "seaborn",
		Background:     white,
		AxesBackground: rgb(0xea, 0xea, 0xf2),
		Foreground:     rgb(0x26, 0x26, 0x26),
		GridColor:      white,
		Palette:        hexes("4c72b0", "55a868", "c44e52", "8172b2", "ccb974", "64b5cd"),
		LineWidth:      1.75,
		FontSize:       10,
		TitleSize:      12,
	},
	{
		Name:           "fivethirtyeight",
		Background:     rgb(0xf0, 0xf0, 0xf0),
		AxesBackground: rgb(0xf0, 0xf0, 0xf0),
		Foreground:     rgb(0x33, 0x33, 0x33),
		GridColor:      rgb(0xcb, 0xcb, 0xcb),
		Palette:        hexes("008fd5", "fc4f30", "e5ae38", "6d904f", "8b8b8b", "810f7c"),
		LineWidth:      4,
		FontSize:       14,
		TitleSize:      16,
	},
	{
		Name:           "grayscale",
		Background:     white,
		AxesBackground: white,
		Foreground:     black,
		GridColor:      rgb(0xbf, 0xbf, 0xbf),
		Palette:        hexes("000000", "505050", "808080", "a0a0a0", "c0c0c0"),
		LineWidth:      1.5,
		FontSize:       10,
		TitleSize:      12,
	},
	{
		Name:           "dark_background",
		Background:     black,
		AxesBackground: black,
		Foreground:     white,
		GridColor:      white,
		Palette: hexes("8dd3c7", "feffb3", "bfbbd9", "fa8174", "81b1d2",
			"fdb462", "b3de69", "bc82bd", "ccebc4", "ffed6f"),
		LineWidth: 1.5,
		FontSize:  10,
		TitleSize: 12,
	},
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func hexes(codes ...string) []color.RGBA {
	out := make([]color.RGBA, 0, len(codes))
	for _, code := range codes {
		c, err := parseHex(code)
		if err != nil {
			panic("style: bad preset color " + code)
		}
		out = append(out, c)
	}
	return out
}
