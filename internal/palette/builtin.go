package palette

import "strings"

// builtins are the palettes available as "@name".
var builtins = map[string][][2]string{
	"gameboy": {
		{"{_}", "#00000000"},
		{"{lightest}", "#9BBC0F"},
		{"{light}", "#8BAC0F"},
		{"{dark}", "#306230"},
		{"{darkest}", "#0F380F"},
	},
	"nes": {
		{"{_}", "#00000000"},
		{"{black}", "#000000"},
		{"{white}", "#FCFCFC"},
		{"{red}", "#A80020"},
		{"{green}", "#00A800"},
		{"{blue}", "#0058F8"},
		{"{cyan}", "#00B8D8"},
		{"{yellow}", "#F8D800"},
		{"{orange}", "#F83800"},
		{"{pink}", "#F878F8"},
		{"{brown}", "#503000"},
		{"{gray}", "#7C7C7C"},
		{"{skin}", "#FCB8B8"},
	},
	"pico8": {
		{"{_}", "#00000000"},
		{"{black}", "#000000"},
		{"{dark_blue}", "#1D2B53"},
		{"{dark_purple}", "#7E2553"},
		{"{dark_green}", "#008751"},
		{"{brown}", "#AB5236"},
		{"{dark_gray}", "#5F574F"},
		{"{light_gray}", "#C2C3C7"},
		{"{white}", "#FFF1E8"},
		{"{red}", "#FF004D"},
		{"{orange}", "#FFA300"},
		{"{yellow}", "#FFEC27"},
		{"{green}", "#00E436"},
		{"{blue}", "#29ADFF"},
		{"{indigo}", "#83769C"},
		{"{pink}", "#FF77A8"},
		{"{peach}", "#FFCCAA"},
	},
	"grayscale": {
		{"{_}", "#00000000"},
		{"{white}", "#FFFFFF"},
		{"{gray1}", "#DFDFDF"},
		{"{gray2}", "#BFBFBF"},
		{"{gray3}", "#9F9F9F"},
		{"{gray4}", "#7F7F7F"},
		{"{gray5}", "#5F5F5F"},
		{"{gray6}", "#3F3F3F"},
		{"{black}", "#000000"},
	},
	"1bit": {
		{"{_}", "#00000000"},
		{"{black}", "#000000"},
		{"{white}", "#FFFFFF"},
	},
}

// BuiltinNames lists the built-in palettes in a stable order.
func BuiltinNames() []string {
	return []string{"gameboy", "nes", "pico8", "grayscale", "1bit"}
}

// Builtin returns the source of a built-in palette. The leading "@" is
// optional.
func Builtin(name string) (Source, bool) {
	name = strings.TrimPrefix(name, "@")
	decls, ok := builtins[name]
	if !ok {
		return Source{}, false
	}
	src := Source{Name: "@" + name, Entries: make([]Entry, len(decls))}
	for i, d := range decls {
		src.Entries[i] = Entry{Name: d[0], Raw: d[1]}
	}
	return src, true
}
