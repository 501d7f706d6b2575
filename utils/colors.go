package utils

import (
	"strings"

	"tanks/world"
)

const DefaultLocalColorName = "black"

var (
	DefaultLocalColor  = world.RGB(0, 0, 0)
	DefaultRemoteColor = world.RGB(235, 235, 235)
)

// colors are the accepted color names, keyed in lower case without underscores.
var colors = map[string]world.Color{
	"white":     world.RGB(255, 255, 255),
	"lightgray": world.RGB(192, 192, 192),
	"gray":      world.RGB(128, 128, 128),
	"darkgray":  world.RGB(64, 64, 64),
	"black":     world.RGB(0, 0, 0),
	"red":       world.RGB(255, 0, 0),
	"pink":      world.RGB(255, 175, 175),
	"orange":    world.RGB(255, 200, 0),
	"yellow":    world.RGB(255, 255, 0),
	"green":     world.RGB(0, 255, 0),
	"magenta":   world.RGB(255, 0, 255),
	"cyan":      world.RGB(0, 255, 255),
	"blue":      world.RGB(0, 0, 255),
}

// ParseColor looks name up case-insensitively, so "lightGray" and "LIGHT_GRAY"
// both work.
func ParseColor(name string) (world.Color, bool) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", ""))
	c, ok := colors[key]
	return c, ok
}

// ColorOrDefault is ParseColor falling back to DefaultLocalColor.
func ColorOrDefault(name string) world.Color {
	if c, ok := ParseColor(name); ok {
		return c
	}
	return DefaultLocalColor
}
