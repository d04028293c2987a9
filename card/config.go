// Package card renders printable player cards: a template image with text
// blocks laid over it, each block a `${...}` template filled from a roster row.
package card

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SettingsKey is the reserved top-level key holding the card-wide settings.
const SettingsKey = "config"

// Size is a width/height pair; zero means "not set".
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Settings applies to the whole card.
type Settings struct {
	Font  string `json:"font" yaml:"font"`   // path to a .ttf/.otf file; empty uses the embedded font
	Scale Size   `json:"scale" yaml:"scale"` // resize of the template image
	DPI   Size   `json:"dpi" yaml:"dpi"`     // resolution stored in exported PNGs
}

// Padding around a block's text inside its border.
type Padding struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// Border is drawn around a block's text when StrokeWeight is positive.
type Border struct {
	StrokeWeight float64 `json:"strokeWeight" yaml:"strokeWeight"`
	Color        string  `json:"color" yaml:"color"`
	Fill         string  `json:"fill" yaml:"fill"`
	Radius       float64 `json:"radius" yaml:"radius"`
	Padding      Padding `json:"padding" yaml:"padding"`
	MinWidth     float64 `json:"minWidth" yaml:"minWidth"`
	MinHeight    float64 `json:"minHeight" yaml:"minHeight"`
}

// Block is one text overlay. Offsets are relative to the image center.
type Block struct {
	Anchor             string  `json:"anchor" yaml:"anchor"`
	OffsetX            float64 `json:"offsetX" yaml:"offsetX"`
	OffsetY            float64 `json:"offsetY" yaml:"offsetY"`
	MaxWidth           float64 `json:"maxWidth" yaml:"maxWidth"`
	MaxFontSize        float64 `json:"maxFontSize" yaml:"maxFontSize"`
	MaxWidthCompensate float64 `json:"maxWidthCompensate" yaml:"maxWidthCompensate"`
	OffsetXCompensate  float64 `json:"offsetXCompensate" yaml:"offsetXCompensate"`
	OffsetYCompensate  float64 `json:"offsetYCompensate" yaml:"offsetYCompensate"`
	Color              string  `json:"color" yaml:"color"`
	Template           string  `json:"template" yaml:"template"`
	GroupID            string  `json:"groupId" yaml:"groupId"`
	Border             Border  `json:"border" yaml:"border"`
}

// Config is a card layout: settings plus named blocks. On the wire the
// blocks sit next to the "config" key:
//
//	{"config": {...}, "name": {...}, "club": {...}}
type Config struct {
	Settings Settings
	Blocks   map[string]Block
}

// BlockNames returns the block names in drawing order.
func (c Config) BlockNames() []string {
	names := make([]string, 0, len(c.Blocks))
	for n := range c.Blocks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func defaultBlock(offsetX, offsetY, maxWidth, maxFontSize float64, template string) Block {
	return Block{
		Anchor:             "mm",
		OffsetX:            offsetX,
		OffsetY:            offsetY,
		MaxWidth:           maxWidth,
		MaxFontSize:        maxFontSize,
		MaxWidthCompensate: 1,
		OffsetXCompensate:  1,
		OffsetYCompensate:  1,
		Color:              "#000000",
		Template:           template,
		Border:             Border{Color: "#000000"},
	}
}

// DefaultConfig is the layout offered before the user edits anything.
func DefaultConfig() Config {
	return Config{
		Settings: Settings{DPI: Size{Width: 72, Height: 72}},
		Blocks: map[string]Block{
			"name":  defaultBlock(0, 0, 500, 80, "${Lastname} ${Firstname}"),
			"club":  defaultBlock(0, 80, 400, 30, "${Club}"),
			"group": defaultBlock(0, 30, 400, 30, "Group: ${Group}"),
			"id":    defaultBlock(100, 30, 100, 30, "${PlayerUniqueId}"),
		},
	}
}

// MarshalJSON flattens the blocks next to the settings key.
func (c Config) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(c.Blocks)+1)
	m[SettingsKey] = c.Settings
	for k, b := range c.Blocks {
		m[k] = b
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads the flattened form written by MarshalJSON.
func (c *Config) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := Config{Blocks: make(map[string]Block, len(raw))}
	for k, v := range raw {
		if k == SettingsKey {
			if err := json.Unmarshal(v, &out.Settings); err != nil {
				return fmt.Errorf("card settings: %w", err)
			}
			continue
		}
		var b Block
		if err := json.Unmarshal(v, &b); err != nil {
			return fmt.Errorf("card block %q: %w", k, err)
		}
		out.Blocks[k] = b
	}
	*c = out
	return nil
}

// MaxBlockWidth bounds a block's maxWidth in pixels.
const MaxBlockWidth = 20000

// Validate checks anchors and sizes of every block.
func (c Config) Validate() error {
	for _, name := range c.BlockNames() {
		b := c.Blocks[name]
		if _, err := ParseAnchor(b.Anchor); err != nil {
			return fmt.Errorf("block %q: %w", name, err)
		}
		if b.MaxFontSize < 1 {
			return fmt.Errorf("block %q: maxFontSize must be at least 1", name)
		}
		if b.MaxWidth <= 0 || b.MaxWidth > MaxBlockWidth {
			return fmt.Errorf("block %q: maxWidth must be in (0, %d]", name, MaxBlockWidth)
		}
	}
	return nil
}

// Format is a serialization of a Config.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromName picks the format from a file name, defaulting to JSON.
func FormatFromName(name string) Format {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

// toMap decodes a document into its generic form.
func toMap(data []byte, format Format) (map[string]any, error) {
	var m map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode yaml card config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode json card config: %w", err)
		}
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// asMap converts a Config into its generic form.
func (c Config) asMap() (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return toMap(data, FormatJSON)
}

func fromMap(m map[string]any) (Config, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return Config{}, fmt.Errorf("encode card config: %w", err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("decode card config: %w", err)
	}
	return c, nil
}

// Parse decodes a full card config.
func Parse(data []byte, format Format) (Config, error) {
	m, err := toMap(data, format)
	if err != nil {
		return Config{}, err
	}
	return fromMap(m)
}

// Encode serializes the config, indented.
func Encode(c Config, format Format) ([]byte, error) {
	if format == FormatYAML {
		m, err := c.asMap()
		if err != nil {
			return nil, err
		}
		return yaml.Marshal(m)
	}
	return json.MarshalIndent(c, "", "  ")
}
