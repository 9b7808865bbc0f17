package aigen

import (
	"fmt"
	"strings"
)

// Request is one generation job: the user's concept, the sketch drawn in
// the editor (as a data URL) and the editor settings.
type Request struct {
	Prompt         string   `json:"prompt"`
	Sketch         string   `json:"sketch"`
	TargetPlatform string   `json:"target_platform"`
	Settings       Settings `json:"settings"`
}

// Settings mirrors the sketch editor sidebar.
type Settings struct {
	Style      StyleSetting      `json:"style"`
	Colors     ColorSetting      `json:"colors"`
	Text       TextSetting       `json:"text"`
	Quality    QualitySetting    `json:"quality"`
	Dimensions DimensionsSetting `json:"dimensions"`
}

type StyleSetting struct {
	Enabled bool   `json:"enabled"`
	Type    string `json:"type"`
}

type ColorSetting struct {
	Enabled bool   `json:"enabled"`
	Scheme  string `json:"scheme"`
}

type TextSetting struct {
	Enabled  bool   `json:"enabled"`
	Value    string `json:"value"`
	Position string `json:"position"`
}

type QualitySetting struct {
	Level int `json:"level"`
}

type DimensionsSetting struct {
	Enabled     bool   `json:"enabled"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	AspectRatio string `json:"aspect_ratio"`
}

// qualityDescriptors maps the editor's 0-9 quality slider to a wording the
// image model responds to.
var qualityDescriptors = []string{
	"standard definition",
	"enhanced quality",
	"full HD quality",
	"professional quality",
	"high-definition quality",
	"premium quality",
	"studio quality",
	"ultra HD quality",
	"broadcast quality",
	"cinematic quality",
}

// BuildPrompt composes the base generation prompt from the request. This is
// also the fallback when the enhancement provider is unavailable.
func BuildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a compelling thumbnail based on the following instructions: Concept: %s.", strings.TrimSpace(req.Prompt))

	if req.Settings.Style.Enabled && req.Settings.Style.Type != "" {
		fmt.Fprintf(&b, " Use the specified style: %s.", req.Settings.Style.Type)
	} else {
		b.WriteString(" Choose an appropriate style for the thumbnail.")
	}

	if req.Settings.Colors.Enabled && req.Settings.Colors.Scheme != "" {
		fmt.Fprintf(&b, " Use the specified color scheme: %s.", req.Settings.Colors.Scheme)
	} else {
		b.WriteString(" Choose suitable colors that will engage viewers.")
	}

	if req.Settings.Text.Enabled && req.Settings.Text.Value != "" {
		fmt.Fprintf(&b, " Include the text %q positioned at %s.", req.Settings.Text.Value, req.Settings.Text.Position)
	} else {
		b.WriteString(" Do not include any text overlay.")
	}

	fmt.Fprintf(&b, " Quality level: %s.", qualityDescriptor(req.Settings.Quality.Level))

	if req.Settings.Dimensions.Enabled && req.Settings.Dimensions.Width > 0 && req.Settings.Dimensions.Height > 0 {
		fmt.Fprintf(&b, " Create the thumbnail with dimensions %dx%d with aspect ratio %s.",
			req.Settings.Dimensions.Width, req.Settings.Dimensions.Height, req.Settings.Dimensions.AspectRatio)
	} else {
		b.WriteString(" Create the thumbnail with standard YouTube dimensions (1280x720) with 16:9 aspect ratio.")
	}

	b.WriteString(" The thumbnail should be visually striking, attention-grabbing, and clearly communicate the content's theme.")

	return b.String()
}

func qualityDescriptor(level int) string {
	if level < 0 {
		level = 0
	}
	if level >= len(qualityDescriptors) {
		level = len(qualityDescriptors) - 1
	}
	return qualityDescriptors[level]
}
