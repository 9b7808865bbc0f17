package aigen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptDefaults(t *testing.T) {
	prompt := BuildPrompt(Request{Prompt: "cooking tutorial"})

	assert.Contains(t, prompt, "Concept: cooking tutorial.")
	assert.Contains(t, prompt, "Choose an appropriate style")
	assert.Contains(t, prompt, "Choose suitable colors")
	assert.Contains(t, prompt, "Do not include any text overlay.")
	assert.Contains(t, prompt, "standard definition")
	assert.Contains(t, prompt, "standard YouTube dimensions (1280x720) with 16:9 aspect ratio")
}

func TestBuildPromptAppliesSettings(t *testing.T) {
	prompt := BuildPrompt(Request{
		Prompt: "cooking tutorial",
		Settings: Settings{
			Style:   StyleSetting{Enabled: true, Type: "cartoon"},
			Colors:  ColorSetting{Enabled: true, Scheme: "warm pastel"},
			Text:    TextSetting{Enabled: true, Value: "EASY PASTA", Position: "bottom"},
			Quality: QualitySetting{Level: 9},
			Dimensions: DimensionsSetting{
				Enabled: true, Width: 1920, Height: 1080, AspectRatio: "16:9",
			},
		},
	})

	assert.Contains(t, prompt, "Use the specified style: cartoon.")
	assert.Contains(t, prompt, "Use the specified color scheme: warm pastel.")
	assert.Contains(t, prompt, `Include the text "EASY PASTA" positioned at bottom.`)
	assert.Contains(t, prompt, "cinematic quality")
	assert.Contains(t, prompt, "dimensions 1920x1080 with aspect ratio 16:9")
}

func TestQualityDescriptorClampsOutOfRangeLevels(t *testing.T) {
	assert.Equal(t, qualityDescriptors[0], qualityDescriptor(-3))
	assert.Equal(t, qualityDescriptors[len(qualityDescriptors)-1], qualityDescriptor(42))
}
