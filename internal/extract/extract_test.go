package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleArray = `[
  {"model": "GD32F103C8T6", "brand": "GigaDevice", "category": "MCU", "package": "LQFP48", "type": "domestic", "price": "¥12-¥15"},
  {"model": "APM32F103C8T6", "brand": "Geehy", "category": "MCU", "package": "LQFP48", "type": "domestic", "price": "8.5"}
]`

func TestExtract_BareArray(t *testing.T) {
	recs := Extract(sampleArray)
	require.Len(t, recs, 2)
	assert.Equal(t, "GD32F103C8T6", recs[0]["model"])
}

func TestExtract_FencedCodeBlock(t *testing.T) {
	raw := "Here are the recommendations:\n```json\n" + sampleArray + "\n```\nHope this helps."
	recs := Extract(raw)
	require.Len(t, recs, 2)
	assert.Equal(t, "APM32F103C8T6", recs[1]["model"])
}

func TestExtract_FencedBlockWithoutLanguageTag(t *testing.T) {
	raw := "```\n" + sampleArray + "\n```"
	recs := Extract(raw)
	require.Len(t, recs, 2)
}

func TestExtract_ArraySurroundedByProse(t *testing.T) {
	raw := "Based on the search context, here are three substitutes.\n" +
		sampleArray +
		"\nAll three are in production."
	recs := Extract(raw)
	require.Len(t, recs, 2)
}

func TestExtract_SingleQuotedNearJSON(t *testing.T) {
	raw := `[{'model': 'SGM2036', 'brand': 'SG Micro', 'type': 'domestic'}]`
	recs := Extract(raw)
	require.Len(t, recs, 1)
	assert.Equal(t, "SGM2036", recs[0]["model"])
}

func TestExtract_TrailingCommaVariant(t *testing.T) {
	raw := `[{"model": "SGM2036", "brand": "SG Micro"},]`
	recs := Extract(raw)
	require.Len(t, recs, 1)
	assert.Equal(t, "SGM2036", recs[0]["model"])
}

func TestExtract_ModelAnchoredFragment(t *testing.T) {
	raw := "prefix {broken json} middle [ {\"model\": \"CH340G\", \"brand\": \"WCH\"} ] suffix"
	recs := Extract(raw)
	require.Len(t, recs, 1)
	assert.Equal(t, "CH340G", recs[0]["model"])
}

func TestExtract_MultilineAccumulation(t *testing.T) {
	raw := "The answer:\n[\n{\"model\": \"GD25Q64\",\n\"brand\": \"GigaDevice\"}\n]\nDone."
	recs := Extract(raw)
	require.Len(t, recs, 1)
	assert.Equal(t, "GD25Q64", recs[0]["model"])
}

func TestExtract_NonObjectElementsDiscarded(t *testing.T) {
	raw := `[{"model": "GD32"}, "stray string", 42, {"model": "CH32"}]`
	recs := Extract(raw)
	require.Len(t, recs, 2)
}

func TestExtract_GarbageYieldsEmpty(t *testing.T) {
	assert.Empty(t, Extract("complete nonsense with no structure at all"))
	assert.Empty(t, Extract(""))
	assert.Empty(t, Extract("   \n\t  "))
}

func TestExtract_DomainKeywordsYieldPlaceholder(t *testing.T) {
	raw := "推荐型号 GD32F103，国产方案，性能相近。"
	recs := Extract(raw)
	require.Len(t, recs, 1)
	assert.Equal(t, true, recs[0]["unparsed"])

	raw = "The model GD32F103 is a domestic substitute with similar specs."
	recs = Extract(raw)
	require.Len(t, recs, 1)
	assert.Equal(t, true, recs[0]["unparsed"])
}

func TestExtract_TopLevelObjectIsNotAnArray(t *testing.T) {
	// A lone object mentioning no domain keywords degrades to empty.
	assert.Empty(t, Extract(`{"status": "ok"}`))
}

func TestExtractObject_Direct(t *testing.T) {
	obj, ok := ExtractObject(`{"status": "discontinued", "eol_year": null}`)
	require.True(t, ok)
	assert.Equal(t, "discontinued", obj["status"])
}

func TestExtractObject_BraceMatching(t *testing.T) {
	raw := "Assessment follows. {\"status\": \"in production\", \"eol_year\": 2027} End."
	obj, ok := ExtractObject(raw)
	require.True(t, ok)
	assert.Equal(t, "in production", obj["status"])
	assert.InDelta(t, 2027, obj["eol_year"], 0.1)
}

func TestExtractObject_NoBraces(t *testing.T) {
	_, ok := ExtractObject("nothing structured here")
	assert.False(t, ok)
}
