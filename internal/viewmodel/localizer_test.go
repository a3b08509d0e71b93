package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

func TestLocalizerNumber(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		separator bool
		digits    int
		want      string
	}{
		{name: "auto without separator", value: 1234.5, digits: types.FractionDigitsAuto, want: "1234.5"},
		{name: "auto with separator", value: 1234.5, separator: true, digits: types.FractionDigitsAuto, want: "1,234.5"},
		{name: "integer auto", value: 42, digits: types.FractionDigitsAuto, want: "42"},
		{name: "fixed pads zeros", value: 1234, separator: true, digits: 2, want: "1,234.00"},
		{name: "fixed rounds", value: 0.125, digits: 1, want: "0.1"},
		{name: "zero digits", value: 120000, separator: true, digits: 0, want: "120,000"},
		{name: "negative", value: -5.5, digits: 1, want: "-5.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, english.Number(tt.value, tt.separator, tt.digits))
		})
	}
}

func TestLocalizerValue(t *testing.T) {
	assert.Equal(t, "hello", english.Value(item("i", "n", func(it *types.SheetItem) {
		it.Type = types.ItemTypeString
		it.StringValue = "hello"
	})))
	assert.Equal(t, "(formula)", english.Value(item("i", "n", func(it *types.SheetItem) {
		it.Type = types.ItemTypeFormula
		it.Formula = "A + B"
	})))
	assert.Equal(t, "3", english.Value(item("i", "n", func(it *types.SheetItem) { it.NumberValue = 3 })))
}

func TestLocalizerFormat(t *testing.T) {
	tests := []struct {
		separator bool
		digits    int
		want      string
	}{
		{false, types.FractionDigitsAuto, "Auto"},
		{true, types.FractionDigitsAuto, "Thousand separator, Auto"},
		{true, 2, "Thousand separator, 2 digits"},
		{false, 0, "0 digits"},
	}
	for _, tt := range tests {
		it := item("i", "n", func(it *types.SheetItem) {
			it.ThousandSeparator = tt.separator
			it.FractionDigits = tt.digits
		})
		assert.Equal(t, tt.want, english.Format(it))
	}
}

func TestLocalizerJapanese(t *testing.T) {
	ja := NewLocalizer(language.Japanese)
	assert.Equal(t, "数値入力", ja.ItemType(types.ItemTypeNumeric))
	assert.Equal(t, "自動", ja.FractionDigits(types.FractionDigitsAuto))
	assert.Equal(t, "小数点以下3桁", ja.FractionDigits(3))
	assert.Equal(t, language.Japanese, ja.Tag())
}

func TestLocalizerFallsBackToEnglish(t *testing.T) {
	fr := NewLocalizer(language.French)
	assert.Equal(t, "Formula", fr.ItemType(types.ItemTypeFormula))
}

func TestParseLocale(t *testing.T) {
	assert.Equal(t, language.English, ParseLocale(""))
	assert.Equal(t, language.English, ParseLocale("!!"))
	assert.Equal(t, language.Japanese, ParseLocale("ja"))
}
