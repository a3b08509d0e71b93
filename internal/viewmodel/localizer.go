package viewmodel

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"

	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// Message keys. The English text doubles as the key.
const (
	msgTypeNumeric       = "Numeric"
	msgTypeString        = "String"
	msgTypeFormula       = "Formula"
	msgThousandSeparator = "Thousand separator"
	msgFractionAuto      = "Auto"
	msgFractionDigits    = "%d digits"
	msgFormulaResult     = "(formula)"
	msgNewSheet          = "New sheet"
)

// autoFractionDigits is the precision used when an item leaves the number of
// fraction digits to the formatter.
const autoFractionDigits = 10

var translations = map[language.Tag]map[string]string{
	language.Japanese: {
		msgTypeNumeric:       "数値入力",
		msgTypeString:        "文字列",
		msgTypeFormula:       "数式",
		msgThousandSeparator: "桁区切り",
		msgFractionAuto:      "自動",
		msgFractionDigits:    "小数点以下%d桁",
		msgFormulaResult:     "(数式の結果)",
		msgNewSheet:          "新しいシート",
	},
}

var messages = newCatalog()

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, key := range []string{
		msgTypeNumeric, msgTypeString, msgTypeFormula, msgThousandSeparator,
		msgFractionAuto, msgFractionDigits, msgFormulaResult, msgNewSheet,
	} {
		if err := b.SetString(language.English, key, key); err != nil {
			panic(err)
		}
	}
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Localizer renders labels and values for one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// NewLocalizer returns a Localizer for tag. Unsupported languages fall back
// to English.
func NewLocalizer(tag language.Tag) *Localizer {
	return &Localizer{tag: tag, printer: message.NewPrinter(tag, message.Catalog(messages))}
}

// ParseLocale parses a BCP 47 tag such as "ja" or "en-US". Empty or invalid
// input yields English.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil || s == "" {
		return language.English
	}
	return tag
}

// Tag returns the language the Localizer was built for.
func (l *Localizer) Tag() language.Tag { return l.tag }

// ItemType returns the display label of t.
func (l *Localizer) ItemType(t types.ItemType) string {
	switch t {
	case types.ItemTypeString:
		return l.printer.Sprintf(msgTypeString)
	case types.ItemTypeFormula:
		return l.printer.Sprintf(msgTypeFormula)
	default:
		return l.printer.Sprintf(msgTypeNumeric)
	}
}

// FractionDigits returns the label of a fraction digit choice.
func (l *Localizer) FractionDigits(n int) string {
	if n < 0 {
		return l.printer.Sprintf(msgFractionAuto)
	}
	return l.printer.Sprintf(msgFractionDigits, n)
}

// Format describes the display options of it, for example
// "Thousand separator, Auto".
func (l *Localizer) Format(it types.SheetItem) string {
	var parts []string
	if it.ThousandSeparator {
		parts = append(parts, l.printer.Sprintf(msgThousandSeparator))
	}
	parts = append(parts, l.FractionDigits(it.FractionDigits))
	return strings.Join(parts, ", ")
}

// Number formats v with the given display options.
func (l *Localizer) Number(v float64, thousandSeparator bool, fractionDigits int) string {
	var opts []number.Option
	if !thousandSeparator {
		opts = append(opts, number.NoSeparator())
	}
	if fractionDigits < 0 {
		opts = append(opts, number.MaxFractionDigits(autoFractionDigits))
	} else {
		opts = append(opts, number.Scale(types.ClampFractionDigits(fractionDigits)))
	}
	return l.printer.Sprint(number.Decimal(v, opts...))
}

// Value returns the text shown for the item's value. Formula items show a
// placeholder since formulas are not evaluated.
func (l *Localizer) Value(it types.SheetItem) string {
	switch it.Type {
	case types.ItemTypeString:
		return it.StringValue
	case types.ItemTypeFormula:
		return l.printer.Sprintf(msgFormulaResult)
	default:
		return l.Number(it.NumberValue, it.ThousandSeparator, it.FractionDigits)
	}
}

// NewSheetName is the name given to a sheet created without one.
func (l *Localizer) NewSheetName() string {
	return l.printer.Sprintf(msgNewSheet)
}
