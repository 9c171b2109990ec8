package language

import "fmt"

// Code is a language code as used for language folder names.
type Code string

const (
	English             Code = "en"
	EnglishUS           Code = "en_US"
	EnglishUK           Code = "en_UK"
	Italian             Code = "it"
	Spanish             Code = "es"
	SpanishSpain        Code = "es_ES"
	SpanishLatinAmerica Code = "es_LA"
	German              Code = "de"
	French              Code = "fr"
	Dutch               Code = "nl"
	Chinese             Code = "zh"
	ChinesePRC          Code = "zh_CN"
	ChineseHongKong     Code = "zh_HK"
)

// Codes lists every supported language code.
var Codes = []Code{
	English, EnglishUS, EnglishUK,
	Italian,
	Spanish, SpanishSpain, SpanishLatinAmerica,
	German, French, Dutch,
	Chinese, ChinesePRC, ChineseHongKong,
}

// ParseCode validates s as a supported language code.
func ParseCode(s string) (Code, error) {
	for _, c := range Codes {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unrecognized language code %q", s)
}
