// Package supplies classifies consumable labels reported by printers.
package supplies

import (
	"regexp"
	"strings"
)

// Kind is a canonical consumable key such as "toner_black". The zero value
// means the label could not be classified.
type Kind string

const (
	TonerBlack   Kind = "toner_black"
	TonerCyan    Kind = "toner_cyan"
	TonerMagenta Kind = "toner_magenta"
	TonerYellow  Kind = "toner_yellow"
	DrumLife     Kind = "drum_life"
	WasteToner   Kind = "waste_toner"
	FuserLife    Kind = "fuser_life"
	TransferBelt Kind = "transfer_belt"
)

// partNumberPattern matches vendor part numbers ending in a colour code:
// Kyocera TK-8517K/C/M/Y, HP CF410C and similar.
var partNumberPattern = regexp.MustCompile(`(?i)^(tk|tn|ce|cf|w\d|cb|cc|q\d|c\d)[- ]?\d{3,5}([kcmy])$`)

// monoTonerPattern matches mono toner part numbers without a colour suffix
// (Kyocera TK-3182, Brother TN-760). They are always black.
var monoTonerPattern = regexp.MustCompile(`(?i)^(tk|tn)[- ]?\d{3,5}$`)

var colorCodes = map[byte]Kind{
	'k': TonerBlack,
	'c': TonerCyan,
	'm': TonerMagenta,
	'y': TonerYellow,
}

type colorRule struct {
	kind    Kind
	letter  string
	needles []string
}

// colorRules are checked in order; black first so "black drum" is not read
// as another colour.
var colorRules = []colorRule{
	{TonerBlack, "k", []string{"black", " bk", "bk ", "blk", "negro", "noir", "schwarz", "nero"}},
	{TonerCyan, "c", []string{"cyan", " cy", "cy ", "cyn"}},
	{TonerMagenta, "m", []string{"magenta", " mg", "mg ", " mag", "mag "}},
	{TonerYellow, "y", []string{"yellow", " yl", "yl ", "yel", "amarillo", "jaune", "gelb", "giallo"}},
}

// NormalizeDescription maps a raw supply label to a Kind
// ("Black Toner" -> TonerBlack). Drums that mention a colour are only
// reported as DrumLife for black; other coloured drums are unclassified.
func NormalizeDescription(desc string) Kind {
	clean := strings.TrimSpace(desc)
	if clean == "" {
		return ""
	}
	if k := kindFromPartNumber(clean); k != "" {
		return k
	}

	lower := strings.NewReplacer("_", " ", "-", " ", "\t", " ", "\n", " ").Replace(strings.ToLower(clean))
	lower = strings.TrimSpace(lower)
	if lower == "" {
		return ""
	}

	isToner := containsAny(lower, "toner", "ink", "cartridge", "developer", "supply")
	isDrum := containsAny(lower, "drum", "imaging", "image", "opc", "photoconductor")

	for _, rule := range colorRules {
		if lower != rule.letter && !containsAny(lower, rule.needles...) {
			continue
		}
		if isDrum && !isToner {
			if rule.kind == TonerBlack {
				return DrumLife
			}
			return ""
		}
		return rule.kind
	}

	switch {
	case isDrum:
		return DrumLife
	case containsAny(lower, "waste", "used"):
		return WasteToner
	case containsAny(lower, "fuser", "fusing"):
		return FuserLife
	case containsAny(lower, "transfer", "belt"):
		return TransferBelt
	}
	return ""
}

// kindFromPartNumber reads the colour from a vendor part number suffix, or
// treats a suffix-less mono part number as black. The whole label or its last
// word must be shaped like a part number, so page-life suffixes such as
// "Fuser Kit 150K" are left to the keyword rules.
func kindFromPartNumber(desc string) Kind {
	if k := kindFromToken(desc); k != "" {
		return k
	}
	fields := strings.Fields(desc)
	if len(fields) < 2 {
		return ""
	}
	return kindFromToken(fields[len(fields)-1])
}

func kindFromToken(token string) Kind {
	if m := partNumberPattern.FindStringSubmatch(token); len(m) >= 3 {
		if k, ok := colorCodes[strings.ToLower(m[2])[0]]; ok {
			return k
		}
	}
	if monoTonerPattern.MatchString(token) {
		return TonerBlack
	}
	return ""
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
