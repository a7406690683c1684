// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Polarity classifies an adduct's ionization mode.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
	PolarityNeutral  Polarity = "neutral"
)

// Adduct describes an ionization adduct. MassDelta is the signed mass added
// to the neutral molecule by the adduct, so inferring a neutral mass from an
// observed mass is always the single subtraction observed − MassDelta,
// whatever the polarity.
type Adduct struct {
	// Label is the conventional notation, e.g. "[M+H]+".
	Label string `json:"label" yaml:"label"`

	// MassDelta is the signed monoisotopic mass difference in Da.
	MassDelta float64 `json:"mass_delta" yaml:"mass_delta"`

	// Polarity is the ionization mode the adduct belongs to.
	Polarity Polarity `json:"polarity" yaml:"polarity"`
}

// AdductNone is the no-adjustment neutral mode: the observed mass is taken
// as the neutral mass directly.
var AdductNone = Adduct{Label: "M", MassDelta: 0, Polarity: PolarityNeutral}

// Adducts lists the supported LC-MS adducts in display order. Deltas are
// monoisotopic masses of the gained/lost fragment (electron mass ignored,
// as is conventional at this precision).
var Adducts = []Adduct{
	{Label: "[M+H]+", MassDelta: 1.007276, Polarity: PolarityPositive},
	{Label: "[M+Na]+", MassDelta: 22.989218, Polarity: PolarityPositive},
	{Label: "[M+K]+", MassDelta: 38.963158, Polarity: PolarityPositive},
	{Label: "[M+NH4]+", MassDelta: 18.033823, Polarity: PolarityPositive},
	{Label: "[M-H]-", MassDelta: -1.007276, Polarity: PolarityNegative},
	{Label: "[M+Cl]-", MassDelta: 34.969402, Polarity: PolarityNegative},
	{Label: "[M+HCOO]-", MassDelta: 44.998201, Polarity: PolarityNegative},
	AdductNone,
}

// LookupAdduct resolves an adduct by label. Bracket and charge decoration is
// optional: "M+H", "[M+H]", and "[M+H]+" all resolve to [M+H]+. The empty
// string resolves to the neutral mode.
func LookupAdduct(label string) (Adduct, error) {
	key := canonicalAdductKey(label)
	if key == "" || key == "M" {
		return AdductNone, nil
	}
	for _, a := range Adducts {
		if canonicalAdductKey(a.Label) == key {
			return a, nil
		}
	}
	return Adduct{}, fmt.Errorf("unknown adduct %q (supported: %s)", label, strings.Join(AdductLabels(), ", "))
}

// AdductLabels returns the labels of all supported adducts in display order.
func AdductLabels() []string {
	labels := make([]string, len(Adducts))
	for i, a := range Adducts {
		labels[i] = a.Label
	}
	return labels
}

func canonicalAdductKey(label string) string {
	s := strings.TrimSpace(label)
	s = strings.Trim(s, "+-")
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	return strings.ToUpper(s)
}
