package normalize

import "regexp"

// Taiwanese addresses geocode badly when they carry floor, unit or
// cadastral-parcel suffixes. The degradation rules below produce a
// strictly coarsening sequence of query variants:
//
//	屏東縣東港鎮新生三路175號4樓頂 → 屏東縣東港鎮新生三路175號
//	屏東縣東港鎮大潭新段208地號   → 屏東縣東港鎮大潭新段208
var (
	// everything after the house-number marker 號 (floors, 之x, rooftop)
	reAfterNumber = regexp.MustCompile("號.*$")
	// cadastral parcel suffix xx段N地號
	reLandParcel = regexp.MustCompile("地號.*$")
	// village-level 里/村 segments carry little geographic signal
	reVillage = regexp.MustCompile("[省縣市鄉鎮區村里][^省縣市鄉鎮區村里]*?里")
	// longest administrative prefix, down to township/district level
	reDistrict = regexp.MustCompile("^(.*(?:縣|市|鄉|鎮|區))")
	// trailing punctuation left over after truncation
	reTrailingPunct = regexp.MustCompile("[，。、,.]+$")
)

// AddressVariants generates geocoding query variants for a raw address,
// ordered from most to least specific:
//
//	v1: cleaned full address (floor/parcel/village qualifiers stripped)
//	v2: v1 without the house number, street level only
//	v3: township/district administrative prefix only
//
// Duplicates and empty variants are removed, order preserved. An empty
// or unusable address yields nil.
func AddressVariants(raw string) []string {
	a := CanonAddress(raw)
	if a == "" {
		return nil
	}

	v1 := reAfterNumber.ReplaceAllString(a, "號")
	v1 = reLandParcel.ReplaceAllString(v1, "")
	v1 = reVillage.ReplaceAllString(v1, "")

	v2 := reAfterNumber.ReplaceAllString(v1, "")

	v3 := v2
	if m := reDistrict.FindStringSubmatch(v1); m != nil {
		v3 = m[1]
	}

	variants := make([]string, 0, 3)
	for _, v := range []string{v1, v2, v3} {
		v = reTrailingPunct.ReplaceAllString(v, "")
		if v == "" {
			continue
		}
		seen := false
		for _, prev := range variants {
			if prev == v {
				seen = true
				break
			}
		}
		if !seen {
			variants = append(variants, v)
		}
	}
	return variants
}
