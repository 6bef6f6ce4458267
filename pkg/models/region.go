package models

// Region is a geographic pricing tier of the shop.
type Region string

const (
	RegionUS Region = "US"
	RegionEU Region = "EU"
	RegionIN Region = "IN"
	RegionCA Region = "CA"
	RegionAU Region = "AU"
	RegionXX Region = "XX" // rest of world
)

// Regions is the closed set of pricing tiers, in display order.
var Regions = []Region{RegionUS, RegionEU, RegionIN, RegionCA, RegionAU, RegionXX}

func (r Region) Valid() bool {
	switch r {
	case RegionUS, RegionEU, RegionIN, RegionCA, RegionAU, RegionXX:
		return true
	default:
		return false
	}
}

// Flag returns the emoji shorthand used when rendering prices per region.
func (r Region) Flag() string {
	switch r {
	case RegionUS:
		return "🇺🇸"
	case RegionEU:
		return "🇪🇺/🇬🇧"
	case RegionIN:
		return "🇮🇳"
	case RegionCA:
		return "🇨🇦"
	case RegionAU:
		return "🇦🇺"
	case RegionXX:
		return "🌍"
	default:
		return string(r)
	}
}
