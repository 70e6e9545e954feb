package model

import "strings"

// countryCodes is the client's country enum, indexed by wire value.
// Index 0 is "unknown"; the order is fixed by the osu! client and must
// not be rearranged.
var countryCodes = [...]string{
	"XX", "OC", "EU", "AD", "AE", "AF", "AG", "AI", "AL", "AM",
	"AN", "AO", "AQ", "AR", "AS", "AT", "AU", "AW", "AZ", "BA",
	"BB", "BD", "BE", "BF", "BG", "BH", "BI", "BJ", "BM", "BN",
	"BO", "BR", "BS", "BT", "BV", "BW", "BY", "BZ", "CA", "CC",
	"CD", "CF", "CG", "CH", "CI", "CK", "CL", "CM", "CN", "CO",
	"CR", "CU", "CV", "CX", "CY", "CZ", "DE", "DJ", "DK", "DM",
	"DO", "DZ", "EC", "EE", "EG", "EH", "ER", "ES", "ET", "FI",
	"FJ", "FK", "FM", "FO", "FR", "FX", "GA", "GB", "GD", "GE",
	"GF", "GH", "GI", "GL", "GM", "GN", "GP", "GQ", "GR", "GS",
	"GT", "GU", "GW", "GY", "HK", "HM", "HN", "HR", "HT", "HU",
	"ID", "IE", "IL", "IN", "IO", "IQ", "IR", "IS", "IT", "JM",
	"JO", "JP", "KE", "KG", "KH", "KI", "KM", "KN", "KP", "KR",
	"KW", "KY", "KZ", "LA", "LB", "LC", "LI", "LK", "LR", "LS",
	"LT", "LU", "LV", "LY", "MA", "MC", "MD", "MG", "MH", "MK",
	"ML", "MM", "MN", "MO", "MP", "MQ", "MR", "MS", "MT", "MU",
	"MV", "MW", "MX", "MY", "MZ", "NA", "NC", "NE", "NF", "NG",
	"NI", "NL", "NO", "NP", "NR", "NU", "NZ", "OM", "PA", "PE",
	"PF", "PG", "PH", "PK", "PL", "PM", "PN", "PR", "PS", "PT",
	"PW", "PY", "QA", "RE", "RO", "RU", "RW", "SA", "SB", "SC",
	"SD", "SE", "SG", "SH", "SI", "SJ", "SK", "SL", "SM", "SN",
	"SO", "SR", "ST", "SV", "SY", "SZ", "TC", "TD", "TF", "TG",
	"TH", "TJ", "TK", "TM", "TN", "TO", "TL", "TR", "TT", "TV",
	"TW", "TZ", "UA", "UG", "UM", "US", "UY", "UZ", "VA", "VC",
	"VE", "VG", "VI", "VN", "VU", "WF", "WS", "YE", "YT", "RS",
	"ZA", "ZM", "ME", "ZW", "A1", "A2", "O1", "AX", "GG", "IM",
	"JE", "BL", "MF",
}

// countryIndex maps an uppercase acronym back to its wire value.
var countryIndex = func() map[string]uint8 {
	m := make(map[string]uint8, len(countryCodes))
	for i, c := range countryCodes {
		m[c] = uint8(i)
	}
	return m
}()

// CountryCode returns the wire value for a two-letter country acronym
// (any case). Unknown acronyms map to 0.
func CountryCode(acronym string) uint8 {
	return countryIndex[strings.ToUpper(acronym)]
}

// Geolocation is where a session connected from, resolved at login.
type Geolocation struct {
	Country     string // two-letter acronym, lowercase
	CountryCode uint8
	Latitude    float32
	Longitude   float32
}
