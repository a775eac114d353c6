package intel

import (
	"regexp"
	"strconv"
	"strings"
)

// Privacy levels of GDPRInfo.
const (
	PrivacyStandard = "standard"
	PrivacyMedium   = "medium"
	PrivacyHigh     = "high"
)

const (
	defaultContinent    = "Unknown"
	defaultCurrency     = "USD"
	defaultOrganization = "Unknown Organization"
)

var asnRegexp = regexp.MustCompile(`(?i)^\s*AS(\d+)\b`)

// GDPR is a data protection summary for the country.
type GDPR struct {
	Applicable      bool   `json:"gdpr_applicable"`
	RequiresConsent bool   `json:"requires_consent"`
	Law             string `json:"data_protection_law,omitempty"`
	LawName         string `json:"data_protection_law_name,omitempty"`
	PrivacyLevel    string `json:"privacy_level"`
}

type dataProtectionLaw struct {
	law  string
	name string
}

// ContinentOf returns a continent name for 2-letter country code.
func ContinentOf(countryCode string) string {
	if value, ok := continents[strings.ToUpper(countryCode)]; ok {
		return value
	}

	return defaultContinent
}

// CurrencyOf returns ISO4217 currency code used in the country. USD is
// a fallback.
func CurrencyOf(countryCode string) string {
	if value, ok := currencies[strings.ToUpper(countryCode)]; ok {
		return value
	}

	return defaultCurrency
}

// GDPRInfo tells if GDPR is applicable to the country. Countries with
// their own data protection law get medium privacy level.
func GDPRInfo(countryCode string) GDPR {
	countryCode = strings.ToUpper(countryCode)
	_, applicable := gdprCountries[countryCode]
	rv := GDPR{
		Applicable:      applicable,
		RequiresConsent: applicable || countryCode == "US",
		PrivacyLevel:    PrivacyStandard,
	}

	if applicable {
		rv.Law = "GDPR"
		rv.LawName = "General Data Protection Regulation"
		rv.PrivacyLevel = PrivacyHigh
	} else if law, ok := dataProtectionLaws[countryCode]; ok {
		rv.Law = law.law
		rv.LawName = law.name
		rv.PrivacyLevel = PrivacyMedium
	}

	return rv
}

// ASNOrganization returns a name of organization which operates
// autonomous system, like AS15169.
func ASNOrganization(asn string) string {
	if value, ok := asnOrganizations[strings.ToUpper(strings.TrimSpace(asn))]; ok {
		return value
	}

	return defaultOrganization
}

// ParseASN extracts ASN identifier from strings like 'AS15169 Google
// LLC'. It returns a normalized identifier (AS15169) and its number. If
// string has no ASN, empty identifier is returned.
func ParseASN(value string) (string, uint64) {
	groups := asnRegexp.FindStringSubmatch(value)
	if groups == nil {
		return "", 0
	}

	number, err := strconv.ParseUint(groups[1], 10, 32)
	if err != nil {
		return "", 0
	}

	return "AS" + groups[1], number
}

var gdprCountries = map[string]struct{}{
	// EU
	"AT": {}, "BE": {}, "BG": {}, "HR": {}, "CY": {}, "CZ": {}, "DK": {},
	"EE": {}, "FI": {}, "FR": {}, "DE": {}, "GR": {}, "HU": {}, "IE": {},
	"IT": {}, "LV": {}, "LT": {}, "LU": {}, "MT": {}, "NL": {}, "PL": {},
	"PT": {}, "RO": {}, "SK": {}, "SI": {}, "ES": {}, "SE": {},
	// EEA
	"IS": {}, "LI": {}, "NO": {},
	// equivalent regimes
	"GB": {}, "CH": {},
}

var dataProtectionLaws = map[string]dataProtectionLaw{
	"US": {law: "CCPA", name: "California Consumer Privacy Act"},
	"BR": {law: "LGPD", name: "Lei Geral de Proteção de Dados"},
	"CA": {law: "PIPEDA", name: "Personal Information Protection Act"},
	"AU": {law: "Privacy Act", name: "Privacy Act 1988"},
	"JP": {law: "APPI", name: "Act on Protection of Personal Information"},
	"KR": {law: "PIPA", name: "Personal Information Protection Act"},
	"IN": {law: "DPDP", name: "Digital Personal Data Protection Act"},
	"ZA": {law: "POPIA", name: "Protection of Personal Information Act"},
}

var continents = map[string]string{
	"US": "North America", "CA": "North America", "MX": "North America",
	"GT": "North America", "BZ": "North America", "SV": "North America",
	"HN": "North America", "NI": "North America", "CR": "North America",
	"PA": "North America", "CU": "North America", "JM": "North America",
	"HT": "North America", "DO": "North America", "BS": "North America",
	"BB": "North America", "TT": "North America", "GD": "North America",
	"LC": "North America", "VC": "North America", "AG": "North America",
	"KN": "North America", "DM": "North America", "GB": "Europe",
	"DE": "Europe", "FR": "Europe", "IT": "Europe", "ES": "Europe",
	"NL": "Europe", "RU": "Europe", "PL": "Europe", "SE": "Europe",
	"NO": "Europe", "DK": "Europe", "FI": "Europe", "IS": "Europe",
	"IE": "Europe", "PT": "Europe", "AT": "Europe", "CH": "Europe",
	"BE": "Europe", "LU": "Europe", "GR": "Europe", "CY": "Europe",
	"MT": "Europe", "CZ": "Europe", "SK": "Europe", "HU": "Europe",
	"SI": "Europe", "HR": "Europe", "BA": "Europe", "RS": "Europe",
	"ME": "Europe", "MK": "Europe", "AL": "Europe", "BG": "Europe",
	"RO": "Europe", "MD": "Europe", "UA": "Europe", "BY": "Europe",
	"LT": "Europe", "LV": "Europe", "EE": "Europe", "VA": "Europe",
	"SM": "Europe", "AD": "Europe", "MC": "Europe", "LI": "Europe",
	"IN": "Asia", "CN": "Asia", "JP": "Asia", "KR": "Asia", "TH": "Asia",
	"VN": "Asia", "ID": "Asia", "MY": "Asia", "SG": "Asia", "PH": "Asia",
	"TW": "Asia", "BD": "Asia", "PK": "Asia", "LK": "Asia", "MM": "Asia",
	"KH": "Asia", "LA": "Asia", "BN": "Asia", "MN": "Asia", "KZ": "Asia",
	"KG": "Asia", "TJ": "Asia", "TM": "Asia", "UZ": "Asia", "AF": "Asia",
	"IR": "Asia", "IQ": "Asia", "SY": "Asia", "LB": "Asia", "JO": "Asia",
	"IL": "Asia", "PS": "Asia", "SA": "Asia", "YE": "Asia", "OM": "Asia",
	"AE": "Asia", "QA": "Asia", "BH": "Asia", "KW": "Asia", "TR": "Asia",
	"AM": "Asia", "AZ": "Asia", "GE": "Asia", "NP": "Asia", "BT": "Asia",
	"MV": "Asia", "NG": "Africa", "EG": "Africa", "ZA": "Africa",
	"KE": "Africa", "MA": "Africa", "ET": "Africa", "UG": "Africa",
	"DZ": "Africa", "SD": "Africa", "MZ": "Africa", "MG": "Africa",
	"CM": "Africa", "CI": "Africa", "NE": "Africa", "BF": "Africa",
	"ML": "Africa", "MW": "Africa", "ZM": "Africa", "ZW": "Africa",
	"SN": "Africa", "SO": "Africa", "TD": "Africa", "GN": "Africa",
	"RW": "Africa", "BJ": "Africa", "TN": "Africa", "BI": "Africa",
	"ER": "Africa", "SL": "Africa", "TG": "Africa", "CF": "Africa",
	"LR": "Africa", "MR": "Africa", "NA": "Africa", "BW": "Africa",
	"GA": "Africa", "GM": "Africa", "GW": "Africa", "LS": "Africa",
	"SZ": "Africa", "DJ": "Africa", "KM": "Africa", "CV": "Africa",
	"MU": "Africa", "SC": "Africa", "ST": "Africa", "GQ": "Africa",
	"SS": "Africa", "LY": "Africa", "AO": "Africa", "CD": "Africa",
	"CG": "Africa", "BR": "South America", "AR": "South America",
	"CO": "South America", "PE": "South America", "VE": "South America",
	"CL": "South America", "EC": "South America", "BO": "South America",
	"PY": "South America", "UY": "South America", "GY": "South America",
	"SR": "South America", "GF": "South America", "FK": "South America",
	"AU": "Oceania", "NZ": "Oceania", "FJ": "Oceania", "PG": "Oceania",
	"SB": "Oceania", "VU": "Oceania", "NC": "Oceania", "PF": "Oceania",
	"WS": "Oceania", "KI": "Oceania", "TO": "Oceania", "MH": "Oceania",
	"PW": "Oceania", "FM": "Oceania", "NR": "Oceania", "TV": "Oceania",
	"CK": "Oceania", "NU": "Oceania", "TK": "Oceania", "AS": "Oceania",
	"GU": "Oceania", "MP": "Oceania", "UM": "Oceania", "WF": "Oceania",
}

var currencies = map[string]string{
	"US": "USD", "GB": "GBP", "DE": "EUR", "FR": "EUR", "IT": "EUR",
	"ES": "EUR", "NL": "EUR", "BE": "EUR", "AT": "EUR", "PT": "EUR",
	"IE": "EUR", "FI": "EUR", "GR": "EUR", "LU": "EUR", "MT": "EUR",
	"CY": "EUR", "SK": "EUR", "SI": "EUR", "EE": "EUR", "LV": "EUR",
	"LT": "EUR", "HR": "EUR", "AD": "EUR", "MC": "EUR", "SM": "EUR",
	"VA": "EUR", "ME": "EUR", "XK": "EUR", "IN": "INR", "CN": "CNY",
	"JP": "JPY", "KR": "KRW", "TH": "THB", "VN": "VND", "ID": "IDR",
	"MY": "MYR", "SG": "SGD", "PH": "PHP", "TW": "TWD", "BD": "BDT",
	"PK": "PKR", "LK": "LKR", "MM": "MMK", "KH": "KHR", "LA": "LAK",
	"BN": "BND", "MN": "MNT", "KZ": "KZT", "KG": "KGS", "TJ": "TJS",
	"TM": "TMT", "UZ": "UZS", "AF": "AFN", "IR": "IRR", "IQ": "IQD",
	"SY": "SYP", "LB": "LBP", "JO": "JOD", "IL": "ILS", "SA": "SAR",
	"YE": "YER", "OM": "OMR", "AE": "AED", "QA": "QAR", "BH": "BHD",
	"KW": "KWD", "TR": "TRY", "AM": "AMD", "AZ": "AZN", "GE": "GEL",
	"NP": "NPR", "BT": "BTN", "MV": "MVR", "NG": "NGN", "EG": "EGP",
	"ZA": "ZAR", "KE": "KES", "MA": "MAD", "ET": "ETB", "UG": "UGX",
	"DZ": "DZD", "SD": "SDG", "MZ": "MZN", "MG": "MGA", "CM": "XAF",
	"CI": "XOF", "NE": "XOF", "BF": "XOF", "ML": "XOF", "MW": "MWK",
	"ZM": "ZMW", "ZW": "ZWL", "SN": "XOF", "SO": "SOS", "TD": "XAF",
	"GN": "GNF", "RW": "RWF", "BJ": "XOF", "TN": "TND", "BI": "BIF",
	"ER": "ERN", "SL": "SLL", "TG": "XOF", "CF": "XAF", "LR": "LRD",
	"MR": "MRU", "NA": "NAD", "BW": "BWP", "GA": "XAF", "GM": "GMD",
	"GW": "XOF", "LS": "LSL", "SZ": "SZL", "DJ": "DJF", "KM": "KMF",
	"CV": "CVE", "MU": "MUR", "SC": "SCR", "ST": "STN", "GQ": "XAF",
	"SS": "SSP", "LY": "LYD", "AO": "AOA", "CD": "CDF", "CG": "XAF",
	"CA": "CAD", "AU": "AUD", "NZ": "NZD", "CH": "CHF", "NO": "NOK",
	"SE": "SEK", "DK": "DKK", "IS": "ISK", "PL": "PLN", "CZ": "CZK",
	"HU": "HUF", "RO": "RON", "BG": "BGN", "RU": "RUB", "UA": "UAH",
	"BY": "BYN", "MX": "MXN", "BR": "BRL", "AR": "ARS", "CO": "COP",
	"PE": "PEN", "CL": "CLP", "VE": "VES", "EC": "USD", "BO": "BOB",
	"PY": "PYG", "UY": "UYU", "SR": "SRD", "GY": "GYD",
}
