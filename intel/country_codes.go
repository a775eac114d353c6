package intel

import (
	"strings"

	"github.com/pariz/gountries"
)

var (
	countryQuery = gountries.New()

	// index 0 is reserved for unknown country
	countryCodeToAlpha2 = []string{""}
	alpha2ToCountryCode = map[string]CountryCode{"": 0}
)

// CountryCode is a compact representation of ISO3166 country. Zero
// value means that country is unknown.
type CountryCode uint16

// String returns 2-letter ISO3166 code, like US or GB.
func (c CountryCode) String() string {
	if int(c) >= len(countryCodeToAlpha2) {
		return ""
	}

	return countryCodeToAlpha2[c]
}

// MarshalText conforms encoding.TextMarshaler so country codes are
// rendered as strings in JSON.
func (c CountryCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Known is false for zero value.
func (c CountryCode) Known() bool {
	return c > 0 && int(c) < len(countryCodeToAlpha2)
}

// Details returns a description of the country from gountries.
func (c CountryCode) Details() gountries.Country {
	return countryQuery.Countries[c.String()]
}

// Alpha3 returns 3-letter ISO3166 code.
func (c CountryCode) Alpha3() string {
	return c.Details().Alpha3
}

// Name returns a common name of the country.
func (c CountryCode) Name() string {
	return c.Details().Name.Common
}

// Continent is a shortcut for ContinentOf.
func (c CountryCode) Continent() string {
	return ContinentOf(c.String())
}

// Currency is a shortcut for CurrencyOf.
func (c CountryCode) Currency() string {
	return CurrencyOf(c.String())
}

// GDPR is a shortcut for GDPRInfo.
func (c CountryCode) GDPR() GDPR {
	return GDPRInfo(c.String())
}

// NormalizeAlpha2Code uppercases 2-letter ISO3166 code and maps
// placeholders of geolocation providers: XX, ZZ, AP and EU are unknown,
// UK is GB, FX is FR.
func NormalizeAlpha2Code(alpha2 string) string {
	alpha2 = strings.ToUpper(strings.TrimSpace(alpha2))

	if len(alpha2) != 2 {
		return ""
	}

	switch alpha2 {
	case "XX", "ZZ", "AP", "EU":
		return ""
	case "UK":
		return "GB"
	case "FX":
		return "FR"
	}

	return alpha2
}

// Alpha2ToCountryCode maps 2-letter code to CountryCode. Unknown codes
// are mapped to zero value.
func Alpha2ToCountryCode(alpha2 string) CountryCode {
	return alpha2ToCountryCode[NormalizeAlpha2Code(alpha2)]
}

// Alpha3ToCountryCode maps 3-letter code to CountryCode.
func Alpha3ToCountryCode(alpha3 string) CountryCode {
	if len(alpha3) != 3 {
		return 0
	}

	country, err := countryQuery.FindCountryByAlpha(strings.ToUpper(alpha3))
	if err != nil {
		return 0
	}

	return Alpha2ToCountryCode(country.Alpha2)
}

func init() {
	for k := range countryQuery.Countries {
		k = NormalizeAlpha2Code(k)

		if _, ok := alpha2ToCountryCode[k]; k == "" || ok {
			continue
		}

		countryCodeToAlpha2 = append(countryCodeToAlpha2, k)
		alpha2ToCountryCode[k] = CountryCode(len(countryCodeToAlpha2) - 1)
	}
}

// UnmarshalText conforms encoding.TextUnmarshaler. Unknown codes are
// decoded into zero value.
func (c *CountryCode) UnmarshalText(text []byte) error {
	*c = Alpha2ToCountryCode(string(text))

	return nil
}
