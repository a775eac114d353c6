package intel

import (
	"math"
	"strings"
)

// Connection types.
const (
	ConnectionMobile      = "mobile"
	ConnectionDatacenter  = "datacenter"
	ConnectionBroadband   = "broadband"
	ConnectionVPN         = "vpn"
	ConnectionResidential = "residential"
)

const kmToMiles = 0.621371

var (
	mobileIndicators    = []string{"mobile", "cellular", "4g", "5g", "lte", "wireless"}
	datacenterIndicator = []string{"hosting", "datacenter", "cloud"}
	broadbandIndicators = []string{"broadband", "fiber", "cable"}
)

// Connection describes a type of the network an address belongs to.
type Connection struct {
	Type          string `json:"connection_type"`
	Category      string `json:"connection_category"`
	IsMobile      bool   `json:"is_mobile"`
	IsDatacenter  bool   `json:"is_datacenter"`
	IsResidential bool   `json:"is_residential"`
	IsBusiness    bool   `json:"is_business"`
}

// AccuracyInfo is an estimation of geolocation precision.
type AccuracyInfo struct {
	RadiusKm        int    `json:"accuracy_radius_km"`
	RadiusMiles     int    `json:"accuracy_radius_miles"`
	ConfidenceScore int    `json:"confidence_score"`
	DataQuality     string `json:"data_quality"`
	Precision       string `json:"geolocation_accuracy"`
}

// ClassifyConnection guesses connection type by ISP name. Indicators are
// checked in order: mobile, datacenter, broadband and VPN. knownVPN is a
// verdict of the threat table, not of heuristics.
func ClassifyConnection(isp string, knownVPN bool) Connection {
	isp = strings.ToLower(isp)
	rv := Connection{
		Type:     ConnectionResidential,
		Category: "residential",
	}

	switch {
	case containsAny(isp, mobileIndicators):
		rv.Type = ConnectionMobile
		rv.Category = "mobile"
	case containsAny(isp, datacenterIndicator):
		rv.Type = ConnectionDatacenter
		rv.Category = "business"
	case containsAny(isp, broadbandIndicators):
		rv.Type = ConnectionBroadband
	case knownVPN || strings.Contains(isp, "vpn"):
		rv.Type = ConnectionVPN
		rv.Category = "anonymizer"
	}

	rv.IsMobile = rv.Type == ConnectionMobile
	rv.IsDatacenter = rv.Type == ConnectionDatacenter
	rv.IsResidential = rv.Type == ConnectionResidential
	rv.IsBusiness = rv.Category == "business"

	return rv
}

// Accuracy converts provider confidence in [0, 1] into accuracy radius.
// Zero confidence is treated as 0.7.
func Accuracy(confidence float64) AccuracyInfo {
	if confidence <= 0 {
		confidence = 0.7
	}

	rv := AccuracyInfo{
		RadiusKm:        100,
		ConfidenceScore: int(math.Round(confidence * 100)),
		DataQuality:     "low",
		Precision:       "approximate",
	}

	switch {
	case confidence > 0.9:
		rv.RadiusKm = 10
		rv.Precision = "precise"
	case confidence > 0.8:
		rv.RadiusKm = 25
	case confidence > 0.7:
		rv.RadiusKm = 50
	}

	switch {
	case confidence > 0.85:
		rv.DataQuality = "high"
	case confidence > 0.7:
		rv.DataQuality = "medium"
	}

	rv.RadiusMiles = int(math.Round(float64(rv.RadiusKm) * kmToMiles))

	return rv
}

func containsAny(value string, indicators []string) bool {
	for _, v := range indicators {
		if strings.Contains(value, v) {
			return true
		}
	}

	return false
}
