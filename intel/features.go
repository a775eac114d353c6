package intel

import "strings"

// Names of detection factors which can appear in FeatureBag.
const (
	FactorTorExitNode       = "tor_exit_node"
	FactorVPNPatternMatch   = "vpn_pattern_match"
	FactorSuspiciousASN     = "suspicious_asn"
	FactorKnownVPNASN       = "known_vpn_asn"
	FactorLegitimateService = "legitimate_service"
	FactorHostingProvider   = "hosting_provider"
)

// DefaultConfidence is a confidence of the feature bag if no rule has
// fired.
const DefaultConfidence = 0.5

// Metadata is a set of optional network attributes of the address,
// resolved elsewhere. Empty values mean 'unknown'.
type Metadata struct {
	ISP      string
	ASN      string
	Hostname string
}

// FeatureBag is a set of heuristic features extracted from the address
// and its metadata.
type FeatureBag struct {
	VPNDetected    bool     `json:"vpn_detected"`
	IsTor          bool     `json:"is_tor"`
	IsHosting      bool     `json:"is_hosting"`
	IsProxy        bool     `json:"is_proxy"`
	Confidence     float64  `json:"confidence"`
	MatchedFactors []string `json:"factors"`
	VPNServiceName string   `json:"vpn_service,omitempty"`
}

// HasFactor checks if a factor with the given name was matched.
func (f FeatureBag) HasFactor(name string) bool {
	for _, v := range f.MatchedFactors {
		if v == name {
			return true
		}
	}

	return false
}

func (f *FeatureBag) raiseConfidence(value float64) {
	if value > f.Confidence {
		f.Confidence = value
	}
}

type featureInput struct {
	address  string
	isp      string
	asn      string
	hostname string
}

type featureRule struct {
	name   string
	match  func(featureInput) bool
	effect func(*FeatureBag, featureInput)
}

// rules are applied in this exact order. A name of the matched rule is
// appended to factors after its effect. Confidence only grows with an
// exception of legitimate service rule which replaces previous
// verdicts.
var featureRules = []featureRule{
	{
		name: FactorTorExitNode,
		match: func(in featureInput) bool {
			_, ok := torExitNodes[in.address]

			return ok
		},
		effect: func(bag *FeatureBag, _ featureInput) {
			bag.IsTor = true
			bag.VPNDetected = true
			bag.raiseConfidence(0.95)
		},
	},
	{
		name: FactorVPNPatternMatch,
		match: func(in featureInput) bool {
			for _, pattern := range vpnPatterns {
				if pattern.MatchString(in.isp) || pattern.MatchString(in.hostname) {
					return true
				}
			}

			return false
		},
		effect: func(bag *FeatureBag, _ featureInput) {
			bag.VPNDetected = true
			bag.raiseConfidence(0.75)
		},
	},
	{
		name: FactorSuspiciousASN,
		match: func(in featureInput) bool {
			_, ok := suspiciousASNs[in.asn]

			return in.asn != "" && ok
		},
		effect: func(bag *FeatureBag, _ featureInput) {
			bag.VPNDetected = true
			bag.raiseConfidence(0.70)
		},
	},
	{
		name: FactorKnownVPNASN,
		match: func(in featureInput) bool {
			_, ok := knownVPNASNs[in.asn]

			return in.asn != "" && ok
		},
		effect: func(bag *FeatureBag, in featureInput) {
			bag.VPNDetected = true
			bag.VPNServiceName = knownVPNASNs[in.asn]
			bag.raiseConfidence(0.80)
		},
	},
	{
		name:  FactorLegitimateService,
		match: isLegitimateService,
		effect: func(bag *FeatureBag, _ featureInput) {
			bag.VPNDetected = false
			bag.MatchedFactors = bag.MatchedFactors[:0]
			bag.Confidence = 0.90
		},
	},
	{
		name: FactorHostingProvider,
		match: func(in featureInput) bool {
			for _, pattern := range hostingPatterns {
				if pattern.MatchString(in.isp) {
					return true
				}
			}

			return false
		},
		effect: func(bag *FeatureBag, _ featureInput) {
			bag.IsHosting = true
		},
	},
}

// ExtractFeatures evaluates static pattern tables against the address and
// its network metadata.
//
// Please pay attention to the legitimate service rule: if ISP belongs
// to well-known resolvers/CDNs or ASN is a known DNS operator, previous
// VPN verdicts are dropped and factors are replaced with
// legitimate_service. Hosting detection runs after that and is kept.
func ExtractFeatures(address string, meta Metadata) FeatureBag {
	input := featureInput{
		address:  canonicalIPv4(address),
		isp:      strings.ToLower(meta.ISP),
		asn:      strings.ToUpper(strings.TrimSpace(meta.ASN)),
		hostname: strings.ToLower(meta.Hostname),
	}
	bag := FeatureBag{
		Confidence:     DefaultConfidence,
		MatchedFactors: []string{},
	}

	for _, rule := range featureRules {
		if rule.match(input) {
			rule.effect(&bag, input)
			bag.MatchedFactors = append(bag.MatchedFactors, rule.name)
		}
	}

	return bag
}

func isLegitimateService(in featureInput) bool {
	if in.isp == "" || in.asn == "" {
		return false
	}

	for _, v := range legitimateProviders {
		if strings.Contains(in.isp, v) {
			return true
		}
	}

	_, ok := legitimateDNSASNs[in.asn]

	return ok
}
