// Package intel contains the decision rules of ipintel: how to classify an
// IP address, which heuristic features can be extracted from it and its
// network metadata, and how these features are folded into a risk
// verdict.
//
// Everything here is pure. Static tables are initialized once and never
// mutated afterwards, so all functions are safe for concurrent use
// without any locking. Network I/O, caching and retries belong to the
// lookup package which calls into intel with already resolved metadata.
//
// A typical flow looks like this:
//
//	classification, err := intel.Classify(address)
//	if err != nil || !classification.GeolocationEligible {
//	    return
//	}
//
//	features := intel.ExtractFeatures(address, intel.Metadata{
//	    ISP: "NordVPN Services",
//	    ASN: "AS9009",
//	})
//	verdict := intel.Score(features)
package intel
