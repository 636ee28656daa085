package hardware

import (
	"sort"
	"strings"
)

// Vendor keywords matched case-insensitively against device descriptors.
const (
	vendorNVIDIA = "NVIDIA"
	vendorAMD    = "AMD"
	vendorIntel  = "INTEL"
)

// Classify maps device descriptors to a single Class.
//
// An NVIDIA match anywhere in the list wins outright. Otherwise any AMD or Intel match
// selects DirectML. Anything else, including an empty list, is CPU.
func Classify(descriptors []string) Class {
	directML := false
	for _, d := range descriptors {
		upper := strings.ToUpper(d)
		if strings.Contains(upper, vendorNVIDIA) {
			return NVIDIA
		}
		if strings.Contains(upper, vendorIntel) || strings.Contains(upper, vendorAMD) {
			directML = true
		}
	}
	if directML {
		return DirectML
	}
	return CPU
}

// Vendors returns the sorted set of vendor labels seen in descriptors, with "CPU" standing in for
// adapters no keyword matched. It is informational only; installation decisions use Classify.
func Vendors(descriptors []string) []string {
	seen := map[string]bool{}
	for _, d := range descriptors {
		upper := strings.ToUpper(d)
		switch {
		case strings.Contains(upper, vendorNVIDIA):
			seen[vendorNVIDIA] = true
		case strings.Contains(upper, vendorAMD):
			seen[vendorAMD] = true
		case strings.Contains(upper, vendorIntel):
			seen[vendorIntel] = true
		default:
			seen["CPU"] = true
		}
	}
	vendors := make([]string, 0, len(seen))
	for v := range seen {
		vendors = append(vendors, v)
	}
	sort.Strings(vendors)
	return vendors
}
