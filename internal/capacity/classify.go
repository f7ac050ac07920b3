// This file buckets continuous capacity estimates and derives the
// categorical risk, limitation, and opportunity outputs.
package capacity

import (
	"github.com/riverscapes/brat/pkg/types"
)

// Infrastructure proximity bands (metres) for the risk classification.
const (
	riskBandImmediate = 30
	riskBandNear      = 100
	riskBandWithin    = 300
)

// ClassifyCapacity buckets a dams/km estimate against the seeded capacity
// ranges. Buckets are min-exclusive, max-inclusive, except the zero-width
// None bucket which matches exactly zero. Estimates above every bucket
// fall into the widest class.
func ClassifyCapacity(cc float64, ranges []types.CapacityRange) types.CapacityClass {
	if len(ranges) == 0 {
		return types.CapacityNone
	}
	last := ranges[0].Class
	for _, r := range ranges {
		if r.Min == r.Max {
			if cc == r.Min {
				return r.Class
			}
			continue
		}
		if cc > r.Min && cc <= r.Max {
			return r.Class
		}
		last = r.Class
	}
	return last
}

// ClassifyRisk derives the infrastructure conflict category: risk grows as
// infrastructure proximity decreases and capacity increases. A reach with
// no infrastructure within the search radius is negligible risk.
func ClassifyRisk(capacity float64, infraDist float64, hasInfra bool) types.Risk {
	if !hasInfra || infraDist > riskBandWithin || capacity <= 0 {
		return types.RiskNegligible
	}
	switch {
	case infraDist <= riskBandImmediate:
		if capacity > 5 {
			return types.RiskMajor
		}
		if capacity > 1 {
			return types.RiskConsiderable
		}
		return types.RiskMinor
	case infraDist <= riskBandNear:
		if capacity > 5 {
			return types.RiskConsiderable
		}
		return types.RiskMinor
	default:
		return types.RiskMinor
	}
}

// ClassifyLimitation names the dominant factor preventing dam building.
// A reach whose drainage area exceeds the watershed's MaxDrainage is
// forced to the major-river category regardless of the computed capacity.
func ClassifyLimitation(r types.Reach, maxDrainage float64, vegCapacityEX, capacityEX float64) types.Limitation {
	if maxDrainage > 0 && r.DrainageSqKm != nil && *r.DrainageSqKm > maxDrainage {
		return types.LimitationMajorRiver
	}
	if vegCapacityEX < 1 {
		return types.LimitationVegetation
	}
	if capacityEX <= 0 {
		return types.LimitationStreamPower
	}
	if r.HighLandUsePct >= 50 {
		return types.LimitationAnthropogenic
	}
	return types.LimitationDamBuildingPossible
}

// ClassifyOpportunity ranks restoration potential from the departure
// between historic and existing capacity: the larger the drop, the higher
// the opportunity, tempered by risk.
func ClassifyOpportunity(capacityEX, capacityHPE float64, risk types.Risk) types.Opportunity {
	departure := capacityHPE - capacityEX
	switch {
	case capacityHPE <= 0 || departure <= 0:
		return types.OpportunityNA
	case departure > 5 && risk <= types.RiskMinor:
		return types.OpportunityEasiest
	case departure > 1:
		return types.OpportunityStraightforward
	default:
		return types.OpportunityStrategic
	}
}
