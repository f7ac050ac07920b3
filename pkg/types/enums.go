package types

// Epoch identifies which vegetation landscape an input or output refers to.
type Epoch int

// Vegetation epochs. Existing is the current landscape; Historic is the
// pre-settlement reference condition.
const (
	EpochExisting Epoch = 1
	EpochHistoric Epoch = 2
)

// String returns the conventional two/three letter epoch suffix used in
// column names and reports (EX for existing, HPE for historic).
func (e Epoch) String() string {
	switch e {
	case EpochExisting:
		return "EX"
	case EpochHistoric:
		return "HPE"
	default:
		return "unknown"
	}
}

// CapacityClass buckets a continuous dams/km estimate.
type CapacityClass int

// Capacity classes, ordered from none to pervasive. The numeric ranges
// backing each class live in the DamCapacities lookup table.
const (
	CapacityNone CapacityClass = iota + 1
	CapacityRare
	CapacityOccasional
	CapacityFrequent
	CapacityPervasive
)

// CapacityRange pairs a capacity class with its continuous dams/km bounds
// as stored in the DamCapacities lookup table.
type CapacityRange struct {
	Class CapacityClass `json:"class"`
	Name  string        `json:"name"`
	Min   float64       `json:"min"`
	Max   float64       `json:"max"`
}

// Risk classifies the conflict potential between dam building and nearby
// human infrastructure.
type Risk int

// Risk categories, ordered by increasing severity.
const (
	RiskNegligible Risk = iota + 1
	RiskMinor
	RiskConsiderable
	RiskMajor
)

// Limitation names the dominant factor preventing dam building on a reach.
type Limitation int

// Limitation categories. LimitationMajorRiver is forced whenever a reach's
// drainage area exceeds its watershed's MaxDrainage threshold, regardless
// of the computed capacity.
const (
	LimitationDamBuildingPossible Limitation = iota + 1
	LimitationVegetation
	LimitationStreamPower
	LimitationMajorRiver
	LimitationAnthropogenic
)

// Opportunity classifies restoration potential from the departure between
// historic and existing capacity.
type Opportunity int

// Opportunity categories, ordered from easiest restoration target to none.
const (
	OpportunityEasiest Opportunity = iota + 1
	OpportunityStraightforward
	OpportunityStrategic
	OpportunityNA
)

// ReachCode is the national hydrography feature code carried on each reach.
type ReachCode int

// Reach codes for the channel types the model operates on.
const (
	ReachPerennial    ReachCode = 46006
	ReachIntermittent ReachCode = 46003
	ReachEphemeral    ReachCode = 46007
	ReachCanal        ReachCode = 33600
)
