package aggregate

import "strings"

// Connector is the aggregation operator tag attached to an internal node.
type Connector string

const (
	Average Connector = "A"

	SoftConjunctionLow    Connector = "SC-"
	SoftConjunctionMedium Connector = "SC"
	SoftConjunctionHigh   Connector = "SC+"

	HardConjunctionLow     Connector = "HC-"
	HardConjunctionMedium  Connector = "HC"
	HardConjunctionHigh    Connector = "HC+"
	HardConjunctionHighest Connector = "HC++"

	SoftDisjunctionLow    Connector = "SD-"
	SoftDisjunctionMedium Connector = "SD"
	SoftDisjunctionHigh   Connector = "SD+"

	HardDisjunctionLow     Connector = "HD-"
	HardDisjunctionMedium  Connector = "HD"
	HardDisjunctionHigh    Connector = "HD+"
	HardDisjunctionHighest Connector = "HD++"
)

// Family groups connectors by the logic they model.
type Family int

const (
	FamilyAverage Family = iota
	FamilySoftConjunction
	FamilyHardConjunction
	FamilySoftDisjunction
	FamilyHardDisjunction
)

// Variant is the strictness of a connector inside its family.
type Variant int

const (
	VariantLow Variant = iota
	VariantMedium
	VariantHigh
	VariantHighest
)

type connectorInfo struct {
	family  Family
	variant Variant
	label   string
}

var connectors = map[Connector]connectorInfo{
	Average: {FamilyAverage, VariantMedium, "Arithmetic Mean"},

	SoftConjunctionLow:    {FamilySoftConjunction, VariantLow, "Low"},
	SoftConjunctionMedium: {FamilySoftConjunction, VariantMedium, "Medium"},
	SoftConjunctionHigh:   {FamilySoftConjunction, VariantHigh, "High"},

	HardConjunctionLow:     {FamilyHardConjunction, VariantLow, "Low"},
	HardConjunctionMedium:  {FamilyHardConjunction, VariantMedium, "Medium"},
	HardConjunctionHigh:    {FamilyHardConjunction, VariantHigh, "High"},
	HardConjunctionHighest: {FamilyHardConjunction, VariantHighest, "Highest"},

	SoftDisjunctionLow:    {FamilySoftDisjunction, VariantLow, "Low"},
	SoftDisjunctionMedium: {FamilySoftDisjunction, VariantMedium, "Medium"},
	SoftDisjunctionHigh:   {FamilySoftDisjunction, VariantHigh, "High"},

	HardDisjunctionLow:     {FamilyHardDisjunction, VariantLow, "Low"},
	HardDisjunctionMedium:  {FamilyHardDisjunction, VariantMedium, "Medium"},
	HardDisjunctionHigh:    {FamilyHardDisjunction, VariantHigh, "High"},
	HardDisjunctionHighest: {FamilyHardDisjunction, VariantHighest, "Highest"},
}

// ParseConnector resolves a connector tag. Unknown or empty tags resolve to
// Average with ok set to false.
func ParseConnector(tag string) (Connector, bool) {
	c := Connector(strings.ToUpper(strings.TrimSpace(tag)))
	if _, ok := connectors[c]; !ok {
		return Average, false
	}
	return c, true
}

// Valid reports whether c is a known tag.
func (c Connector) Valid() bool {
	_, ok := connectors[c]
	return ok
}

// Family returns the logic family; unknown tags report FamilyAverage.
func (c Connector) Family() Family {
	return connectors[c].family
}

// Variant returns the strictness of c within its family.
func (c Connector) Variant() Variant {
	info, ok := connectors[c]
	if !ok {
		return VariantMedium
	}
	return info.variant
}

// Intensity is the human-readable strength of the connector.
func (c Connector) Intensity() string {
	info, ok := connectors[c]
	if !ok {
		return string(c)
	}
	return info.label
}

func (c Connector) String() string {
	return string(c)
}

// Requirement is the logic requirement a user picks for a group of components.
type Requirement string

const (
	// RequirementMandatory: every component must be satisfied.
	RequirementMandatory Requirement = "mandatory"
	// RequirementDesirable: simultaneous satisfaction is wanted but some gaps are tolerated.
	RequirementDesirable Requirement = "desirable"
	// RequirementNeutral: good satisfaction of most components is nice to have.
	RequirementNeutral Requirement = "neutral"
	// RequirementSubstitutable: components can replace each other.
	RequirementSubstitutable Requirement = "substitutable"
	// RequirementSufficient: any single satisfied component is enough.
	RequirementSufficient Requirement = "sufficient"
)

// Intensity levels offered for a requirement.
const (
	IntensityLow     = "low"
	IntensityMedium  = "medium"
	IntensityHigh    = "high"
	IntensityHighest = "highest"
)

var requirementConnectors = map[Requirement]map[string]Connector{
	RequirementMandatory: {
		IntensityLow:     HardConjunctionLow,
		IntensityMedium:  HardConjunctionMedium,
		IntensityHigh:    HardConjunctionHigh,
		IntensityHighest: HardConjunctionHighest,
	},
	RequirementDesirable: {
		IntensityLow:    SoftConjunctionLow,
		IntensityMedium: SoftConjunctionMedium,
		IntensityHigh:   SoftConjunctionHigh,
	},
	RequirementSubstitutable: {
		IntensityLow:    SoftDisjunctionLow,
		IntensityMedium: SoftDisjunctionMedium,
		IntensityHigh:   SoftDisjunctionHigh,
	},
	RequirementSufficient: {
		IntensityLow:     HardDisjunctionLow,
		IntensityMedium:  HardDisjunctionMedium,
		IntensityHigh:    HardDisjunctionHigh,
		IntensityHighest: HardDisjunctionHighest,
	},
}

// ConnectorFor translates a logic requirement and an intensity into a connector.
// The neutral requirement always yields Average. Soft requirements top out at
// their high variant, so "highest" is accepted and maps there.
func ConnectorFor(req Requirement, intensity string) (Connector, bool) {
	req = Requirement(strings.ToLower(strings.TrimSpace(string(req))))
	intensity = strings.ToLower(strings.TrimSpace(intensity))

	if req == RequirementNeutral {
		return Average, true
	}

	levels, ok := requirementConnectors[req]
	if !ok {
		return Average, false
	}
	if c, ok := levels[intensity]; ok {
		return c, true
	}
	if intensity == IntensityHighest {
		return levels[IntensityHigh], true
	}
	return Average, false
}
