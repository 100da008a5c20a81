package listing

import "regexp"

// AttributeLabelMap maps a category attribute id to its human-readable label
type AttributeLabelMap map[string]string

// fallbackLabel is used for attributes whose id has no label
const fallbackLabel = "Attribute"

// sentinelValue is an internal code stored as an attribute value that must
// never reach a document
const sentinelValue = "pumper-engine"

// uuidPrefixPattern matches values that start like a UUID. Such values are
// references to other records rather than readable text.
var uuidPrefixPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-`)

// Label returns the label for id, falling back to a generic placeholder
func (m AttributeLabelMap) Label(id string) string {
	if label, ok := m[id]; ok {
		return label
	}
	return fallbackLabel
}

// IsDisplayable reports whether the attribute value may be shown
func (a Attribute) IsDisplayable() bool {
	if a.Value == "" {
		return false
	}
	if uuidPrefixPattern.MatchString(a.Value) {
		return false
	}
	return a.Value != sentinelValue
}

// DisplayValue returns the value as shown on documents. Boolean strings are
// rendered as Yes/No.
func (a Attribute) DisplayValue() string {
	switch a.Value {
	case "true":
		return "Yes"
	case "false":
		return "No"
	default:
		return a.Value
	}
}

// LabeledAttribute is a displayable attribute resolved against a label map
type LabeledAttribute struct {
	Label string
	Value string
}

// LabeledAttributes returns the displayable attributes of l in their
// original order, each paired with its label.
func (l *Listing) LabeledAttributes(labels AttributeLabelMap) []LabeledAttribute {
	result := make([]LabeledAttribute, 0, len(l.Attributes))
	for _, a := range l.Attributes {
		if !a.IsDisplayable() {
			continue
		}
		result = append(result, LabeledAttribute{
			Label: labels.Label(a.CategoryAttributeID),
			Value: a.DisplayValue(),
		})
	}
	return result
}
