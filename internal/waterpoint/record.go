package waterpoint

// Default field names used by the onaio water points dataset.
const (
	DefaultCommunityField   = "communities_villages"
	DefaultStatusField      = "water_functioning"
	DefaultFunctioningValue = "yes"
)

// Record is one water point as a bag of scalar attributes.
// A nil Record stands for an input element that was not an object.
type Record map[string]string

// Fields names the attributes the aggregator reads from each Record.
type Fields struct {
	Community        string // community name attribute
	Status           string // functioning-status attribute
	FunctioningValue string // status value meaning "functioning"
}

// DefaultFields returns the field contract of the onaio dataset.
func DefaultFields() Fields {
	return Fields{
		Community:        DefaultCommunityField,
		Status:           DefaultStatusField,
		FunctioningValue: DefaultFunctioningValue,
	}
}
