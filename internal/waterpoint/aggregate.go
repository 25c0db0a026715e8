package waterpoint

// Policy selects how Aggregate treats a malformed record.
type Policy int

const (
	// PolicyStrict aborts the whole pass on the first malformed record.
	PolicyStrict Policy = iota
	// PolicySkip drops malformed records and keeps aggregating.
	PolicySkip
)

func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicySkip:
		return "skip"
	default:
		return "unknown"
	}
}

type options struct {
	fields Fields
	policy Policy
}

// Option configures an aggregation pass.
type Option func(*options)

// WithFields overrides the attribute names read from each record.
// Empty members keep their defaults.
func WithFields(f Fields) Option {
	return func(o *options) {
		if f.Community != "" {
			o.fields.Community = f.Community
		}
		if f.Status != "" {
			o.fields.Status = f.Status
		}
		if f.FunctioningValue != "" {
			o.fields.FunctioningValue = f.FunctioningValue
		}
	}
}

// WithPolicy sets the malformed-record policy.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

// AggregateResult is the outcome of a pass with its bookkeeping counts.
type AggregateResult struct {
	Statistics []Statistic // first-seen order
	Records    int         // records counted into Statistics
	Skipped    int         // malformed records dropped under PolicySkip
}

// Aggregate groups records by community and returns one Statistic per
// community in first-seen order. Under the default strict policy a record
// missing either required field fails the whole pass with a
// *MalformedRecordError and no statistics.
func Aggregate(records []Record, opts ...Option) ([]Statistic, error) {
	res, err := AggregateDetailed(records, opts...)
	if err != nil {
		return nil, err
	}
	return res.Statistics, nil
}

// AggregateDetailed is Aggregate with record and skip counts.
func AggregateDetailed(records []Record, opts ...Option) (AggregateResult, error) {
	o := options{fields: DefaultFields(), policy: PolicyStrict}
	for _, opt := range opts {
		opt(&o)
	}

	index := make(map[string]int, len(records))
	stats := make([]Statistic, 0)
	res := AggregateResult{}

	for i, rec := range records {
		name, status, err := o.fields.read(i, rec)
		if err != nil {
			if o.policy == PolicySkip {
				res.Skipped++
				continue
			}
			return AggregateResult{}, err
		}

		pos, ok := index[name]
		if !ok {
			pos = len(stats)
			index[name] = pos
			stats = append(stats, Statistic{Name: name})
		}
		stats[pos].Total++
		if status != o.fields.FunctioningValue {
			stats[pos].Broken++
		}
		res.Records++
	}

	res.Statistics = stats
	return res, nil
}

// read extracts the community name and status from rec.
func (f Fields) read(i int, rec Record) (name, status string, err error) {
	name, ok := rec[f.Community]
	if !ok {
		return "", "", &MalformedRecordError{Index: i, Field: f.Community}
	}
	status, ok = rec[f.Status]
	if !ok {
		return "", "", &MalformedRecordError{Index: i, Field: f.Status}
	}
	return name, status, nil
}
