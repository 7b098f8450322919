package models

// ParsedQuery is the structured form of one search string. Target fields
// hold MakeKey keys and the Simple fields hold Simplify keys of the same
// text; the Display fields keep the user's spelling for sources that need
// readable text.
type ParsedQuery struct {
	Original         string
	PostalCode       string
	TargetCity       string
	SimpleCity       string
	TargetState      string
	AltCity          string
	AltSimpleCity    string
	AltState         string
	DisplayCity      string
	DisplayState     string
	NormalizedSearch string
}

// HasAlt reports whether an alternate parse is present.
func (q *ParsedQuery) HasAlt() bool {
	return q.AltCity != ""
}

// ClearAlt drops the alternate parse.
func (q *ParsedQuery) ClearAlt() {
	q.AltCity = ""
	q.AltSimpleCity = ""
	q.AltState = ""
}
