package models

import "fmt"

// Origin identifies which source produced a Location. Declaration order is
// precedence order: when two records describe the same corpus entry, the
// one with the greater Origin is kept.
type Origin int

const (
	OriginAtlas Origin = iota
	OriginAtlasUpdate
	OriginPostal
	OriginOpenCage
	OriginNominatim
)

var originTags = map[Origin]string{
	OriginAtlas:       "ATLAS",
	OriginAtlasUpdate: "UPDT",
	OriginPostal:      "GEOZ",
	OriginOpenCage:    "OPCG",
	OriginNominatim:   "NOMN",
}

// External reports whether the record came from anywhere but the curated
// corpus.
func (o Origin) External() bool {
	return o != OriginAtlas
}

func (o Origin) String() string {
	if tag, ok := originTags[o]; ok {
		return tag
	}
	return fmt.Sprintf("Origin(%d)", int(o))
}

// MarshalText implements encoding.TextMarshaler.
func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Origin) UnmarshalText(b []byte) error {
	for origin, tag := range originTags {
		if tag == string(b) {
			*o = origin
			return nil
		}
	}
	return fmt.Errorf("models: unknown origin %q", string(b))
}
