package normalize

import "github.com/antzucaro/matchr"

// SoundCodes returns the primary and secondary double-metaphone codes for a
// place name. Names containing digits have no phonetic form.
func SoundCodes(name string) (primary, secondary string, ok bool) {
	if HasDigit(name) {
		return "", "", false
	}
	key := MakeKey(name)
	if key == "" {
		return "", "", false
	}
	primary, secondary = matchr.DoubleMetaphone(key)
	if primary == "" {
		return "", "", false
	}
	return primary, secondary, true
}
