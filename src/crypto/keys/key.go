package keys

// Key is a signing requirement.
type Key interface {
	// PublicKeys lists every key mentioned in the requirement, depth first.
	PublicKeys() []PublicKey

	satisfied(signed map[string]bool) bool
}

// IsSatisfied evaluates k against the set of public keys that have signed,
// indexed by PublicKey.Hex. It is recomputed on every call.
func IsSatisfied(k Key, signed map[string]bool) bool {
	if k == nil {
		return false
	}
	return k.satisfied(signed)
}

// KeyList requires Threshold of its Keys to be satisfied. A Threshold of zero
// means all of them.
type KeyList struct {
	Keys      []Key
	Threshold int
}

// NewKeyList requires every key.
func NewKeyList(keys ...Key) *KeyList {
	return &KeyList{Keys: keys}
}

// NewThresholdKey requires threshold of the keys.
func NewThresholdKey(threshold int, keys ...Key) *KeyList {
	return &KeyList{Keys: keys, Threshold: threshold}
}

// Required returns the number of members that must be satisfied.
func (l *KeyList) Required() int {
	if l.Threshold <= 0 {
		return len(l.Keys)
	}
	return l.Threshold
}

// PublicKeys implements Key.
func (l *KeyList) PublicKeys() []PublicKey {
	var out []PublicKey
	for _, k := range l.Keys {
		out = append(out, k.PublicKeys()...)
	}
	return out
}

func (l *KeyList) satisfied(signed map[string]bool) bool {
	need := l.Required()
	if need > len(l.Keys) {
		return false
	}
	got := 0
	for _, k := range l.Keys {
		if k.satisfied(signed) {
			got++
			if got >= need {
				return true
			}
		}
	}
	return got >= need
}
