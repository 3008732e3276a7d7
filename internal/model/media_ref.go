package model

// MediaRef points at an asset on the remote media host. A zero value means no
// asset is attached. Key is the stable storage identifier used for deletion,
// URL the public retrieval address.
type MediaRef struct {
	Key string `json:"key,omitempty"`
	URL string `json:"url,omitempty"`
}

// IsZero reports whether the reference points at nothing.
func (m MediaRef) IsZero() bool {
	return m.Key == "" && m.URL == ""
}
