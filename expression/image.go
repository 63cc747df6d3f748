package expression

// ResolvedImage names an image and records whether the renderer has it.
type ResolvedImage struct {
	Name      string
	Available bool
}

// ResolvedImageFromString returns an unavailable image named name. An empty
// name yields no image.
func ResolvedImageFromString(name string) (*ResolvedImage, bool) {
	if name == "" {
		return nil, false
	}

	return &ResolvedImage{Name: name}, true
}

func (r *ResolvedImage) String() string { return r.Name }
