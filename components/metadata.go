package components

// FieldDescriptor describes a creature field for UI display.
type FieldDescriptor struct {
	ID     string  // Unique identifier
	Label  string  // Display name
	Format string  // Printf format (e.g., "%.2f")
	Min    float64 // Minimum value (for bars)
	Max    float64 // Maximum value (for bars)
	IsBar  bool    // True to render as progress bar
	Group  string  // Logical grouping
}

// PersonalityFieldDescriptors returns metadata for the five personality traits.
func PersonalityFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "openness", Label: "Openness", Format: "%.0f", Min: 0, Max: 100, IsBar: true, Group: "personality"},
		{ID: "conscientiousness", Label: "Conscient.", Format: "%.0f", Min: 0, Max: 100, IsBar: true, Group: "personality"},
		{ID: "extraversion", Label: "Extraversion", Format: "%.0f", Min: 0, Max: 100, IsBar: true, Group: "personality"},
		{ID: "agreeableness", Label: "Agreeable.", Format: "%.0f", Min: 0, Max: 100, IsBar: true, Group: "personality"},
		{ID: "neuroticism", Label: "Neuroticism", Format: "%.0f", Min: 0, Max: 100, IsBar: true, Group: "personality"},
	}
}

// DerivedFieldDescriptors returns metadata for the parameters derived from personality.
func DerivedFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "speed", Label: "Speed", Format: "%.0f", Min: 1, Max: 7, Group: "derived"},
		{ID: "attraction", Label: "Attraction", Format: "%+.2f", Min: -1, Max: 1, IsBar: true, Group: "derived"},
		{ID: "viewport", Label: "Viewport", Format: "%.2f", Min: 0, Max: 1.2, IsBar: true, Group: "derived"},
		{ID: "spread", Label: "Spread", Format: "%.0f", Min: 10, Max: 20, Group: "derived"},
		{ID: "coloring", Label: "Coloring", Format: "%.4f", Min: 0, Max: 0.1, IsBar: true, Group: "derived"},
		{ID: "ancestors", Label: "Ancestors", Format: "%.0f", Group: "lineage"},
	}
}
