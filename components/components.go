// Package components defines the plain data types shared by the simulation:
// vectors, the toroidal world, colors and the ECS components stored per creature.
package components

// Origin records how a creature entered the simulation.
type Origin uint8

const (
	OriginSeed      Origin = iota // Created at simulation start
	OriginInput                   // Pointer click on the display surface
	OriginNetwork                 // Create command from the relay
	OriginOffspring               // Result of a successful procreation
)

// String returns the display name for an Origin.
func (o Origin) String() string {
	names := OriginNames()
	if int(o) < len(names) {
		return names[o]
	}
	return "unknown"
}

// OriginNames returns the display names for all origins.
// The order matches the Origin constants.
func OriginNames() []string {
	return []string{"seed", "input", "network", "offspring"}
}

// Birth is the ECS component recording when and how a creature appeared.
type Birth struct {
	Tick   int32
	Origin Origin
}
