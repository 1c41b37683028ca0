package contracts

// DeviceInfo describes a discovered endpoint on a transport: a USB host
// port's attached MIDI interface, or a Network-MIDI 2.0 peer found via
// UDP discovery.
type DeviceInfo struct {
	Name         string // Device or endpoint name.
	Manufacturer string // Device manufacturer, empty if not applicable.
	EntityName   string // Name of the entity the device belongs to (USB host backends).
	Address      string // Network address, set only for Network-MIDI peers.
}
