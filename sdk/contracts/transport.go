package contracts

// TransportID names one of the router's fixed transports. Cardinality N is
// fixed at compile time for this implementation (spec.md §3: "Its
// cardinality N is fixed at configuration").
type TransportID uint8

const (
	Serial TransportID = iota
	USB
	Ethernet
	WiFi

	// TransportCount is N, the number of transports the routing matrix
	// addresses.
	TransportCount = 4
)

func (t TransportID) String() string {
	switch t {
	case Serial:
		return "serial"
	case USB:
		return "usb"
	case Ethernet:
		return "ethernet"
	case WiFi:
		return "wifi"
	default:
		return "unknown"
	}
}

// Format tags whether a packet's payload is a MIDI 1.0 message or a UMP
// (MIDI 2.0) packet.
type Format uint8

const (
	FormatMIDI1 Format = iota
	FormatMIDI2
)

func (f Format) String() string {
	if f == FormatMIDI2 {
		return "midi2"
	}
	return "midi1"
}

// Packet is the normalized router packet of spec.md §3: a tagged union of
// a MIDI 1.0 message or a UMP packet, addressed to a source/destination
// transport pair. MIDI1 and UMP are carried as opaque payloads (rather
// than importing the concrete midi1/ump types here) so that this contracts
// package — imported by every transport — never depends on the core
// codec packages; the router and translator packages type-assert the
// payload back to its concrete type.
type Packet struct {
	Source      TransportID
	Dest        TransportID
	Broadcast   bool
	Format      Format
	TimestampUs uint64
	MIDI1       any // *midi1.Message when Format == FormatMIDI1
	UMP         any // *ump.Packet when Format == FormatMIDI2
}

// Transmitter is a destination transport's send capability. It replaces a
// bare callback-plus-context pointer with a single-operation interface: a
// transport implementation can carry any context it needs (a socket, a
// serial port handle) as receiver state. Registered per TransportID via
// the router's RegisterTx operation.
type Transmitter interface {
	Send(packet Packet) error
}
