package router

import (
	"sync"
	"sync/atomic"

	"github.com/leandrodaf/midi-router/internal/midi1"
	"github.com/leandrodaf/midi-router/internal/translate"
	"github.com/leandrodaf/midi-router/internal/ump"
	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// Router implements spec.md §4.4: a bounded ingress queue, one dispatcher
// goroutine, an atomically swapped configuration snapshot, and a
// registered Transmitter per destination. Generalizes the teacher's
// atomic.Value-guarded single producer/consumer channel swap to a whole
// configuration snapshot.
type Router struct {
	cfg    atomic.Pointer[Config]
	tr     atomic.Pointer[translate.Translator]
	queue  *Queue
	tx     [TransportCount]atomic.Pointer[contracts.Transmitter]
	stats  Stats
	logger contracts.Logger

	mu       sync.Mutex // guards configuration mutation (set_route/set_filter/...)
	stopCh   chan struct{}
	wg       sync.WaitGroup
	started  bool
}

// New constructs a Router with the given configuration (or the compiled-in
// default when cfg is nil) but does not start the dispatcher; call Init.
func New(logger contracts.Logger, cfg *Config) *Router {
	c := contracts.DefaultRouterConfig()
	if cfg != nil {
		c = *cfg
	}
	r := &Router{logger: logger, queue: NewQueue(c.DrainBudget)}
	r.cfg.Store(&c)
	r.tr.Store(translate.New(c.Translate))
	return r
}

// Init spawns the dispatcher goroutine. Calling Init twice is a no-op
// beyond logging a warning (idempotent per spec.md §4.4's init/deinit
// pairing).
func (r *Router) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		r.logger.Warn("router already initialized")
		return nil
	}
	r.stopCh = make(chan struct{})
	r.started = true
	r.wg.Add(1)
	go r.dispatchLoop()
	r.logger.Info("router initialized")
	return nil
}

// Deinit quiesces the dispatcher: it stops pulling new packets once
// signaled, drains up to DrainBudget in-flight packets, then returns.
func (r *Router) Deinit() error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return nil
	}
	r.started = false
	close(r.stopCh)
	r.mu.Unlock()

	r.wg.Wait()
	r.logger.Info("router deinitialized")
	return nil
}

// Send is the non-blocking enqueue of spec.md §4.4.
func (r *Router) Send(p contracts.Packet) error {
	return r.queue.Push(p)
}

// RegisterTx installs the sink for a destination transport.
func (r *Router) RegisterTx(id contracts.TransportID, tx contracts.Transmitter) {
	r.tx[id].Store(&tx)
}

func (r *Router) dispatchLoop() {
	defer r.wg.Done()
	budget := r.cfg.Load().DrainBudget

	for {
		for {
			p, ok := r.queue.Pop()
			if !ok {
				break
			}
			r.dispatch(p)
		}

		select {
		case <-r.stopCh:
			r.drain(budget)
			return
		case <-r.queue.NotifyChan():
		}
	}
}

func (r *Router) drain(budget int) {
	for i := 0; i < budget; i++ {
		p, ok := r.queue.Pop()
		if !ok {
			return
		}
		r.dispatch(p)
	}
}

// dispatch implements the algorithm of spec.md §4.4 steps 1-3 for one
// dequeued packet.
func (r *Router) dispatch(p contracts.Packet) {
	cfg := r.cfg.Load()
	src := p.Source

	if !filterAllows(cfg.Filters[src], p) {
		atomic.AddUint64(&r.stats.PacketsFiltered[src], 1)
		return
	}

	for d := contracts.TransportID(0); int(d) < TransportCount; d++ {
		if d == src {
			continue
		}
		if !cfg.MergeInputs && !cfg.Matrix[src][d] {
			continue
		}

		if cfg.AutoTranslate {
			translated, ok := r.translateFor(p, d)
			if !ok {
				atomic.AddUint64(&r.stats.RoutingErrors, 1)
				continue
			}
			for _, out := range translated {
				out.Dest = d
				if !r.sendTo(src, d, out) {
					break // preserve fragment order: stop on first failed send
				}
			}
			continue
		}

		if d != contracts.USB && preferredFormat(d) != p.Format {
			atomic.AddUint64(&r.stats.RoutingErrors, 1)
			continue
		}
		out := p
		out.Dest = d
		r.sendTo(src, d, out)
	}
}

// sendTo delivers out to destination d's registered Transmitter, bumping
// the matching stats counter. Reports whether the send succeeded so
// multi-packet translations (SysEx fragment sequences) can stop on the
// first failure instead of delivering a truncated, reordered remainder.
func (r *Router) sendTo(src, d contracts.TransportID, out contracts.Packet) bool {
	txPtr := r.tx[d].Load()
	if txPtr == nil {
		atomic.AddUint64(&r.stats.PacketsDropped[d], 1)
		return false
	}
	if err := (*txPtr).Send(out); err != nil {
		atomic.AddUint64(&r.stats.PacketsDropped[d], 1)
		return false
	}
	atomic.AddUint64(&r.stats.PacketsRouted[src][d], 1)
	return true
}

// preferredFormat implements spec.md §4.4's destination format table: the
// network transports are MIDI-2-only, serial is MIDI-1-only, USB accepts
// either (no conversion needed).
func preferredFormat(d contracts.TransportID) contracts.Format {
	switch d {
	case contracts.Ethernet, contracts.WiFi:
		return contracts.FormatMIDI2
	case contracts.Serial:
		return contracts.FormatMIDI1
	default:
		return contracts.FormatMIDI1 // USB: no preference, treated as already compatible
	}
}

// translateFor returns p unchanged (as the sole element) when d already
// accepts p's format (USB, or a format match), or the translated packet
// sequence when a mapping exists — possibly more than one packet, since a
// MIDI 1.0 SysEx message translates into N Data64/SysEx7 UMP fragments
// that must all reach d, in order, rather than just the first. ok is
// false when auto-translate is on but no mapping exists (NotSupported).
func (r *Router) translateFor(p contracts.Packet, d contracts.TransportID) ([]contracts.Packet, bool) {
	if d == contracts.USB || preferredFormat(d) == p.Format {
		return []contracts.Packet{p}, true
	}

	tr := r.tr.Load()
	switch p.Format {
	case contracts.FormatMIDI1:
		msg, ok := p.MIDI1.(*midi1.Message)
		if !ok {
			return nil, false
		}
		packets, err := tr.Translate1To2(*msg)
		if err != nil || len(packets) == 0 {
			return nil, false
		}
		out := make([]contracts.Packet, len(packets))
		for i := range packets {
			next := p
			next.Format = contracts.FormatMIDI2
			next.UMP = &packets[i]
			next.MIDI1 = nil
			out[i] = next
		}
		return out, true

	case contracts.FormatMIDI2:
		packet, ok := p.UMP.(*ump.Packet)
		if !ok {
			return nil, false
		}
		msg, err := tr.Translate2To1(*packet)
		if err != nil {
			return nil, false
		}
		out := p
		out.Format = contracts.FormatMIDI1
		out.MIDI1 = &msg
		out.UMP = nil
		return []contracts.Packet{out}, true

	default:
		return nil, false
	}
}

// filterAllows implements spec.md §4.4's filter semantics: disabled
// filters pass everything; otherwise channel-bearing messages must have
// their channel bit set in the mask, and active-sensing/clock blocking
// applies to their respective status bytes.
func filterAllows(f contracts.Filter, p contracts.Packet) bool {
	if !f.Enabled {
		return true
	}

	if p.Format == contracts.FormatMIDI1 {
		msg, ok := p.MIDI1.(*midi1.Message)
		if !ok {
			return true
		}
		if f.BlockActiveSensing && msg.Status == midi1.StatusActiveSensing {
			return false
		}
		if f.BlockClock && msg.Status == midi1.StatusTimingClock {
			return false
		}
		if msg.Kind == midi1.KindChannelVoice {
			return f.ChannelMask&(1<<msg.Channel) != 0
		}
		return true
	}

	packet, ok := p.UMP.(*ump.Packet)
	if !ok {
		return true
	}
	if packet.MessageType == ump.MTSystem {
		status := byte((packet.Words[0] >> 16) & 0xFF)
		if f.BlockActiveSensing && status == midi1.StatusActiveSensing {
			return false
		}
		if f.BlockClock && status == midi1.StatusTimingClock {
			return false
		}
	}
	if packet.MessageType == ump.MT2ChannelVoice {
		channel := uint8((packet.Words[0] >> 16) & 0x0F)
		return f.ChannelMask&(1<<channel) != 0
	}
	return true
}
