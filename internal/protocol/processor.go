package protocol

import (
	"log"
	"time"

	"github.com/sweeney/relay-board/internal/logic"
)

// Reply messages for tags that carry no data.
const (
	MessageOK    = "OK"
	MessageAlive = "ALIVE"
)

// Processor dispatches opcodes against the board and replies through the emitter.
// Not safe for concurrent use; it belongs to the main loop.
type Processor struct {
	board     *logic.Board
	emit      *Emitter
	indicator Indicator
	counts    logic.Counts
}

// NewProcessor creates a processor. indicator may be nil.
func NewProcessor(board *logic.Board, emit *Emitter, indicator Indicator) *Processor {
	return &Processor{board: board, emit: emit, indicator: indicator}
}

// Process dispatches every opcode in buf, left to right, and returns the
// state mutations it applied. CR and LF are skipped.
func (p *Processor) Process(buf []byte, now time.Time) []logic.Event {
	var events []logic.Event
	for _, b := range buf {
		if e := p.Dispatch(b, now); e != nil {
			events = append(events, *e)
		}
	}
	return events
}

// Dispatch fully processes one opcode: state, outputs and reply.
// Returns the state mutation, or nil if the opcode did not change state.
func (p *Processor) Dispatch(b byte, now time.Time) *logic.Event {
	cmd := logic.Decode(b)

	switch cmd.Action {
	case logic.ActionNone:
		return nil

	case logic.ActionUnknown:
		p.counts.Unknown++
		log.Printf("cmd: unknown opcode %q ignored", b)
		return nil
	}

	p.counts.Dispatched++

	switch cmd.Action {
	case logic.ActionToggle:
		ok, err := p.board.Toggle(cmd.Channel)
		if err != nil {
			log.Printf("cmd: drive relay %s error: %v", logic.ChannelName(cmd.Channel), err)
		}
		if !ok {
			return nil
		}
		p.counts.Toggles++
		on := p.board.On(cmd.Channel)
		log.Printf("cmd: %q relay %s -> %s", b, logic.ChannelName(cmd.Channel), logic.StateOf(on))
		typ := logic.EventRelayOff
		if on {
			typ = logic.EventRelayOn
		}
		return p.event(now, typ, cmd)

	case logic.ActionAllOn, logic.ActionAllOff:
		on := cmd.Action == logic.ActionAllOn
		if err := p.board.SetAll(on); err != nil {
			log.Printf("cmd: drive relays error: %v", err)
		}
		log.Printf("cmd: %q all relays -> %s", b, logic.StateOf(on))
		tag, typ := TagAllOff, logic.EventAllOff
		if on {
			tag, typ = TagAllOn, logic.EventAllOn
		}
		p.reply(p.emit.SendResponse(tag, MessageOK))
		return p.event(now, typ, cmd)

	case logic.ActionStatus:
		log.Printf("cmd: %q status %s", b, FormatStatus(p.board.States()))
		p.reply(p.emit.SendStatus(p.board.States()))

	case logic.ActionPing:
		log.Printf("cmd: %q ping", b)
		p.reply(p.emit.SendResponse(TagPong, MessageOK))
	}

	return nil
}

// Beat emits a heartbeat and flips the activity indicator.
func (p *Processor) Beat() {
	p.counts.Heartbeats++
	p.reply(p.emit.SendResponse(TagHeartbeat, MessageAlive))
	if p.indicator != nil {
		if err := p.indicator.Toggle(); err != nil {
			log.Printf("heartbeat: indicator error: %v", err)
		}
	}
}

// Counts returns command activity since startup.
func (p *Processor) Counts() logic.Counts {
	return p.counts
}

// Emitter returns the emitter replies are sent through.
func (p *Processor) Emitter() *Emitter {
	return p.emit
}

func (p *Processor) event(now time.Time, typ logic.EventType, cmd logic.Command) *logic.Event {
	return &logic.Event{
		Timestamp: now,
		Type:      typ,
		Channel:   cmd.Channel,
		Opcode:    cmd.Opcode,
		States:    p.board.Snapshot(),
	}
}

func (p *Processor) reply(err error) {
	if err != nil {
		log.Printf("emit: %v", err)
	}
}
