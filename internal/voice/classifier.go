package voice

import "time"

// VoiceState is the normalized snapshot of one member's voice status,
// built at the gateway boundary. An empty ChannelID means the member is
// not connected to any voice channel.
type VoiceState struct {
	GuildID    string
	UserID     string
	UserTag    string
	ChannelID  string
	SelfMute   bool
	SelfDeaf   bool
	ServerMute bool
	ServerDeaf bool
}

type Kind string

const (
	KindJoined            Kind = "joined"
	KindLeft              Kind = "left"
	KindMoved             Kind = "moved"
	KindSelfMuteChanged   Kind = "self_mute_changed"
	KindSelfDeafChanged   Kind = "self_deaf_changed"
	KindServerMuteChanged Kind = "server_mute_changed"
	KindServerDeafChanged Kind = "server_deaf_changed"
)

// Event is one classified voice transition. ChannelID is set for
// joined/left, FromChannel/ToChannel for moved, Enabled for the four
// toggle kinds (the new value of the flag).
type Event struct {
	Kind        Kind
	GuildID     string
	UserID      string
	UserTag     string
	Timestamp   time.Time
	ChannelID   string
	FromChannel string
	ToChannel   string
	Enabled     bool
}

// Classify turns an old/new state pair into zero or more events.
// Changed attributes are evaluated independently and in a fixed order:
// channel membership, self-mute, self-deaf, server-mute, server-deaf.
// Identical states yield nothing, so duplicate gateway deliveries of an
// unchanged snapshot are harmless.
func Classify(old, new VoiceState, now time.Time) []Event {
	base := Event{
		GuildID:   pick(new.GuildID, old.GuildID),
		UserID:    pick(new.UserID, old.UserID),
		UserTag:   pick(new.UserTag, old.UserTag),
		Timestamp: now,
	}

	var events []Event

	switch {
	case old.ChannelID == new.ChannelID:
		// no membership change
	case old.ChannelID == "":
		event := base
		event.Kind = KindJoined
		event.ChannelID = new.ChannelID
		events = append(events, event)
	case new.ChannelID == "":
		event := base
		event.Kind = KindLeft
		event.ChannelID = old.ChannelID
		events = append(events, event)
	default:
		// A channel-to-channel move is a single event, never a
		// left/joined pair.
		event := base
		event.Kind = KindMoved
		event.FromChannel = old.ChannelID
		event.ToChannel = new.ChannelID
		events = append(events, event)
	}

	if old.SelfMute != new.SelfMute {
		event := base
		event.Kind = KindSelfMuteChanged
		event.Enabled = new.SelfMute
		events = append(events, event)
	}
	if old.SelfDeaf != new.SelfDeaf {
		event := base
		event.Kind = KindSelfDeafChanged
		event.Enabled = new.SelfDeaf
		events = append(events, event)
	}
	if old.ServerMute != new.ServerMute {
		event := base
		event.Kind = KindServerMuteChanged
		event.Enabled = new.ServerMute
		events = append(events, event)
	}
	if old.ServerDeaf != new.ServerDeaf {
		event := base
		event.Kind = KindServerDeafChanged
		event.Enabled = new.ServerDeaf
		events = append(events, event)
	}

	return events
}

func pick(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}
