package reconcile

import (
	"strings"
	"sync"

	"voice-warden/internal/storage"
	"voice-warden/internal/voice"
)

type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

// Mutation is one role change intent for the gateway to execute. The
// gateway call is expected to tolerate redundant adds and removes.
type Mutation struct {
	Op     Op
	UserID string
	RoleID string
}

// Reconciler maps classified join/left/moved events onto role mutations
// for the guild's configured voice channel. It remembers the channel
// each member was last reconciled into, so a duplicate gateway delivery
// of the same transition never produces a second mutation intent.
type Reconciler struct {
	mu      sync.Mutex
	members map[string]string
}

func New() *Reconciler {
	return &Reconciler{members: make(map[string]string)}
}

// Reconcile returns the mutations the event calls for under the given
// config. Events other than joined/left/moved never mutate, and nothing
// mutates while the voice channel or role is unset.
func (r *Reconciler) Reconcile(event voice.Event, cfg storage.GuildConfig) []Mutation {
	target := cfg.VoiceChannelID
	if target == "" || cfg.RoleID == "" {
		return nil
	}

	switch event.Kind {
	case voice.KindJoined, voice.KindLeft, voice.KindMoved:
	default:
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := event.GuildID + ":" + event.UserID
	previous, known := r.members[key]

	var mutations []Mutation
	switch event.Kind {
	case voice.KindJoined:
		r.members[key] = event.ChannelID
		if event.ChannelID == target && !(known && previous == target) {
			mutations = append(mutations, Mutation{Op: OpAdd, UserID: event.UserID, RoleID: cfg.RoleID})
		}
	case voice.KindLeft:
		r.members[key] = ""
		if event.ChannelID == target && !(known && previous != target) {
			mutations = append(mutations, Mutation{Op: OpRemove, UserID: event.UserID, RoleID: cfg.RoleID})
		}
	case voice.KindMoved:
		r.members[key] = event.ToChannel
		if event.ToChannel == target && !(known && previous == target) {
			mutations = append(mutations, Mutation{Op: OpAdd, UserID: event.UserID, RoleID: cfg.RoleID})
		}
		if event.FromChannel == target && event.ToChannel != target && !(known && previous != target) {
			mutations = append(mutations, Mutation{Op: OpRemove, UserID: event.UserID, RoleID: cfg.RoleID})
		}
	}
	return mutations
}

// ResetGuild forgets the tracked membership of every member in the
// guild. Called when the guild's config is reset or retargeted.
func (r *Reconciler) ResetGuild(guildID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefix := guildID + ":"
	for key := range r.members {
		if strings.HasPrefix(key, prefix) {
			delete(r.members, key)
		}
	}
}
