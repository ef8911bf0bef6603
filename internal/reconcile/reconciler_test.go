package reconcile

import (
	"testing"
	"time"

	"voice-warden/internal/storage"
	"voice-warden/internal/voice"
)

func event(kind voice.Kind, channelID, from, to string) voice.Event {
	return voice.Event{
		Kind:        kind,
		GuildID:     "g1",
		UserID:      "u1",
		Timestamp:   time.Now(),
		ChannelID:   channelID,
		FromChannel: from,
		ToChannel:   to,
	}
}

func TestReconcileNoRoleConfigured(t *testing.T) {
	r := New()
	cfg := storage.GuildConfig{VoiceChannelID: "V1"}

	events := []voice.Event{
		event(voice.KindJoined, "V1", "", ""),
		event(voice.KindLeft, "V1", "", ""),
		event(voice.KindMoved, "", "V1", "V2"),
	}
	for _, ev := range events {
		if got := r.Reconcile(ev, cfg); len(got) != 0 {
			t.Fatalf("expected no mutations without a role, got %+v", got)
		}
	}
}

func TestReconcileNoChannelConfigured(t *testing.T) {
	r := New()
	cfg := storage.GuildConfig{RoleID: "R1"}
	if got := r.Reconcile(event(voice.KindJoined, "V1", "", ""), cfg); len(got) != 0 {
		t.Fatalf("expected no mutations without a voice channel, got %+v", got)
	}
}

func TestReconcileJoinAndLeave(t *testing.T) {
	r := New()
	cfg := storage.GuildConfig{VoiceChannelID: "V1", RoleID: "R1"}

	got := r.Reconcile(event(voice.KindJoined, "V1", "", ""), cfg)
	if len(got) != 1 || got[0].Op != OpAdd || got[0].RoleID != "R1" || got[0].UserID != "u1" {
		t.Fatalf("expected a single add, got %+v", got)
	}

	got = r.Reconcile(event(voice.KindLeft, "V1", "", ""), cfg)
	if len(got) != 1 || got[0].Op != OpRemove {
		t.Fatalf("expected a single remove, got %+v", got)
	}
}

func TestReconcileOtherChannelIgnored(t *testing.T) {
	r := New()
	cfg := storage.GuildConfig{VoiceChannelID: "V1", RoleID: "R1"}

	if got := r.Reconcile(event(voice.KindJoined, "V2", "", ""), cfg); len(got) != 0 {
		t.Fatalf("join to another channel should not mutate, got %+v", got)
	}
	if got := r.Reconcile(event(voice.KindLeft, "V2", "", ""), cfg); len(got) != 0 {
		t.Fatalf("leave of another channel should not mutate, got %+v", got)
	}
}

func TestReconcileToggleEventsNeverMutate(t *testing.T) {
	r := New()
	cfg := storage.GuildConfig{VoiceChannelID: "V1", RoleID: "R1"}

	kinds := []voice.Kind{
		voice.KindSelfMuteChanged,
		voice.KindSelfDeafChanged,
		voice.KindServerMuteChanged,
		voice.KindServerDeafChanged,
	}
	for _, kind := range kinds {
		ev := event(kind, "", "", "")
		ev.Enabled = true
		if got := r.Reconcile(ev, cfg); len(got) != 0 {
			t.Fatalf("%s: toggle events must not mutate, got %+v", kind, got)
		}
	}
}

func TestReconcileMovedIntoTarget(t *testing.T) {
	r := New()
	cfg := storage.GuildConfig{VoiceChannelID: "V1", RoleID: "R1"}

	got := r.Reconcile(event(voice.KindMoved, "", "V2", "V1"), cfg)
	if len(got) != 1 || got[0].Op != OpAdd {
		t.Fatalf("expected add on move into target, got %+v", got)
	}
}

func TestReconcileMovedOutOfTarget(t *testing.T) {
	r := New()
	cfg := storage.GuildConfig{VoiceChannelID: "V1", RoleID: "R1"}

	r.Reconcile(event(voice.KindJoined, "V1", "", ""), cfg)
	got := r.Reconcile(event(voice.KindMoved, "", "V1", "V2"), cfg)
	if len(got) != 1 || got[0].Op != OpRemove {
		t.Fatalf("expected remove on move out of target, got %+v", got)
	}
}

func TestReconcileMovedBetweenUnrelatedChannels(t *testing.T) {
	r := New()
	cfg := storage.GuildConfig{VoiceChannelID: "V1", RoleID: "R1"}

	if got := r.Reconcile(event(voice.KindMoved, "", "V2", "V3"), cfg); len(got) != 0 {
		t.Fatalf("unrelated move should not mutate, got %+v", got)
	}
}

func TestReconcileDuplicateDeliverySuppressed(t *testing.T) {
	r := New()
	cfg := storage.GuildConfig{VoiceChannelID: "V1", RoleID: "R1"}

	join := event(voice.KindJoined, "V1", "", "")
	if got := r.Reconcile(join, cfg); len(got) != 1 {
		t.Fatalf("first join should mutate, got %+v", got)
	}
	if got := r.Reconcile(join, cfg); len(got) != 0 {
		t.Fatalf("duplicate join must not mutate again, got %+v", got)
	}

	left := event(voice.KindLeft, "V1", "", "")
	if got := r.Reconcile(left, cfg); len(got) != 1 {
		t.Fatalf("first leave should mutate, got %+v", got)
	}
	if got := r.Reconcile(left, cfg); len(got) != 0 {
		t.Fatalf("duplicate leave must not mutate again, got %+v", got)
	}
}

func TestReconcileMembersIndependent(t *testing.T) {
	r := New()
	cfg := storage.GuildConfig{VoiceChannelID: "V1", RoleID: "R1"}

	join := event(voice.KindJoined, "V1", "", "")
	if got := r.Reconcile(join, cfg); len(got) != 1 {
		t.Fatalf("u1 join should mutate, got %+v", got)
	}

	other := join
	other.UserID = "u2"
	if got := r.Reconcile(other, cfg); len(got) != 1 || got[0].UserID != "u2" {
		t.Fatalf("u2 join should mutate independently, got %+v", got)
	}
}

func TestReconcileResetGuild(t *testing.T) {
	r := New()
	cfg := storage.GuildConfig{VoiceChannelID: "V1", RoleID: "R1"}

	join := event(voice.KindJoined, "V1", "", "")
	r.Reconcile(join, cfg)
	r.ResetGuild("g1")

	if got := r.Reconcile(join, cfg); len(got) != 1 || got[0].Op != OpAdd {
		t.Fatalf("expected a fresh add after guild reset, got %+v", got)
	}
}

func TestReconcileAfterConfigReset(t *testing.T) {
	r := New()
	cfg := storage.GuildConfig{VoiceChannelID: "V1", RoleID: "R1"}
	r.Reconcile(event(voice.KindJoined, "V1", "", ""), cfg)

	if got := r.Reconcile(event(voice.KindLeft, "V1", "", ""), storage.GuildConfig{}); len(got) != 0 {
		t.Fatalf("cleared config must stop all mutations, got %+v", got)
	}
}
