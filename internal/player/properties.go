package player

import (
	"strconv"

	"github.com/polyfloyd/gompd/mpd"

	"github.com/rbergstrom/euphony/internal/library"
)

// CurrentTrack describes the item MPD is presently on, resolved against the
// published library snapshot so its id lines up with dmap.itemid elsewhere
// in the same response. ElapsedMs/DurationMs come straight from MPD's
// status, not the library (the library only knows a track's nominal
// duration, not how far into it playback is).
type CurrentTrack struct {
	Item         *library.Item
	Container    *library.Container
	State        int
	ElapsedMs    int64
	DurationMs   int64
	ContainerPos int
}

// CurrentTrack reads MPD's status and currentsong in one round trip and
// resolves the playing file against the library snapshot. If MPD is
// stopped, or the current file isn't in the snapshot (a rebuild is racing
// playback), Item and Container come back nil but State is still valid.
func (a *Adapter) CurrentTrack() (CurrentTrack, error) {
	var ct CurrentTrack
	err := a.withMPD(func(mpdc *mpd.Client) error {
		status, err := mpdc.Status()
		if err != nil {
			return err
		}
		ct.State = stateFromStatus(status)
		ct.ElapsedMs = int64(parseMpdSeconds(status["elapsed"]) * 1000)
		ct.DurationMs = int64(parseMpdSeconds(status["duration"]) * 1000)

		song, err := mpdc.CurrentSong()
		if err != nil {
			return err
		}
		file := song["file"]
		if file == "" {
			return nil
		}

		snap := a.Snapshot()
		for _, item := range snap.Items.Items() {
			if item.URI == file {
				ct.Item = item
				break
			}
		}
		if ct.DurationMs == 0 && ct.Item != nil {
			ct.DurationMs = int64(ct.Item.DurationMs)
		}
		ct.Container = snap.RootContainer
		ct.ContainerPos = snap.RootContainer.ItemIndex(itemIDOrZero(ct.Item))
		return nil
	})
	return ct, err
}

func itemIDOrZero(i *library.Item) uint32 {
	if i == nil {
		return 0
	}
	return i.ID()
}

func stateFromStatus(status mpd.Attrs) int {
	switch status["state"] {
	case "play":
		return StatePlaying
	case "pause":
		return StatePaused
	default:
		return StateStopped
	}
}

func parseMpdSeconds(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// PlayerProperties returns the getable dacp.* / dmcp.* properties: playback
// state, shuffle/repeat state (and their available-states constants),
// volume and now-playing identifiers. One borrowed connection serves the
// status and currentsong reads behind every field.
func (a *Adapter) PlayerProperties() (map[string]interface{}, error) {
	props := map[string]interface{}{
		"dacp.availablerepeatstates":  int64(AvailableRepeatStates),
		"dacp.availableshufflestates": int64(AvailableShuffleStates),
		"dacp.volumecontrollable":     int64(VolumeControllable),
	}
	err := a.withMPD(func(mpdc *mpd.Client) error {
		status, err := mpdc.Status()
		if err != nil {
			return err
		}
		props["dacp.playerstate"] = int64(stateFromStatus(status))
		props["dacp.shufflestate"] = int64(shuffleStateFromStatus(status))
		props["dacp.repeatstate"] = int64(repeatStateFromStatus(status))
		vol, _ := strconv.Atoi(status["volume"])
		if vol < 0 {
			vol = 0
		}
		props["dmcp.volume"] = int64(vol)

		song, err := mpdc.CurrentSong()
		if err != nil {
			return err
		}
		props["dacp.nowplaying"] = a.nowPlayingIDs(song)
		return nil
	})
	return props, err
}

func shuffleStateFromStatus(status mpd.Attrs) int {
	if status["random"] == "1" {
		return ShuffleOn
	}
	return ShuffleOff
}

func repeatStateFromStatus(status mpd.Attrs) int {
	repeat := status["repeat"] == "1"
	single := status["single"] == "1"
	switch {
	case repeat && single:
		return RepeatSingle
	case repeat:
		return RepeatOn
	default:
		return RepeatOff
	}
}

// nowPlayingIDs builds the (database id, container id, container-item id,
// item id) tuple dacp.nowplaying carries, resolved against the published
// snapshot rather than hardcoded, so a client following up with
// dacp.nowplaying's container-item id against /databases/.../containers
// actually finds the track.
func (a *Adapter) nowPlayingIDs(song mpd.Attrs) []int64 {
	file := song["file"]
	if file == "" {
		return []int64{1, 0, 0, 0}
	}
	snap := a.Snapshot()
	root := snap.RootContainer
	for _, item := range root.Items.Items() {
		if item.URI == file {
			return []int64{1, int64(root.ID()), int64(item.ID()), int64(item.ID())}
		}
	}
	return []int64{1, int64(root.ID()), 0, 0}
}

// SetProperty applies a dacp.* setproperty write. Unknown keys are reported
// to the caller so the handler can log-and-204 rather than erroring.
func (a *Adapter) SetProperty(name, value string) (known bool, err error) {
	switch name {
	case "dacp.playingtime":
		ms, convErr := strconv.Atoi(value)
		if convErr != nil {
			return true, convErr
		}
		return true, a.SeekMs(ms)
	case "dacp.shufflestate":
		mode, convErr := strconv.Atoi(value)
		if convErr != nil {
			return true, convErr
		}
		return true, a.SetShuffle(mode)
	case "dacp.repeatstate":
		mode, convErr := strconv.Atoi(value)
		if convErr != nil {
			return true, convErr
		}
		return true, a.SetRepeat(mode)
	case "dmcp.volume":
		vol, convErr := strconv.Atoi(value)
		if convErr != nil {
			return true, convErr
		}
		return true, a.SetVolume(vol)
	default:
		return false, nil
	}
}

// --- transport controls ---

// TogglePlay flips between play and pause depending on MPD's current state.
func (a *Adapter) TogglePlay() error {
	return a.withMPD(func(mpdc *mpd.Client) error {
		status, err := mpdc.Status()
		if err != nil {
			return err
		}
		if status["state"] == "play" {
			return mpdc.Pause(true)
		}
		return mpdc.Play(-1)
	})
}

// Pause pauses playback unconditionally.
func (a *Adapter) Pause() error {
	return a.withMPD(func(mpdc *mpd.Client) error { return mpdc.Pause(true) })
}

// Play starts playback. pos, if non-nil, is the 0-based queue position to
// jump to; nil resumes wherever MPD's cursor is.
func (a *Adapter) Play(pos *int) error {
	return a.withMPD(func(mpdc *mpd.Client) error {
		if pos == nil {
			return mpdc.Play(-1)
		}
		return mpdc.Play(*pos)
	})
}

// Next skips to the following queue entry.
func (a *Adapter) Next() error {
	return a.withMPD(func(mpdc *mpd.Client) error { return mpdc.Next() })
}

// Prev restarts or skips to the preceding queue entry.
func (a *Adapter) Prev() error {
	return a.withMPD(func(mpdc *mpd.Client) error { return mpdc.Previous() })
}

// SeekMs seeks within the current track. MPD's seek command takes whole
// seconds, so ms is floor-divided by 1000.
func (a *Adapter) SeekMs(ms int) error {
	return a.withMPD(func(mpdc *mpd.Client) error {
		status, err := mpdc.Status()
		if err != nil {
			return err
		}
		songIdx, err := strconv.Atoi(status["song"])
		if err != nil {
			return nil // nothing queued to seek within
		}
		return mpdc.Seek(songIdx, ms/1000)
	})
}

// SetVolume sets MPD's output volume, clamped to the valid 0-100 range.
func (a *Adapter) SetVolume(vol int) error {
	if vol < 0 {
		vol = 0
	}
	if vol > 100 {
		vol = 100
	}
	return a.withMPD(func(mpdc *mpd.Client) error { return mpdc.SetVolume(vol) })
}

// SetRepeat maps a dacp repeat-state onto MPD's independent repeat/single
// flag pair.
func (a *Adapter) SetRepeat(mode int) error {
	return a.withMPD(func(mpdc *mpd.Client) error {
		switch mode {
		case RepeatOff:
			if err := mpdc.Repeat(false); err != nil {
				return err
			}
			return mpdc.Single(false)
		case RepeatOn:
			if err := mpdc.Repeat(true); err != nil {
				return err
			}
			return mpdc.Single(false)
		case RepeatSingle:
			if err := mpdc.Repeat(true); err != nil {
				return err
			}
			return mpdc.Single(true)
		default:
			return nil
		}
	})
}

// SetShuffle maps a dacp shuffle-state onto MPD's random flag.
func (a *Adapter) SetShuffle(mode int) error {
	return a.withMPD(func(mpdc *mpd.Client) error { return mpdc.Random(mode == ShuffleOn) })
}

// ClearCurrent empties the MPD play queue.
func (a *Adapter) ClearCurrent() error {
	return a.withMPD(func(mpdc *mpd.Client) error { return mpdc.Clear() })
}

// AddToCurrent appends uri to the MPD play queue.
func (a *Adapter) AddToCurrent(uri string) error {
	return a.withMPD(func(mpdc *mpd.Client) error { return mpdc.Add(uri) })
}

// LoadPlaylist clears the queue and loads the named playlist into it.
func (a *Adapter) LoadPlaylist(name string) error {
	return a.withMPD(func(mpdc *mpd.Client) error {
		if err := mpdc.Clear(); err != nil {
			return err
		}
		return mpdc.PlaylistLoad(name, -1, -1)
	})
}

// CreatePlaylist saves the current queue as a new stored playlist.
func (a *Adapter) CreatePlaylist(name string) error {
	return a.withMPD(func(mpdc *mpd.Client) error { return mpdc.PlaylistSave(name) })
}

// AddToPlaylist appends uri to the named stored playlist, distinct from
// AddToCurrent's play-queue "add" command: this is MPD's "playlistadd",
// which mutates the stored playlist a container represents rather than
// whatever's currently queued for playback.
func (a *Adapter) AddToPlaylist(name, uri string) error {
	return a.withMPD(func(mpdc *mpd.Client) error { return mpdc.PlaylistAdd(name, uri) })
}

// NewEmptyPlaylist creates an empty stored playlist. MPD has no "create
// empty playlist" primitive, so this saves the current queue under the new
// name and immediately clears it back out.
func (a *Adapter) NewEmptyPlaylist(name string) error {
	return a.withMPD(func(mpdc *mpd.Client) error {
		if err := mpdc.PlaylistSave(name); err != nil {
			return err
		}
		return mpdc.PlaylistClear(name)
	})
}
