package parser

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	dem "github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs"
	common "github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs/common"
	events "github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs/events"
	"github.com/markus-wa/demoinfocs-golang/v5/pkg/demoinfocs/msg"

	"cs-demo-recorder/internal/input"
	"cs-demo-recorder/internal/parser/extractors"
	"cs-demo-recorder/internal/sequence"
	"cs-demo-recorder/internal/voice"
)

// progressEveryTicks throttles progress callbacks during FrameDone.
const progressEveryTicks = 64 * 30

// Parser wraps demoinfocs to parse CS2 demo files.
type Parser struct {
	parser dem.Parser
	file   *os.File
	path   string
	closed bool
}

// MatchData contains everything extracted from one demo.
type MatchData struct {
	Map       string
	TickRate  int // 0 when the demo does not report one
	Truncated bool
	Events    []sequence.Event
	Samples   []input.TickSample // target player only, tick order
	Players   []PlayerInfo
}

// PlayerInfo is a roster entry. Slot is the player number used for voice
// selection.
type PlayerInfo struct {
	SteamID string `json:"steamId"`
	Name    string `json:"name"`
	Team    string `json:"team"`
	Slot    int    `json:"slot"`
}

// Roster converts the players to voice members.
func (m *MatchData) Roster() []voice.Member {
	members := make([]voice.Member, 0, len(m.Players))
	for _, p := range m.Players {
		members = append(members, voice.Member{SteamID: p.SteamID, Team: p.Team, Slot: p.Slot})
	}
	return members
}

// FindPlayer returns the roster entry for steamID.
func (m *MatchData) FindPlayer(steamID string) (PlayerInfo, bool) {
	for _, p := range m.Players {
		if p.SteamID == steamID {
			return p, true
		}
	}
	return PlayerInfo{}, false
}

// ParseCallback is called during parsing to report progress.
type ParseCallback func(stage string, tick, round int, pct float64)

// NewParser creates a new parser for the given demo file.
func NewParser(path string) (*Parser, error) {
	// Validate file exists and is readable
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access demo file: %w", err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("demo file is empty")
	}

	// Basic validation: check file extension
	if !strings.HasSuffix(strings.ToLower(path), ".dem") {
		return nil, fmt.Errorf("file does not have .dem extension")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open demo file: %w", err)
	}

	return &Parser{
		parser: dem.NewParser(f),
		file:   f,
		path:   path,
	}, nil
}

// Parse reads the whole demo. Button samples are only collected for
// playerID; pass "" to extract the event stream and roster alone.
// Cancelling ctx stops parsing at the next frame.
func (p *Parser) Parse(ctx context.Context, playerID string, callback ParseCallback) (*MatchData, error) {
	if callback == nil {
		callback = func(string, int, int, float64) {}
	}

	lifecycle := extractors.NewLifecycleExtractor()
	buttons := extractors.NewButtonsExtractor(playerID)
	roster := extractors.NewRosterExtractor()

	var mapName string
	p.parser.RegisterNetMessageHandler(func(m *msg.CSVCMsg_ServerInfo) {
		if m != nil {
			mapName = m.GetMapName()
		}
	})

	// Track current tick manually since GameState might not be available during parsing
	currentTick := 0
	getCurrentTick := func() int {
		gs := p.parser.GameState()
		if gs != nil {
			if tick := gs.IngameTick(); tick > 0 {
				currentTick = tick
			}
		}
		return currentTick
	}
	isWarmup := func() bool {
		gs := p.parser.GameState()
		return gs != nil && gs.IsWarmupPeriod()
	}
	refreshRoster := func() {
		gs := p.parser.GameState()
		if gs == nil {
			return
		}
		for _, player := range gs.Participants().All() {
			roster.HandlePlayer(player)
		}
	}

	p.parser.RegisterEventHandler(func(e events.GenericGameEvent) {
		if e.Name != string(sequence.KindSpawn) {
			return
		}
		userid, ok := eventUserID(e)
		if !ok {
			return
		}
		lifecycle.HandleSpawn(p.playerByUserID(userid), getCurrentTick(), isWarmup())
	})

	p.parser.RegisterEventHandler(func(e events.Kill) {
		lifecycle.HandleDeath(e.Victim, getCurrentTick(), isWarmup())
	})

	rounds := 0
	p.parser.RegisterEventHandler(func(e events.RoundEndOfficial) {
		tick := getCurrentTick()
		warmup := isWarmup()
		lifecycle.HandleRoundEnd(tick, warmup)
		if !warmup {
			rounds++
		}
		refreshRoster()
		callback("parsing", tick, rounds, float64(p.parser.Progress()))
	})

	p.parser.RegisterEventHandler(func(e events.AnnouncementWinPanelMatch) {
		lifecycle.HandleMatchWon(getCurrentTick(), isWarmup())
		refreshRoster()
	})

	p.parser.RegisterEventHandler(func(e events.RoundFreezetimeEnd) {
		refreshRoster()
	})

	lastProgressTick := 0
	p.parser.RegisterEventHandler(func(e events.FrameDone) {
		if ctx.Err() != nil {
			p.parser.Cancel()
			return
		}

		tick := getCurrentTick()
		if tick-lastProgressTick >= progressEveryTicks {
			lastProgressTick = tick
			callback("parsing", tick, rounds, float64(p.parser.Progress()))
		}

		if playerID == "" {
			return
		}
		gs := p.parser.GameState()
		if gs == nil {
			return
		}
		for _, player := range gs.Participants().All() {
			if buttons.HandlePlayer(player, tick) {
				break
			}
		}
	})

	callback("parsing", 0, 0, 0)

	// Parse with recovery to handle panics from demoinfocs
	var parseErr error
	var panicValue interface{}
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicValue = r
				parseErr = fmt.Errorf("parser panic: %v", r)
			}
		}()
		parseErr = p.parser.ParseToEnd()
	}()

	truncated := false
	switch {
	case ctx.Err() != nil:
		return nil, fmt.Errorf("parsing cancelled: %w", ctx.Err())
	case panicValue != nil:
		return nil, fmt.Errorf("parser crashed during parsing (demo may be corrupted, incomplete, or incompatible): %w", parseErr)
	case errors.Is(parseErr, dem.ErrUnexpectedEndOfDemo):
		// Keep what was read; the detector decides whether the tail is usable.
		truncated = true
	case parseErr != nil:
		return nil, fmt.Errorf("failed to parse demo: %w", parseErr)
	}

	refreshRoster()
	finalTick := getCurrentTick()

	data := &MatchData{
		Map:       mapName,
		TickRate:  int(math.Round(p.parser.TickRate())),
		Truncated: truncated,
		Events:    lifecycle.GetEvents(),
		Samples:   buttons.GetSamples(),
		Players:   make([]PlayerInfo, 0),
	}
	for _, entry := range roster.GetPlayers() {
		data.Players = append(data.Players, PlayerInfo{
			SteamID: entry.SteamID,
			Name:    entry.Name,
			Team:    entry.Team,
			Slot:    entry.Slot,
		})
	}

	callback("complete", finalTick, rounds, 1.0)
	return data, nil
}

// Close closes the parser and underlying file. Calling it again is a no-op.
func (p *Parser) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.parser.Close(); err != nil {
		return fmt.Errorf("failed to close parser: %w", err)
	}
	if err := p.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("failed to close demo file: %w", err)
	}
	return nil
}

// playerByUserID resolves a game event user id. CS2 user ids are the
// player's slot, one below the controller entity index.
func (p *Parser) playerByUserID(userid int) *common.Player {
	gs := p.parser.GameState()
	if gs == nil {
		return nil
	}
	participants := gs.Participants()
	if player, ok := participants.ByUserID()[userid]; ok && player != nil {
		return player
	}
	for _, player := range participants.All() {
		if player != nil && player.Entity != nil && player.Entity.ID() == userid+1 {
			return player
		}
	}
	return nil
}

// eventUserID extracts the userid key of a generic game event.
func eventUserID(e events.GenericGameEvent) (int, bool) {
	key, ok := e.Data["userid"]
	if !ok || key == nil {
		return 0, false
	}
	switch {
	case key.ValShort != nil:
		return int(*key.ValShort), true
	case key.ValLong != nil:
		return int(*key.ValLong), true
	case key.ValByte != nil:
		return int(*key.ValByte), true
	}
	return 0, false
}
