package server

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/safeport/server/block"
	"github.com/df-mc/safeport/server/journal"
	"github.com/df-mc/safeport/server/portal"
	"github.com/df-mc/safeport/server/safety"
	"github.com/df-mc/safeport/server/search"
	"github.com/df-mc/safeport/server/teleport"
	"github.com/df-mc/safeport/server/world"
	"github.com/pelletier/go-toml"
	"github.com/sandertv/gophertunnel/minecraft/text"
)

// Config contains options for creating a teleport Coordinator.
type Config struct {
	// Log is the Logger to use for logging information. If nil, Log is set to
	// slog.Default(). Search decisions are only logged if Log has at least
	// debug level.
	Log *slog.Logger
	// Source is the world.Source blocks are read from. Source must be set.
	Source world.Source
	// Range, if not zero, overrides the vertical bounds reported by Source
	// for every world.
	Range cube.Range
	// Names reports if the host knows a block by the name passed. It is used
	// to choose between current and legacy block names. If nil, every name is
	// assumed to be known.
	Names func(name string) bool
	// BlockVersion is the block state version materials are upgraded to
	// before they are classified. If 0, the current version is used.
	BlockVersion int32
	// Scheduler runs the velocity of a destination one tick after arriving.
	// If nil, velocity is applied immediately.
	Scheduler teleport.Scheduler
	// Registry stores the pending teleport requests. If nil, a new Registry
	// keeping requests for RequestTTL is created.
	Registry *teleport.Registry
	// RequestTTL is the time a teleport request is kept. If 0 or lower,
	// teleport.DefaultRequestTTL is used.
	RequestTTL time.Duration
	// Journal, if not nil, receives an entry for every decided teleport.
	Journal *journal.DB
	// Metrics, if not nil, counts teleport outcomes and search work.
	Metrics *teleport.Metrics
	// Tolerance is the number of blocks searched vertically for a safe
	// point. If 0, search.DefaultTolerance is used.
	Tolerance int
	// Radius is the width of the widest ring searched for a safe point. If
	// 0, search.DefaultRadius is used.
	Radius int
	// Portals holds the portal types allowed per world name: all, none,
	// nether or end. Worlds not listed allow every portal type.
	Portals map[string]string
	// NoSafeLocationMessage is sent to a player for whom no safe point was
	// found. If empty, the default notice of teleport.NewCoordinator is used.
	NoSafeLocationMessage string
}

// New creates a teleport Coordinator using the fields of conf.
func (conf Config) New() *teleport.Coordinator {
	conf = conf.withDefaults()
	c := conf.classifier()
	opts := teleport.Options{
		Log:            conf.Log,
		Evaluator:      safety.New(c),
		Locator:        portal.NewLocator(c),
		Scheduler:      conf.Scheduler,
		Registry:       conf.Registry,
		Metrics:        conf.Metrics,
		Search:         search.Ring{Tolerance: conf.Tolerance, Radius: conf.Radius},
		NoSafeLocation: conf.NoSafeLocationMessage,
	}
	if conf.Journal != nil {
		opts.Journal = conf.Journal
	}
	return teleport.NewCoordinator(opts)
}

// Policy creates the portal.Policy described by the Portals field of conf.
func (conf Config) Policy() (*portal.Policy, error) {
	conf = conf.withDefaults()
	p, err := portal.NewPolicy(conf.classifier(), conf.Portals)
	if err != nil {
		return nil, fmt.Errorf("create portal policy: %w", err)
	}
	return p, nil
}

func (conf Config) withDefaults() Config {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.Source == nil {
		panic("server: config requires a world source")
	}
	if conf.Range != (cube.Range{}) {
		conf.Source = world.WithRange(conf.Source, conf.Range)
	}
	if conf.Registry == nil {
		conf.Registry = teleport.NewRegistry(conf.RequestTTL)
	}
	if conf.Tolerance == 0 {
		conf.Tolerance = search.DefaultTolerance
	}
	if conf.Radius == 0 {
		conf.Radius = search.DefaultRadius
	}
	return conf
}

func (conf Config) classifier() *block.Classifier {
	return block.NewClassifier(conf.Source, block.NewTable(conf.Names), block.NewUpgrader(conf.BlockVersion))
}

// UserConfig is the user configuration for safe teleporting. It may be
// serialised as TOML and can be converted to a Config by calling
// UserConfig.Config().
type UserConfig struct {
	Search struct {
		// Tolerance is the number of blocks searched vertically around a
		// destination. Odd values are rounded up.
		Tolerance int
		// Radius is the width of the widest ring of columns searched around a
		// destination. Even values are rounded up.
		Radius int
	}
	Requests struct {
		// TTL is the time a pending teleport request is remembered, such as
		// "1m" or "30s".
		TTL string
	}
	Journal struct {
		// Enabled controls whether decided teleports are written to a journal.
		Enabled bool
		// Folder is the folder the journal database resides in.
		Folder string
	}
	Portals struct {
		// Worlds maps world names to the portal types that may be formed in
		// them: all, none, nether or end.
		Worlds map[string]string
	}
	World struct {
		// MinY and MaxY override the vertical bounds of worlds if MaxY is
		// greater than MinY.
		MinY int
		MaxY int
	}
	Messages struct {
		// NoSafeLocation is sent to players for whom no safe point was found.
		// Colour tags such as <red> are supported.
		NoSafeLocation string
	}
}

// DefaultConfig returns a configuration with the default values filled out.
func DefaultConfig() UserConfig {
	c := UserConfig{}
	c.Search.Tolerance = search.DefaultTolerance
	c.Search.Radius = search.DefaultRadius
	c.Requests.TTL = teleport.DefaultRequestTTL.String()
	c.Journal.Enabled = false
	c.Journal.Folder = "journal"
	c.Portals.Worlds = map[string]string{}
	c.Messages.NoSafeLocation = "<red>No safe locations found!</red>"
	return c
}

// LoadUserConfig reads the UserConfig stored at path. If no file exists at
// path, it is created with the values of DefaultConfig. Fields missing from
// the file keep their default values.
func LoadUserConfig(path string) (UserConfig, error) {
	c := DefaultConfig()
	contents, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return c, fmt.Errorf("read config: %w", err)
		}
		if err := writeUserConfig(path, c); err != nil {
			return c, err
		}
		return c, nil
	}
	if err := toml.Unmarshal(contents, &c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

func writeUserConfig(path string, c UserConfig) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	encoded, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Config converts a UserConfig to a Config reading blocks from src, so that
// it may be used for creating a Coordinator. An error is returned if a value
// is invalid or the journal could not be opened.
func (uc UserConfig) Config(log *slog.Logger, src world.Source) (Config, error) {
	conf := Config{
		Log:       log,
		Source:    src,
		Tolerance: uc.Search.Tolerance,
		Radius:    uc.Search.Radius,
		Portals:   uc.Portals.Worlds,
	}
	if uc.World.MaxY > uc.World.MinY {
		conf.Range = cube.Range{uc.World.MinY, uc.World.MaxY}
	}
	if msg := uc.Messages.NoSafeLocation; msg != "" {
		conf.NoSafeLocationMessage = text.Colourf("%s", msg)
	}
	if uc.Requests.TTL != "" {
		ttl, err := time.ParseDuration(uc.Requests.TTL)
		if err != nil {
			return conf, fmt.Errorf("parse request ttl: %w", err)
		}
		conf.RequestTTL = ttl
	}
	for name, s := range uc.Portals.Worlds {
		if _, err := portal.ParseAllowance(s); err != nil {
			return conf, fmt.Errorf("portals of world %v: %w", name, err)
		}
	}
	if uc.Journal.Enabled {
		db, err := journal.Open(uc.Journal.Folder)
		if err != nil {
			return conf, fmt.Errorf("create journal: %w", err)
		}
		conf.Journal = db
	}
	return conf, nil
}
